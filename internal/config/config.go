// YAML scenario loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mitigation strategy names accepted in scenario files.
const (
	StrategyNone          = "none"
	StrategyKineticImpact = "kinetic_impactor"
	StrategyNuclear       = "nuclear_deflection"
	StrategyFragmentation = "fragmentation"
)

// Asteroid defines the physical parameters of an impactor.
type Asteroid struct {
	DiameterM      float64  `yaml:"diameter_m" json:"diameter_m"`
	VelocityMS     float64  `yaml:"velocity_m_s" json:"velocity_m_s"`
	DensityKgM3    float64  `yaml:"density_kg_m3" json:"density_kg_m3"`
	ImpactAngleDeg float64  `yaml:"impact_angle_deg" json:"impact_angle_deg"`
	Lat            *float64 `yaml:"lat,omitempty" json:"lat,omitempty"`
	Lon            *float64 `yaml:"lon,omitempty" json:"lon,omitempty"`
}

// Mitigation selects one deflection strategy and its parameter.
type Mitigation struct {
	Strategy             string  `yaml:"strategy" json:"strategy"`
	VelocityReductionPct float64 `yaml:"velocity_reduction_pct,omitempty" json:"velocity_reduction_pct,omitempty"`
	EnergyReductionPct   float64 `yaml:"energy_reduction_pct,omitempty" json:"energy_reduction_pct,omitempty"`
	FragmentCount        int     `yaml:"fragment_count,omitempty" json:"fragment_count,omitempty"`
}

// Scenario pairs an asteroid with an optional mitigation and the population
// context used for exposure estimates.
type Scenario struct {
	Name                    string     `yaml:"name"`
	Asteroid                Asteroid   `yaml:"asteroid"`
	Mitigation              Mitigation `yaml:"mitigation,omitempty"`
	PopulationRegion        string     `yaml:"population_region,omitempty"`
	PopulationDensityPerKm2 float64    `yaml:"population_density_per_km2,omitempty"`
}

// SimulationConfig is the root configuration: the scenarios to evaluate.
type SimulationConfig struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load loads YAML config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios defined in %s", configPath)
	}
	return &cfg, nil
}
