// Impact scenario value types
package impact

// Zone identifies one damage-severity tier.
type Zone int

// Severity tiers, innermost first.
const (
	ZoneLethal Zone = iota
	ZoneSevere
	ZoneModerate
)

func (z Zone) String() string {
	switch z {
	case ZoneLethal:
		return "lethal"
	case ZoneSevere:
		return "severe"
	case ZoneModerate:
		return "moderate"
	}
	return "unknown"
}

// Zones returns the severity tiers in their fixed display order.
// Comparison views iterate this slice rather than relying on map order.
func Zones() []Zone {
	return []Zone{ZoneLethal, ZoneSevere, ZoneModerate}
}

// Input holds the physical parameters of one impact scenario.
// Lat/Lon are nil when no impact location is specified.
type Input struct {
	DiameterM      float64  `json:"diameter_m"`
	VelocityMS     float64  `json:"velocity_m_s"`
	DensityKgM3    float64  `json:"density_kg_m3"`
	ImpactAngleDeg float64  `json:"impact_angle_deg"`
	Lat            *float64 `json:"lat,omitempty"`
	Lon            *float64 `json:"lon,omitempty"`
}

// DamageRadii holds the three damage-zone radii in meters.
type DamageRadii struct {
	LethalM   float64 `json:"lethal_m"`
	SevereM   float64 `json:"severe_m"`
	ModerateM float64 `json:"moderate_m"`
}

// ByZone returns the radius for the given severity tier.
func (r DamageRadii) ByZone(z Zone) float64 {
	switch z {
	case ZoneLethal:
		return r.LethalM
	case ZoneSevere:
		return r.SevereM
	case ZoneModerate:
		return r.ModerateM
	}
	return 0
}

// AffectedAreas holds the circular area of each damage zone in km².
type AffectedAreas struct {
	LethalKm2   float64 `json:"lethal_km2"`
	SevereKm2   float64 `json:"severe_km2"`
	ModerateKm2 float64 `json:"moderate_km2"`
}

// ByZone returns the area for the given severity tier.
func (a AffectedAreas) ByZone(z Zone) float64 {
	switch z {
	case ZoneLethal:
		return a.LethalKm2
	case ZoneSevere:
		return a.SevereKm2
	case ZoneModerate:
		return a.ModerateKm2
	}
	return 0
}

// Result is the complete effects record for one scenario. It retains the
// originating Input verbatim so mitigation operators can derive a new
// scenario from it. A Result is never mutated after Compute returns it.
type Result struct {
	Input           Input         `json:"input"`
	MassKg          float64       `json:"mass_kg"`
	EnergyJoules    float64       `json:"energy_joules"`
	EnergyMegatons  float64       `json:"energy_megatons"`
	CraterDiameterM float64       `json:"crater_diameter_m"`
	DamageRadii     DamageRadii   `json:"damage_radii_m"`
	AffectedAreas   AffectedAreas `json:"affected_areas_km2"`
}
