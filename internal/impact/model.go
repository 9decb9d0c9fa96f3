// Impact physics model. All formulas are simplified empirical approximations
// for decision support, not a validated physics engine.
package impact

import "math"

// JoulesPerMegatonTNT converts impact energy to megatons of TNT equivalent.
const JoulesPerMegatonTNT = 4.184e15

const (
	// Target (crustal rock) density used by the crater scaling law,
	// deliberately distinct from the impactor's own density.
	targetDensityKgM3 = 2500.0

	// Tuned coefficient bringing crater diameters to realistic magnitude.
	craterCoefficient = 0.035

	minCraterDiameterM = 1.0
)

// Damage-zone scaling multipliers applied to energy_megatons^(1/3), and the
// minimum radius each zone is floored to so zones stay meaningful for
// negligible but positive energies.
const (
	lethalScaleM   = 1000.0
	severeScaleM   = 1200.0
	moderateScaleM = 3600.0

	lethalFloorM   = 5.0
	severeFloorM   = 10.0
	moderateFloorM = 20.0
)

func validateInput(in Input) error {
	if !(in.DiameterM > 0) {
		return violation("diameter_m", "must be > 0")
	}
	if !(in.VelocityMS > 0) {
		return violation("velocity_m_s", "must be > 0")
	}
	if !(in.DensityKgM3 > 0) {
		return violation("density_kg_m3", "must be > 0")
	}
	if !(in.ImpactAngleDeg > 0 && in.ImpactAngleDeg <= 90) {
		return violation("impact_angle_deg", "must be in (0, 90]")
	}
	return nil
}

// Compute derives the full effects record for one impact scenario. It is a
// pure function of its input: identical inputs yield bit-identical results.
func Compute(in Input) (Result, error) {
	if err := validateInput(in); err != nil {
		return Result{}, err
	}

	mass := massFromDiameter(in.DiameterM, in.DensityKgM3)
	energy := 0.5 * mass * in.VelocityMS * in.VelocityMS
	megatons := energy / JoulesPerMegatonTNT

	radii := damageRadii(megatons)

	return Result{
		Input:           in,
		MassKg:          mass,
		EnergyJoules:    energy,
		EnergyMegatons:  megatons,
		CraterDiameterM: craterDiameter(energy, in.DensityKgM3, in.ImpactAngleDeg),
		DamageRadii:     radii,
		AffectedAreas: AffectedAreas{
			LethalKm2:   AreaFromRadius(radii.LethalM),
			SevereKm2:   AreaFromRadius(radii.SevereM),
			ModerateKm2: AreaFromRadius(radii.ModerateM),
		},
	}, nil
}

// massFromDiameter returns the mass of a spherical impactor in kg.
func massFromDiameter(diameterM, densityKgM3 float64) float64 {
	r := diameterM / 2.0
	volume := (4.0 / 3.0) * math.Pi * r * r * r
	return densityKgM3 * volume
}

// craterDiameter estimates the final crater diameter in meters using a
// D ~ C·E^(1/4) power law with angle and density corrections. Shallower
// impacts shrink the crater via sin(angle)^(1/3).
func craterDiameter(energyJoules, impactorDensityKgM3, angleDeg float64) float64 {
	angleFactor := math.Cbrt(math.Sin(angleDeg * math.Pi / 180))
	densityFactor := math.Pow(impactorDensityKgM3/targetDensityKgM3, 1.0/9.0)
	d := craterCoefficient * math.Pow(energyJoules, 0.25) * angleFactor * densityFactor
	return math.Max(minCraterDiameterM, d)
}

// damageRadii estimates the three severity-zone radii in meters. Zero or
// negative energy short-circuits to all-zero radii; the floors apply only
// when there is energy to release.
func damageRadii(megatons float64) DamageRadii {
	if megatons <= 0 {
		return DamageRadii{}
	}
	scale := math.Cbrt(megatons)
	return DamageRadii{
		LethalM:   math.Max(lethalFloorM, lethalScaleM*scale),
		SevereM:   math.Max(severeFloorM, severeScaleM*scale),
		ModerateM: math.Max(moderateFloorM, moderateScaleM*scale),
	}
}

// AreaFromRadius returns the circular area in km² for a radius in meters.
func AreaFromRadius(radiusM float64) float64 {
	return math.Pi * radiusM * radiusM / 1e6
}
