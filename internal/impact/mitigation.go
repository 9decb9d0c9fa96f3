// Mitigation operators. Each one reads only the prior result's Input, builds
// a new Input with the perturbed field(s), and delegates back to Compute, so
// before/after records always come from the identical code path.
package impact

import "math"

// KineticImpactor models a deflection that reduces the impactor's velocity
// by reductionPct percent. reductionPct must be in (0, 100).
func KineticImpactor(prior Result, reductionPct float64) (Result, error) {
	if !(reductionPct > 0 && reductionPct < 100) {
		return Result{}, violation("reduction_pct", "must be in (0, 100)")
	}
	in := prior.Input
	in.VelocityMS = prior.Input.VelocityMS * (1.0 - reductionPct/100.0)
	return Compute(in)
}

// NuclearDeflection models a standoff detonation that removes reductionPct
// percent of the impact energy. Since E ∝ v², velocity is scaled by
// sqrt(1 - pct/100), which yields the stated energy reduction exactly
// (mass change is ignored). reductionPct must be in (0, 100).
func NuclearDeflection(prior Result, reductionPct float64) (Result, error) {
	if !(reductionPct > 0 && reductionPct < 100) {
		return Result{}, violation("reduction_pct", "must be in (0, 100)")
	}
	in := prior.Input
	in.VelocityMS = prior.Input.VelocityMS * math.Sqrt(1.0-reductionPct/100.0)
	return Compute(in)
}

// Fragmentation models splitting the body into fragments equal pieces,
// approximated as one representative fragment rather than N separate
// impacts: volume-conserving diameter split plus a 1/sqrt(N) velocity loss
// from atmospheric dispersal. fragments must be >= 2.
func Fragmentation(prior Result, fragments int) (Result, error) {
	if fragments < 2 {
		return Result{}, violation("fragment_count", "must be >= 2")
	}
	n := float64(fragments)
	in := prior.Input
	in.VelocityMS = prior.Input.VelocityMS / math.Sqrt(n)
	in.DiameterM = prior.Input.DiameterM / math.Cbrt(n)
	return Compute(in)
}
