// Population exposure estimation for damage-zone areas.
package population

// DefaultDensityPerKm2 is the fallback population density (people per km²)
// applied when the caller supplies none. Roughly a global land average.
const DefaultDensityPerKm2 = 60.0

// Table maps region names to population densities in people per km². It is
// an explicit configuration value passed by callers; "default" is one named
// option among the others, not ambient state.
type Table map[string]float64

// SampleTable returns the built-in sample densities.
func SampleTable() Table {
	return Table{
		"default":   DefaultDensityPerKm2,
		"India":     464.0,
		"USA":       36.0,
		"China":     153.0,
		"Brazil":    25.0,
		"Australia": 3.2,
	}
}

// Lookup returns the density for a named region, falling back to
// DefaultDensityPerKm2 when the region is unknown or empty.
func (t Table) Lookup(region string) float64 {
	if d, ok := t[region]; ok {
		return d
	}
	return DefaultDensityPerKm2
}

// Estimate returns the expected number of people inside an affected area.
// A non-positive density falls back to DefaultDensityPerKm2.
func Estimate(areaKm2, densityPerKm2 float64) float64 {
	if densityPerKm2 <= 0 {
		densityPerKm2 = DefaultDensityPerKm2
	}
	return areaKm2 * densityPerKm2
}
