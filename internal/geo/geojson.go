// GeoJSON shaping of impact results for map collaborators.
package geo

import (
	"fmt"
	"math"

	"impactsim/internal/impact"
)

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry holds a Point ([]float64) or Polygon ([][][]float64) shape.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Severity-zone fill colors, innermost zone darkest.
var zoneColors = map[impact.Zone]string{
	impact.ZoneLethal:   "#800000",
	impact.ZoneSevere:   "#FF4500",
	impact.ZoneModerate: "#FFA500",
}

const circleSegments = 64

// FromResult renders an impact result as a feature collection: the impact
// point, the crater, and one circle per damage zone. A result without a
// location is centered at (0, 0), matching the world-map fallback.
func FromResult(res impact.Result) FeatureCollection {
	lat, lon := 0.0, 0.0
	located := false
	if res.Input.Lat != nil && res.Input.Lon != nil {
		lat, lon = *res.Input.Lat, *res.Input.Lon
		located = true
	}

	features := make([]Feature, 0, 2+len(impact.Zones()))
	features = append(features, Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: []float64{lon, lat},
		},
		Properties: map[string]any{
			"kind":    "impact_point",
			"located": located,
		},
	})

	craterRadiusM := math.Max(1.0, res.CraterDiameterM/2.0)
	features = append(features, Feature{
		Type:     "Feature",
		Geometry: circlePolygon(lat, lon, craterRadiusM),
		Properties: map[string]any{
			"kind":     "crater",
			"radius_m": craterRadiusM,
			"color":    "#000000",
		},
	})

	for _, z := range impact.Zones() {
		radius := res.DamageRadii.ByZone(z)
		features = append(features, Feature{
			Type:     "Feature",
			Geometry: circlePolygon(lat, lon, radius),
			Properties: map[string]any{
				"kind":     "damage_zone",
				"zone":     z.String(),
				"radius_m": radius,
				"area_km2": res.AffectedAreas.ByZone(z),
				"color":    zoneColors[z],
				"label":    fmt.Sprintf("%s: %.0f m", z, radius),
			},
		})
	}

	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// circlePolygon approximates a circle of radiusM meters around (lat, lon) as
// a closed polygon ring. Uses the same flat-earth meter-to-degree conversion
// as the rest of the toolkit (adequate at damage-zone scale).
func circlePolygon(lat, lon, radiusM float64) Geometry {
	ring := make([][]float64, 0, circleSegments+1)
	cosLat := math.Cos(lat * math.Pi / 180)
	if math.Abs(cosLat) < 1e-9 {
		cosLat = 1e-9
	}
	for i := 0; i < circleSegments; i++ {
		theta := float64(i) / circleSegments * 2 * math.Pi
		dLat := (radiusM * math.Sin(theta)) / 111000
		dLon := (radiusM * math.Cos(theta)) / (111000 * cosLat)
		ring = append(ring, []float64{lon + dLon, lat + dLat})
	}
	ring = append(ring, ring[0])
	return Geometry{Type: "Polygon", Coordinates: [][][]float64{ring}}
}
