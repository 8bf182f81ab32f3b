package geocoding

import (
	"strings"

	"fleet-tracking-system/models"
)

// Gazetteer resolves a place description by matching known place names
// inside it. It is the offline counterpart of Resolver: the live map uses it
// to extract coordinates from trip location text without a network call per
// render pass. Implementations must be safe for concurrent use.
type Gazetteer interface {
	Lookup(text string) (models.Coordinates, bool)
}

// StaticGazetteer matches place names as case-insensitive substrings of the
// input. When several names match, the longest wins.
type StaticGazetteer map[string]models.Coordinates

func (g StaticGazetteer) Lookup(text string) (models.Coordinates, bool) {
	lower := strings.ToLower(text)
	var (
		best    models.Coordinates
		bestLen int
		found   bool
	)
	for name, coords := range g {
		if strings.Contains(lower, strings.ToLower(name)) && len(name) > bestLen {
			best = coords
			bestLen = len(name)
			found = true
		}
	}
	return best, found
}

// DefaultGazetteer covers the provincial capitals and Luanda-area
// municipalities the fleet operates in.
func DefaultGazetteer() StaticGazetteer {
	return StaticGazetteer{
		"Luanda":   {Lat: -8.8390, Lng: 13.2894},
		"Lobito":   {Lat: -12.3644, Lng: 13.5361},
		"Benguela": {Lat: -12.5763, Lng: 13.4055},
		"Huambo":   {Lat: -12.7761, Lng: 15.7392},
		"Lubango":  {Lat: -14.9172, Lng: 13.4925},
		"Malanje":  {Lat: -9.5402, Lng: 16.3410},
		"Cabinda":  {Lat: -5.5500, Lng: 12.2000},
		"Namibe":   {Lat: -15.1961, Lng: 12.1522},
		"Soyo":     {Lat: -6.1349, Lng: 12.3689},
		"Uíge":     {Lat: -7.6087, Lng: 15.0613},
		"Viana":    {Lat: -8.9035, Lng: 13.3714},
		"Cacuaco":  {Lat: -8.7767, Lng: 13.3664},
		"Talatona": {Lat: -8.9167, Lng: 13.1833},
	}
}
