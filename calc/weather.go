package calc

import "strings"

// Weather reports canned conditions for a location.
func Weather(location string) string {
	switch strings.ToLower(location) {
	case "sf", "san francisco":
		return "It's 60 degrees and foggy."
	default:
		return "It's 90 degrees and sunny."
	}
}

// CoolestCities lists the coolest cities.
func CoolestCities() string {
	return "nyc, sf"
}
