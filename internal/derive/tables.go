package derive

import "github.com/aikapulse/aikapulse/internal/snapshot"

// burnTimes is the unprotected exposure budget in minutes at UV index 1,
// by Fitzpatrick skin type. The budget scales inversely with the current
// UV index.
var burnTimes = map[int]int{
	1: 15, // very fair
	2: 20, // fair
	3: 30, // medium
	4: 45, // olive
	5: 60, // brown
	6: 90, // dark
}

// DefaultSkinType is used when the caller does not configure one.
const DefaultSkinType = 3

// uvCategory bands the UV index per WHO guidance.
func uvCategory(uv float64) snapshot.UVCategory {
	switch {
	case uv >= 11:
		return snapshot.UVExtreme
	case uv >= 8:
		return snapshot.UVVeryHigh
	case uv >= 6:
		return snapshot.UVHigh
	case uv >= 3:
		return snapshot.UVModerate
	default:
		return snapshot.UVLow
	}
}

// dispersionFactor maps wind speed to a pollutant accumulation multiplier.
// Calm air lets pollutants build up; strong wind disperses them.
func dispersionFactor(windSpeed float64) float64 {
	switch {
	case windSpeed < 1:
		return 1.3
	case windSpeed < 3:
		return 1.1
	case windSpeed < 8:
		return 0.9
	default:
		return 0.7
	}
}
