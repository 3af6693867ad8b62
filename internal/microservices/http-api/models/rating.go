package models

import "math"

// RoundRating rounds a mean score to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
