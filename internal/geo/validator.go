// Package geo holds the pure geometric predicates used to sanity-check
// user-entered coordinates before they reach the solver.
package geo

import (
	"fmt"
	"math"
	"strconv"
)

// Result is the outcome of validating one coordinate pair.
// Error is empty when Valid is true.
type Result struct {
	Valid bool
	Error string
}

// Validator checks coordinates against range rules and a land classifier.
type Validator struct {
	Land LandClassifier
}

func NewValidator(land LandClassifier) Validator {
	if land == nil {
		land = DefaultLandMask
	}
	return Validator{Land: land}
}

var defaultValidator = NewValidator(DefaultLandMask)

// ValidateCoordinate validates with the default land mask.
func ValidateCoordinate(lat, lng float64) Result {
	return defaultValidator.ValidateCoordinate(lat, lng)
}

// ValidateCoordinate runs, in order: finiteness, latitude range, longitude
// range, the (0,0) check and the land heuristic. The first failure wins.
func (v Validator) ValidateCoordinate(lat, lng float64) Result {
	if !finite(lat) || !finite(lng) {
		return Result{Error: "Coordinates must be valid numbers"}
	}

	if lat < -90 || lat > 90 {
		return Result{Error: fmt.Sprintf("Latitude %s is out of range (-90 to 90)", formatNumber(lat))}
	}

	if lng < -180 || lng > 180 {
		return Result{Error: fmt.Sprintf("Longitude %s is out of range (-180 to 180)", formatNumber(lng))}
	}

	if lat == 0 && lng == 0 {
		return Result{Error: "Coordinates (0,0) are in the ocean off Africa"}
	}

	land := v.Land
	if land == nil {
		land = DefaultLandMask
	}
	if !land.IsLikelyOnLand(lat, lng) {
		return Result{Error: fmt.Sprintf("Coordinates (%.4f, %.4f) appear to be in the ocean or inaccessible area", lat, lng)}
	}

	return Result{Valid: true}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// formatNumber prints the shortest decimal form, without exponent.
func formatNumber(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
