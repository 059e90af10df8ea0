package pricing

import (
	"errors"
	"math"

	"tripflow/internal/domain"
)

var (
	// ErrInvalidQuoteInput is returned for degenerate distance input.
	ErrInvalidQuoteInput = errors.New("invalid quote input")

	// ErrUnknownCategory is returned when no rate exists for the category.
	ErrUnknownCategory = errors.New("unknown pricing category")
)

// Estimator computes fare quotes from a tariff table.
type Estimator struct {
	table Table
}

// NewEstimator creates an Estimator over the given table.
func NewEstimator(table Table) *Estimator {
	return &Estimator{table: table}
}

// Quote returns the fare in minor currency units for the given distance and
// category: baseFare + distanceKm * perKmRate, rounded half up. It never
// substitutes a fare: degenerate input fails with ErrInvalidQuoteInput and
// an unpriced category with ErrUnknownCategory.
func (e *Estimator) Quote(distanceKm float64, cat domain.Category) (int64, error) {
	if distanceKm <= 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return 0, ErrInvalidQuoteInput
	}

	rate, ok := e.table[cat]
	if !ok {
		return 0, ErrUnknownCategory
	}

	return rate.BaseFare + roundHalfUp(distanceKm*float64(rate.PerKm)), nil
}

// roundHalfUp rounds to the nearest integer, ties away from zero upward.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
