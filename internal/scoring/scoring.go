// Package scoring computes line-item point values and record totals.
// Every function here is pure; callers re-invoke on each input change.
package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
)

// Round2 rounds to two decimal places, half away from zero, on the
// decimal representation of v (so 1.005 becomes 1.01, never 1.00 via a
// binary-float artifact).
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// ItemScore computes the point value of a single line item:
// (basePoints / fiscalCount) * quantity, rounded to two decimals.
// A quantity <= 0 means "not provided" and defaults to 1.
//
// fiscalCount is a divisor; callers must constrain it to >= 1 before
// invoking. That precondition is the editing layer's responsibility and
// is not re-checked here.
func ItemScore(basePoints float64, fiscalCount int, quantity float64) float64 {
	if quantity <= 0 {
		quantity = 1
	}

	base := decimal.NewFromFloat(basePoints)
	qty := decimal.NewFromFloat(quantity)
	count := decimal.NewFromInt(int64(fiscalCount))

	score, _ := base.Div(count).Mul(qty).Round(2).Float64()
	return score
}

// ItemScoreFor resolves the service first: a nil service scores zero so
// the form can show "0.00" until a service is selected.
func ItemScoreFor(svc *models.Service, fiscalCount int, quantity float64) float64 {
	if svc == nil {
		return 0
	}
	return ItemScore(svc.BasePoints, fiscalCount, quantity)
}

// Total sums the already-rounded computed scores of the items. The sum
// is not re-rounded; each term carries its own two-decimal rounding.
// An empty slice totals zero.
func Total(items []models.LineItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.ComputedScore))
	}
	out, _ := sum.Float64()
	return out
}
