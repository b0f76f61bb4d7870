package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
)

func TestItemScore(t *testing.T) {
	tests := []struct {
		name        string
		basePoints  float64
		fiscalCount int
		quantity    float64
		want        float64
	}{
		{name: "base case", basePoints: 10, fiscalCount: 2, quantity: 3, want: 15},
		{name: "single fiscal unit quantity", basePoints: 20, fiscalCount: 2, quantity: 1, want: 10},
		{name: "quantity defaults to one when absent", basePoints: 20, fiscalCount: 2, quantity: 0, want: 10},
		{name: "fractional division rounds to two decimals", basePoints: 10, fiscalCount: 3, quantity: 1, want: 3.33},
		{name: "half rounds away from zero", basePoints: 2.01, fiscalCount: 2, quantity: 1, want: 1.01},
		{name: "zero base points", basePoints: 0, fiscalCount: 4, quantity: 2, want: 0},
		{name: "fractional quantity", basePoints: 7, fiscalCount: 2, quantity: 0.5, want: 1.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemScore(tt.basePoints, tt.fiscalCount, tt.quantity)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestItemScoreDefaultQuantityMatchesExplicitOne(t *testing.T) {
	assert.Equal(t, ItemScore(13.7, 3, 1), ItemScore(13.7, 3, 0))
}

func TestItemScoreForNilService(t *testing.T) {
	assert.Zero(t, ItemScoreFor(nil, 5, 2))
}

func TestItemScoreForResolvedService(t *testing.T) {
	svc := &models.Service{ID: "svc-1", BasePoints: 12}
	assert.InDelta(t, 4.0, ItemScoreFor(svc, 3, 1), 1e-9)
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{1.004, 1.00},
		{2.675, 2.68},
		{-1.005, -1.01},
		{0, 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round2(tt.in), 1e-9, "Round2(%v)", tt.in)
	}
}

func TestTotalSumsRoundedParts(t *testing.T) {
	// Totals add the per-item rounded values; they are never recomputed
	// from unrounded sub-terms.
	items := []models.LineItem{
		{ComputedScore: Round2(1.005)}, // 1.01
		{ComputedScore: Round2(1.004)}, // 1.00
	}
	assert.InDelta(t, 2.01, Total(items), 1e-9)
}

func TestTotalEmpty(t *testing.T) {
	assert.Zero(t, Total(nil))
	assert.Zero(t, Total([]models.LineItem{}))
}

func TestTotalManyItems(t *testing.T) {
	items := make([]models.LineItem, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, models.LineItem{ComputedScore: 0.1})
	}
	assert.InDelta(t, 1.0, Total(items), 1e-9)
}
