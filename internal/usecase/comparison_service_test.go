package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/meshcompare/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meshWith(id string, yield, width float64, prices ...float64) domain.Mesh {
	m := domain.Mesh{ID: id, Yield: yield, Width: width}
	for _, p := range prices {
		m.Variations = append(m.Variations, domain.PriceVariation{Name: "Branco", PriceCash: p})
	}
	return m
}

func winners(metrics []domain.MeshMetrics) []string {
	out := []string{}
	for _, m := range metrics {
		if m.IsWinner {
			out = append(out, m.MeshID)
		}
	}
	return out
}

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Criterion
		wantErr bool
	}{
		{"costBenefit", domain.CriterionCostBenefit, false},
		{"pricePerKg", domain.CriterionPricePerKg, false},
		{" yield ", domain.CriterionYield, false},
		{"width", domain.CriterionWidth, false},
		{"cheapest", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCriterion(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrInvalidCriterion))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBasePrice(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   float64
		wantOK bool
	}{
		{"minimum positive price", []float64{52.9, 41.5, 47}, 41.5, true},
		{"zero prices are ignored", []float64{0, 30, 0}, 30, true},
		{"no positive price", []float64{0, 0}, 0, false},
		{"no variations", nil, 0, false},
		{"NaN is ignored", []float64{math.NaN(), 12}, 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BasePrice(meshWith("m", 1, 1, tt.prices...))
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPricePerMeter_ZeroYield(t *testing.T) {
	for _, base := range []float64{0, 0.01, 42.9, 1e9} {
		_, ok := PricePerMeter(base, 0)
		assert.False(t, ok, "base %v", base)
	}

	svc := NewComparisonService(ComparisonConfig{})
	metrics, err := svc.Compare(context.Background(), []domain.Mesh{meshWith("a", 0, 1.8, 40)}, domain.CriterionCostBenefit)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Nil(t, metrics[0].PricePerMeter)
	assert.NotNil(t, metrics[0].BasePrice)
	assert.False(t, metrics[0].IsWinner)
}

func TestCompare(t *testing.T) {
	svc := NewComparisonService(ComparisonConfig{EnableDebugLogging: true})

	tests := []struct {
		name        string
		meshes      []domain.Mesh
		criterion   domain.Criterion
		wantWinners []string
	}{
		{
			name:        "empty input",
			meshes:      nil,
			criterion:   domain.CriterionCostBenefit,
			wantWinners: []string{},
		},
		{
			name:        "single priced mesh always wins",
			meshes:      []domain.Mesh{meshWith("a", 2, 1.6, 40)},
			criterion:   domain.CriterionPricePerKg,
			wantWinners: []string{"a"},
		},
		{
			name: "ties on price per meter flag every winner",
			meshes: []domain.Mesh{
				meshWith("a", 8, 1.6, 40), // 5.00
				meshWith("b", 4, 1.6, 20), // 5.00
				meshWith("c", 5, 1.6, 30), // 6.00
			},
			criterion:   domain.CriterionCostBenefit,
			wantWinners: []string{"a", "b"},
		},
		{
			name: "price per kg lower wins",
			meshes: []domain.Mesh{
				meshWith("a", 2, 1.6, 45),
				meshWith("b", 0, 1.6, 39.9),
			},
			criterion:   domain.CriterionPricePerKg,
			wantWinners: []string{"b"},
		},
		{
			name: "yield higher wins, unknown yield never ranks",
			meshes: []domain.Mesh{
				meshWith("a", 2.1, 1.6, 45),
				meshWith("b", 3.4, 1.6, 50),
				meshWith("c", 0, 1.6, 30),
			},
			criterion:   domain.CriterionYield,
			wantWinners: []string{"b"},
		},
		{
			name: "width higher wins",
			meshes: []domain.Mesh{
				meshWith("a", 2, 1.8, 45),
				meshWith("b", 2, 1.2, 40),
			},
			criterion:   domain.CriterionWidth,
			wantWinners: []string{"a"},
		},
		{
			name: "unpriced meshes never win",
			meshes: []domain.Mesh{
				meshWith("a", 2, 1.8),
				meshWith("b", 2, 1.2, 0),
			},
			criterion:   domain.CriterionWidth,
			wantWinners: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics, err := svc.Compare(context.Background(), tt.meshes, tt.criterion)
			require.NoError(t, err)
			require.Len(t, metrics, len(tt.meshes))
			for i := range tt.meshes {
				assert.Equal(t, tt.meshes[i].ID, metrics[i].MeshID, "input order is kept")
			}
			assert.Equal(t, tt.wantWinners, winners(metrics))
		})
	}
}

func TestCompare_CostBenefitMonotonicity(t *testing.T) {
	svc := NewComparisonService(ComparisonConfig{})

	for _, yield := range []float64{0.5, 2.2, 3.4, 10} {
		cheap := meshWith("cheap", yield, 1.6, 38.5)
		dear := meshWith("dear", yield, 1.6, 41)

		metrics, err := svc.Compare(context.Background(), []domain.Mesh{dear, cheap}, domain.CriterionCostBenefit)
		require.NoError(t, err)

		require.NotNil(t, metrics[0].PricePerMeter)
		require.NotNil(t, metrics[1].PricePerMeter)
		assert.LessOrEqual(t, *metrics[1].PricePerMeter, *metrics[0].PricePerMeter)
		assert.True(t, metrics[1].IsWinner)
		assert.False(t, metrics[0].IsWinner)
	}
}

func TestCompare_Errors(t *testing.T) {
	svc := NewComparisonService(ComparisonConfig{})

	t.Run("invalid criterion", func(t *testing.T) {
		_, err := svc.Compare(context.Background(), []domain.Mesh{meshWith("a", 1, 1, 1)}, "fastest")
		assert.ErrorIs(t, err, domain.ErrInvalidCriterion)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Compare(ctx, []domain.Mesh{meshWith("a", 1, 1, 1)}, domain.CriterionWidth)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
