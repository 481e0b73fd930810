package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/meshcompare/backend/internal/domain"
)

// winnerTolerance absorbs float noise when comparing ranking values for ties
const winnerTolerance = 1e-9

// ComparisonConfig holds configuration for the comparison service
type ComparisonConfig struct {
	EnableDebugLogging bool
}

// ComparisonService computes cost metrics for a set of meshes and flags the
// winner(s) under a criterion
type ComparisonService struct {
	enableDebugLogging bool
}

// NewComparisonService creates a new comparison service
func NewComparisonService(config ComparisonConfig) *ComparisonService {
	return &ComparisonService{enableDebugLogging: config.EnableDebugLogging}
}

// ParseCriterion converts a request value into a Criterion
func ParseCriterion(s string) (domain.Criterion, error) {
	switch c := domain.Criterion(strings.TrimSpace(s)); c {
	case domain.CriterionCostBenefit, domain.CriterionPricePerKg, domain.CriterionYield, domain.CriterionWidth:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidCriterion, s)
	}
}

// BasePrice returns the lowest positive cash price among the variations of m.
// ok is false when no variation carries a positive price.
func BasePrice(m domain.Mesh) (price float64, ok bool) {
	for _, v := range m.Variations {
		if v.PriceCash <= 0 || math.IsNaN(v.PriceCash) || math.IsInf(v.PriceCash, 0) {
			continue
		}
		if !ok || v.PriceCash < price {
			price = v.PriceCash
			ok = true
		}
	}
	return price, ok
}

// PricePerMeter divides a per-kg base price by the yield in m/kg.
// A yield of 0 is unknown, so the result is absent rather than Inf.
func PricePerMeter(basePrice, yield float64) (float64, bool) {
	if yield <= 0 || math.IsNaN(yield) || math.IsInf(yield, 0) {
		return 0, false
	}
	return basePrice / yield, true
}

// Compare computes metrics for every mesh in input order and flags all meshes
// whose ranking value equals the best one. Meshes without a positive price
// keep blank metrics and never win. An empty input gives an empty output.
func (s *ComparisonService) Compare(
	ctx context.Context,
	meshes []domain.Mesh,
	criterion domain.Criterion,
) ([]domain.MeshMetrics, error) {
	if _, err := ParseCriterion(string(criterion)); err != nil {
		return nil, err
	}

	results := make([]domain.MeshMetrics, len(meshes))
	var best *float64

	for i, m := range meshes {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		results[i].MeshID = m.ID

		base, ok := BasePrice(m)
		if !ok {
			continue
		}
		results[i].BasePrice = floatPtr(base)
		if ppm, ok := PricePerMeter(base, m.Yield); ok {
			results[i].PricePerMeter = floatPtr(ppm)
		}

		value := rankingValue(results[i], m, criterion)
		if value == nil {
			continue
		}
		results[i].RankingValue = value

		if best == nil || better(*value, *best, criterion) {
			best = floatPtr(*value)
		}
	}

	if best == nil {
		if s.enableDebugLogging {
			log.Debug().Str("criterion", string(criterion)).Int("meshes", len(meshes)).Msg("[COMPARE] no rankable mesh")
		}
		return results, nil
	}

	winners := 0
	for i := range results {
		if v := results[i].RankingValue; v != nil && math.Abs(*v-*best) <= winnerTolerance {
			results[i].IsWinner = true
			winners++
		}
	}

	if s.enableDebugLogging {
		log.Debug().
			Str("criterion", string(criterion)).
			Int("meshes", len(meshes)).
			Float64("best", *best).
			Int("winners", winners).
			Msg("[COMPARE] ranking done")
	}

	return results, nil
}

// rankingValue picks the metric the criterion ranks on; nil means not rankable
func rankingValue(metrics domain.MeshMetrics, m domain.Mesh, criterion domain.Criterion) *float64 {
	switch criterion {
	case domain.CriterionCostBenefit:
		if metrics.PricePerMeter == nil {
			return nil
		}
		return floatPtr(*metrics.PricePerMeter)
	case domain.CriterionPricePerKg:
		return floatPtr(*metrics.BasePrice)
	case domain.CriterionYield:
		if m.Yield <= 0 {
			return nil
		}
		return floatPtr(m.Yield)
	case domain.CriterionWidth:
		if m.Width < 0 || math.IsNaN(m.Width) {
			return nil
		}
		return floatPtr(m.Width)
	}
	return nil
}

// better reports whether candidate strictly beats current under criterion
func better(candidate, current float64, criterion domain.Criterion) bool {
	if criterion.LowerWins() {
		return candidate < current-winnerTolerance
	}
	return candidate > current+winnerTolerance
}

func floatPtr(f float64) *float64 {
	return &f
}
