package usecase

import (
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/meshcompare/backend/internal/domain"
)

// NormalizeResult is the canonical output of one normalization run
type NormalizeResult struct {
	Kind    domain.CandidateKind      `json:"kind"`
	Records []domain.NormalizedRecord `json:"records"`
	Skipped int                       `json:"skipped"`
}

// rawPrice is one price entry before category resolution
type rawPrice struct {
	label string
	price float64
}

// Normalize converts every candidate of an extraction result into the
// canonical record shape. Records carrying neither a code nor a name are
// dropped and counted; they never abort the batch.
func Normalize(result *domain.ExtractionResult) NormalizeResult {
	out := NormalizeResult{Records: []domain.NormalizedRecord{}}
	if result == nil {
		return out
	}
	out.Kind = result.Kind

	add := func(rec domain.NormalizedRecord) {
		if rec.Code == "" && rec.Name == "" {
			out.Skipped++
			return
		}
		out.Records = append(out.Records, rec)
	}

	switch result.Kind {
	case domain.KindSingle:
		if result.Single != nil {
			add(normalizeSingle(*result.Single))
		}
	case domain.KindBatch:
		for _, p := range result.Batch {
			add(normalizeBatch(p))
		}
	case domain.KindConsolidated:
		for _, p := range result.Consolidated {
			add(normalizeConsolidated(p))
		}
	case domain.KindPriceUpdate:
		for _, p := range result.PriceUpdates {
			add(normalizePriceUpdate(p))
		}
	}

	if out.Skipped > 0 {
		log.Debug().
			Str("kind", string(result.Kind)).
			Int("records", len(out.Records)).
			Int("skipped", out.Skipped).
			Msg("normalization skipped records without code and name")
	}
	return out
}

func normalizeSingle(p domain.SingleProduct) domain.NormalizedRecord {
	prices := make([]rawPrice, 0, len(p.PriceTable))
	for _, item := range p.PriceTable {
		prices = append(prices, rawPrice{label: item.Category, price: item.Price.Float()})
	}
	return domain.NormalizedRecord{
		Supplier:    strings.TrimSpace(p.Supplier),
		Code:        strings.TrimSpace(p.Code),
		Name:        strings.TrimSpace(p.Name),
		Composition: strings.TrimSpace(p.Composition),
		Width:       coerce(p.TechnicalSpecs.WidthM.Float()),
		Grammage:    coerce(p.TechnicalSpecs.GrammageGSM.Float()),
		Yield:       coerce(p.TechnicalSpecs.YieldMKg.Float()),
		PriceList:   reducePriceList(prices),
	}
}

func normalizeBatch(p domain.BatchProduct) domain.NormalizedRecord {
	prices := make([]rawPrice, 0, len(p.PriceList))
	for _, item := range p.PriceList {
		label := item.CategoryNormalized
		if strings.TrimSpace(label) == "" {
			label = item.OriginalCategoryName
		}
		prices = append(prices, rawPrice{label: label, price: item.PriceCashKg.Float()})
	}
	return domain.NormalizedRecord{
		Supplier:    strings.TrimSpace(p.SupplierName),
		Code:        strings.TrimSpace(p.ProductCode),
		Name:        strings.TrimSpace(p.ProductName),
		Composition: strings.TrimSpace(p.Composition),
		Width:       coerce(p.Specs.WidthM.Float()),
		Grammage:    coerce(p.Specs.GrammageGSM.Float()),
		Yield:       coerce(p.Specs.YieldMKg.Float()),
		PriceList:   reducePriceList(prices),
	}
}

func normalizeConsolidated(p domain.ConsolidatedProduct) domain.NormalizedRecord {
	prices := make([]rawPrice, 0, len(p.PriceList))
	for _, item := range p.PriceList {
		label := item.Category
		if strings.TrimSpace(label) == "" {
			label = item.OriginalLabel
		}
		prices = append(prices, rawPrice{label: label, price: item.PriceCash.Float()})
	}
	return domain.NormalizedRecord{
		Supplier:    strings.TrimSpace(p.Supplier),
		Code:        strings.TrimSpace(p.Code),
		Name:        strings.TrimSpace(p.Name),
		Composition: strings.TrimSpace(p.Specs.Composition),
		Width:       coerce(p.Specs.WidthM.Float()),
		Grammage:    coerce(p.Specs.GrammageGSM.Float()),
		Yield:       coerce(p.Specs.YieldMKg.Float()),
		Complement:  p.IsComplement,
		PriceList:   reducePriceList(prices),
	}
}

func normalizePriceUpdate(p domain.PriceUpdateData) domain.NormalizedRecord {
	prices := make([]rawPrice, 0, len(p.PriceList))
	for _, item := range p.PriceList {
		prices = append(prices, rawPrice{label: item.CategoryNormalized, price: item.PriceCashKg.Float()})
	}
	return domain.NormalizedRecord{
		Supplier:  strings.TrimSpace(p.SupplierName),
		Code:      strings.TrimSpace(p.ProductCode),
		Name:      strings.TrimSpace(p.ProductName),
		PriceOnly: true,
		PriceList: reducePriceList(prices),
	}
}

// reducePriceList resolves categories and keeps one entry per category.
// A later entry overwrites the price of an earlier one but the category keeps
// the position where it first appeared. Entries without a label are dropped.
func reducePriceList(prices []rawPrice) []domain.PriceEntry {
	out := make([]domain.PriceEntry, 0, len(prices))
	position := make(map[string]int, len(prices))

	for _, p := range prices {
		category := domain.ResolveCategory(p.label)
		if category == "" {
			continue
		}
		price := roundPrice(coerce(p.price))
		if idx, ok := position[category]; ok {
			out[idx].PriceCash = price
			continue
		}
		position[category] = len(out)
		out = append(out, domain.PriceEntry{Category: category, PriceCash: price})
	}
	return out
}

// coerce maps NaN, ±Inf and negative values to 0
func coerce(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// roundPrice rounds a price to cents
func roundPrice(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
