package extractor

import (
	"context"

	"github.com/meshcompare/backend/internal/domain"
)

// FallbackExtractor answers extraction requests with a fixed sample dataset
// when no AI provider is configured. The output is deterministic.
type FallbackExtractor struct{}

// NewFallbackExtractor creates a new fallback producer
func NewFallbackExtractor() *FallbackExtractor {
	return &FallbackExtractor{}
}

// Extract returns the sample dataset for req.Kind
func (f *FallbackExtractor) Extract(ctx context.Context, req domain.ExtractionRequest) (*domain.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch req.Kind {
	case domain.KindSingle:
		return &domain.ExtractionResult{Kind: domain.KindSingle, Single: &domain.SingleProduct{
			Supplier: "Urbano Têxtil",
			Name:     "Meia Malha Penteada 30.1",
			Code:     "66",
			TechnicalSpecs: domain.TechnicalSpecs{
				WidthM: 1.80, GrammageGSM: 160, YieldMKg: 3.40, ShrinkagePct: 5, TorquePct: 3,
			},
			Composition: "100% Algodão",
			Features:    []string{"Fio penteado", "Toque macio"},
			PriceTable: []domain.PriceTableItem{
				{Category: "Branco", Price: 42.90},
				{Category: "Claras", Price: 46.90},
				{Category: "Escuras/Fortes", Price: 49.90},
				{Category: "Preto", Price: 47.90},
			},
		}}, nil

	case domain.KindBatch:
		return &domain.ExtractionResult{Kind: domain.KindBatch, Batch: []domain.BatchProduct{
			{
				SupplierName: "Urbano Têxtil", ProductCode: "66", ProductName: "Meia Malha Penteada 30.1",
				Composition: "100% Algodão",
				Specs:       domain.BatchSpecs{WidthM: 1.80, GrammageGSM: 160, YieldMKg: 3.40},
				PriceList: []domain.BatchPriceItem{
					{CategoryNormalized: "Branco", OriginalCategoryName: "BRANCO", PriceCashKg: 42.90},
					{CategoryNormalized: "Claras", OriginalCategoryName: "CORES CLARAS", PriceCashKg: 46.90},
					{CategoryNormalized: "EscurasFortes", OriginalCategoryName: "ESCURAS/FORTES", PriceCashKg: 49.90},
				},
			},
			{
				SupplierName: "Urbano Têxtil", ProductCode: "99", ProductName: "Moletom Flanelado PA",
				Composition: "50% Algodão 50% Poliéster",
				Specs:       domain.BatchSpecs{WidthM: 1.20, GrammageGSM: 300, YieldMKg: 2.20},
				PriceList: []domain.BatchPriceItem{
					{CategoryNormalized: "Mescla", OriginalCategoryName: "MESCLA", PriceCashKg: 39.50},
					{CategoryNormalized: "Preto", OriginalCategoryName: "PRETO", PriceCashKg: 41.50},
				},
			},
		}}, nil

	case domain.KindConsolidated:
		return &domain.ExtractionResult{Kind: domain.KindConsolidated, Consolidated: []domain.ConsolidatedProduct{
			{
				Supplier: "Malharia Serra", Code: "PV-200", Name: "Malha PV Lisa",
				Specs: domain.ConsolidatedSpecs{WidthM: 1.70, GrammageGSM: 170, YieldMKg: 3.10, Composition: "67% Poliéster 33% Viscose"},
				PriceList: []domain.ConsolidatedPriceItem{
					{Category: "Branco", OriginalLabel: "Branco", PriceCash: 31.90},
					{Category: "Claras", OriginalLabel: "Claras", PriceCash: 33.90},
					{Category: "Neon", OriginalLabel: "Fluor", PriceCash: 38.90},
				},
			},
			{
				Supplier: "Malharia Serra", Code: "RB-10", Name: "Ribana 1x1", IsComplement: true,
				Specs: domain.ConsolidatedSpecs{WidthM: 1.00, GrammageGSM: 280, YieldMKg: 0, Composition: "96% Algodão 4% Elastano"},
				PriceList: []domain.ConsolidatedPriceItem{
					{Category: "Branco", OriginalLabel: "Branco", PriceCash: 55.00},
				},
			},
		}}, nil

	case domain.KindPriceUpdate:
		return &domain.ExtractionResult{Kind: domain.KindPriceUpdate, PriceUpdates: []domain.PriceUpdateData{
			{
				SupplierName: "Urbano Têxtil", ProductCode: "66", ProductName: "Meia Malha Penteada 30.1",
				PriceList: []domain.PriceUpdatePriceItem{
					{CategoryNormalized: "Claras", PriceCashKg: 47.90},
				},
			},
		}}, nil
	}

	return nil, domain.ErrInvalidRequest
}
