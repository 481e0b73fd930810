package usecase

import (
	"math"
	"testing"

	"github.com/meshcompare/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Batch(t *testing.T) {
	result := &domain.ExtractionResult{Kind: domain.KindBatch, Batch: []domain.BatchProduct{
		{
			SupplierName: " Urbano Têxtil ", ProductCode: " 66 ", ProductName: "Moletom",
			Specs: domain.BatchSpecs{WidthM: 1.8, GrammageGSM: 300, YieldMKg: domain.Number(math.NaN())},
			PriceList: []domain.BatchPriceItem{
				{CategoryNormalized: "ESCURAS", PriceCashKg: 49.9},
				{OriginalCategoryName: "Cores Claras", PriceCashKg: 46.904},
				{CategoryNormalized: "Fortes", PriceCashKg: 51},
				{CategoryNormalized: "Lavado Especial Stone", PriceCashKg: 60},
			},
		},
		{ProductName: "", ProductCode: ""},
	}}

	out := Normalize(result)

	assert.Equal(t, domain.KindBatch, out.Kind)
	assert.Equal(t, 1, out.Skipped)
	require.Len(t, out.Records, 1)

	rec := out.Records[0]
	assert.Equal(t, "Urbano Têxtil", rec.Supplier)
	assert.Equal(t, "66", rec.Code)
	assert.InDelta(t, 1.8, rec.Width, 1e-9)
	assert.Equal(t, 0.0, rec.Yield, "NaN coerces to 0")
	assert.False(t, rec.PriceOnly)

	// EscurasFortes appears twice: the later price wins, the first position is kept
	assert.Equal(t, []domain.PriceEntry{
		{Category: "EscurasFortes", PriceCash: 51},
		{Category: "Claras", PriceCash: 46.90},
		{Category: "Especiais", PriceCash: 60},
	}, rec.PriceList)
}

func TestNormalize_UnmappedCategoryIsKept(t *testing.T) {
	out := Normalize(&domain.ExtractionResult{Kind: domain.KindConsolidated, Consolidated: []domain.ConsolidatedProduct{
		{
			Code: "PV-200", IsComplement: true,
			Specs: domain.ConsolidatedSpecs{Composition: " 67% PES 33% CV "},
			PriceList: []domain.ConsolidatedPriceItem{
				{OriginalLabel: "Estampado Digital", PriceCash: 70},
				{Category: "Preto", PriceCash: -3},
			},
		},
	}})

	require.Len(t, out.Records, 1)
	rec := out.Records[0]
	assert.True(t, rec.Complement)
	assert.Equal(t, "67% PES 33% CV", rec.Composition)
	assert.Equal(t, []domain.PriceEntry{
		{Category: "Estampado Digital", PriceCash: 70},
		{Category: "Preto", PriceCash: 0},
	}, rec.PriceList)
}

func TestNormalize_SingleAndPriceUpdate(t *testing.T) {
	single := Normalize(&domain.ExtractionResult{Kind: domain.KindSingle, Single: &domain.SingleProduct{
		Name: "Ribana 1x1", TechnicalSpecs: domain.TechnicalSpecs{WidthM: 1, GrammageGSM: 280, YieldMKg: 3.2},
		PriceTable: []domain.PriceTableItem{{Category: "branco", Price: 55}},
	}})
	require.Len(t, single.Records, 1)
	assert.Equal(t, "", single.Records[0].Code)
	assert.Equal(t, "Branco", single.Records[0].PriceList[0].Category)

	update := Normalize(&domain.ExtractionResult{Kind: domain.KindPriceUpdate, PriceUpdates: []domain.PriceUpdateData{
		{ProductCode: "66", PriceList: []domain.PriceUpdatePriceItem{{CategoryNormalized: "Claras", PriceCashKg: 47.9}}},
	}})
	require.Len(t, update.Records, 1)
	assert.True(t, update.Records[0].PriceOnly)
}

func TestNormalize_Nil(t *testing.T) {
	out := Normalize(nil)
	assert.Empty(t, out.Records)
	assert.NotNil(t, out.Records)
	assert.Equal(t, 0, out.Skipped)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.5, 1.5},
		{0, 0},
		{-2, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}

	for _, tt := range tests {
		if got := coerce(tt.in); got != tt.want {
			t.Errorf("coerce(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
