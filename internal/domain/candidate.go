package domain

// CandidateKind tags which producer variant an ExtractionResult carries
type CandidateKind string

const (
	KindSingle       CandidateKind = "single"
	KindBatch        CandidateKind = "batch"
	KindConsolidated CandidateKind = "consolidated"
	KindPriceUpdate  CandidateKind = "price_update"
)

// Valid reports whether k is one of the known variants
func (k CandidateKind) Valid() bool {
	switch k {
	case KindSingle, KindBatch, KindConsolidated, KindPriceUpdate:
		return true
	}
	return false
}

// ExtractionResult is the tagged union returned by an extraction producer.
// Exactly one payload field is populated, matching Kind.
type ExtractionResult struct {
	Kind         CandidateKind         `json:"kind"`
	Single       *SingleProduct        `json:"single,omitempty"`
	Batch        []BatchProduct        `json:"batch,omitempty"`
	Consolidated []ConsolidatedProduct `json:"consolidated,omitempty"`
	PriceUpdates []PriceUpdateData     `json:"priceUpdates,omitempty"`
}

// Len returns the number of candidate records carried by the result
func (r *ExtractionResult) Len() int {
	if r == nil {
		return 0
	}
	switch r.Kind {
	case KindSingle:
		if r.Single != nil {
			return 1
		}
		return 0
	case KindBatch:
		return len(r.Batch)
	case KindConsolidated:
		return len(r.Consolidated)
	case KindPriceUpdate:
		return len(r.PriceUpdates)
	}
	return 0
}

// SingleProduct is a technical sheet extracted for one product
type SingleProduct struct {
	Supplier       string           `json:"supplier"`
	Name           string           `json:"name"`
	Code           string           `json:"code"`
	TechnicalSpecs TechnicalSpecs   `json:"technical_specs"`
	Composition    string           `json:"composition"`
	Features       []string         `json:"features"`
	PriceTable     []PriceTableItem `json:"price_table" validate:"dive"`
}

// TechnicalSpecs holds the physical attributes of a single product sheet
type TechnicalSpecs struct {
	WidthM       Number `json:"width_m" validate:"gte=0"`
	GrammageGSM  Number `json:"grammage_gsm" validate:"gte=0"`
	YieldMKg     Number `json:"yield_m_kg" validate:"gte=0"`
	ShrinkagePct Number `json:"shrinkage_pct"`
	TorquePct    Number `json:"torque_pct"`
}

// PriceTableItem is one row of a single product price table
type PriceTableItem struct {
	Category string `json:"category" validate:"required"`
	Price    Number `json:"price" validate:"gte=0"`
}

// BatchProduct is one product of a batch (catalog) extraction
type BatchProduct struct {
	SupplierName string           `json:"supplier_name"`
	ProductCode  string           `json:"product_code"`
	ProductName  string           `json:"product_name"`
	Composition  string           `json:"composition"`
	Specs        BatchSpecs       `json:"specs"`
	PriceList    []BatchPriceItem `json:"price_list" validate:"dive"`
}

// BatchSpecs holds the physical attributes of a batch product
type BatchSpecs struct {
	WidthM      Number `json:"width_m" validate:"gte=0"`
	GrammageGSM Number `json:"grammage_gsm" validate:"gte=0"`
	YieldMKg    Number `json:"yield_m_kg,omitempty" validate:"gte=0"`
}

// BatchPriceItem is one price of a batch product
type BatchPriceItem struct {
	CategoryNormalized   string `json:"category_normalized" validate:"required_without=OriginalCategoryName"`
	OriginalCategoryName string `json:"original_category_name"`
	PriceCashKg          Number `json:"price_cash_kg" validate:"gte=0"`
}

// ConsolidatedProduct is one product of a consolidated supplier price list
type ConsolidatedProduct struct {
	Supplier     string                  `json:"supplier"`
	Code         string                  `json:"code"`
	Name         string                  `json:"name"`
	IsComplement bool                    `json:"is_complement"`
	Specs        ConsolidatedSpecs       `json:"specs"`
	PriceList    []ConsolidatedPriceItem `json:"price_list" validate:"dive"`
}

// ConsolidatedSpecs holds the physical attributes of a consolidated product
type ConsolidatedSpecs struct {
	WidthM      Number `json:"width_m" validate:"gte=0"`
	GrammageGSM Number `json:"grammage_gsm" validate:"gte=0"`
	YieldMKg    Number `json:"yield_m_kg" validate:"gte=0"`
	Composition string `json:"composition"`
}

// ConsolidatedPriceItem is one price of a consolidated product
type ConsolidatedPriceItem struct {
	Category      string `json:"category" validate:"required_without=OriginalLabel"`
	OriginalLabel string `json:"original_label"`
	PriceCash     Number `json:"price_cash" validate:"gte=0"`
}

// PriceUpdateData carries new prices for an already catalogued product
type PriceUpdateData struct {
	SupplierName string                 `json:"supplier_name"`
	ProductCode  string                 `json:"product_code"`
	ProductName  string                 `json:"product_name"`
	PriceList    []PriceUpdatePriceItem `json:"price_list" validate:"dive"`
}

// PriceUpdatePriceItem is one price of a price update
type PriceUpdatePriceItem struct {
	CategoryNormalized string `json:"category_normalized" validate:"required"`
	PriceCashKg        Number `json:"price_cash_kg" validate:"gte=0"`
}

// NormalizedRecord is the canonical, supplier-id free shape produced by the
// normalization layer and consumed by the import merge coordinator.
type NormalizedRecord struct {
	Supplier    string       `json:"supplier"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Composition string       `json:"composition"`
	Width       float64      `json:"width"`
	Grammage    float64      `json:"grammage"`
	Yield       float64      `json:"yield"`
	Complement  bool         `json:"complement,omitempty"`
	PriceOnly   bool         `json:"priceOnly,omitempty"`
	PriceList   []PriceEntry `json:"priceList"`
}

// PriceEntry is one resolved category price of a NormalizedRecord
type PriceEntry struct {
	Category  string  `json:"category" binding:"required"`
	PriceCash float64 `json:"priceCash"`
}
