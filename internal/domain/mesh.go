package domain

// ColorCategory is the closed set of price groups used to key variations
// consistently across suppliers.
type ColorCategory string

const (
	CategoryBranco        ColorCategory = "Branco"
	CategoryClaras        ColorCategory = "Claras"
	CategoryEscurasFortes ColorCategory = "EscurasFortes"
	CategoryMescla        ColorCategory = "Mescla"
	CategoryEspeciais     ColorCategory = "Especiais"
	CategoryNeon          ColorCategory = "Neon"
	CategoryPreto         ColorCategory = "Preto"
)

// ColorCategories lists every ColorCategory in display order
var ColorCategories = []ColorCategory{
	CategoryBranco,
	CategoryClaras,
	CategoryEscurasFortes,
	CategoryMescla,
	CategoryEspeciais,
	CategoryNeon,
	CategoryPreto,
}

// IsKnown reports whether c belongs to the closed enumeration
func (c ColorCategory) IsKnown() bool {
	for _, known := range ColorCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Supplier represents a textile supplier
type Supplier struct {
	ID        string `json:"id"`
	Name      string `json:"name" binding:"required"`
	ShortName string `json:"shortName"`
	Color     string `json:"color"`
	Contact   string `json:"contact,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Mesh represents a fabric product offered by a supplier ("malha")
type Mesh struct {
	ID          string           `json:"id"`
	SupplierID  string           `json:"supplierId" binding:"required"`
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Composition string           `json:"composition"`
	Width       float64          `json:"width"`    // meters
	Grammage    float64          `json:"grammage"` // g/m²
	Yield       float64          `json:"yield"`    // m/kg, 0 means unknown
	Variations  []PriceVariation `json:"variations"`
	Complement  bool             `json:"complement,omitempty"`
	NCM         string           `json:"ncm,omitempty"`
}

// PriceVariation is one priced category of a Mesh
type PriceVariation struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PriceCash     float64 `json:"priceCash"`
	PriceFactored float64 `json:"priceFactored"`
}

// Clone returns a copy of the mesh that shares no slices with the original
func (m Mesh) Clone() Mesh {
	out := m
	if m.Variations != nil {
		out.Variations = make([]PriceVariation, len(m.Variations))
		copy(out.Variations, m.Variations)
	}
	return out
}
