package domain

// Criterion is the user selected ranking basis for a comparison
type Criterion string

const (
	CriterionCostBenefit Criterion = "costBenefit"
	CriterionPricePerKg  Criterion = "pricePerKg"
	CriterionYield       Criterion = "yield"
	CriterionWidth       Criterion = "width"
)

// LowerWins reports whether the smallest ranking value is the best one
func (c Criterion) LowerWins() bool {
	return c == CriterionCostBenefit || c == CriterionPricePerKg
}

// MeshMetrics holds the derived comparison values of one mesh.
// Absent values are nil, never Inf or NaN.
type MeshMetrics struct {
	MeshID        string   `json:"meshId"`
	BasePrice     *float64 `json:"basePrice"`
	PricePerMeter *float64 `json:"pricePerMeter"`
	RankingValue  *float64 `json:"rankingValue"`
	IsWinner      bool     `json:"isWinner"`
}

// CompareRequest represents a comparison request from the UI
type CompareRequest struct {
	MeshIDs   []string  `json:"meshIds"`
	Criterion Criterion `json:"criterion" binding:"required"`
}

// MeshGroup is a catalog family with its meshes in input order
type MeshGroup struct {
	Family string `json:"family"`
	Meshes []Mesh `json:"meshes"`
}
