package domain

import "context"

// CatalogRepository defines the operations of the catalog store
type CatalogRepository interface {
	AddSupplier(ctx context.Context, s Supplier) (Supplier, error)
	UpdateSupplier(ctx context.Context, s Supplier) (Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
	GetSupplier(ctx context.Context, id string) (Supplier, error)
	FindSupplierByName(ctx context.Context, name string) (Supplier, bool)
	ListSuppliers(ctx context.Context) []Supplier

	AddMesh(ctx context.Context, m Mesh) (Mesh, error)
	UpdateMesh(ctx context.Context, m Mesh) (bool, error)
	DeleteMesh(ctx context.Context, id string) bool
	GetMesh(ctx context.Context, id string) (Mesh, error)
	FindMeshByCode(ctx context.Context, supplierID, code string) (Mesh, bool)
	ListMeshes(ctx context.Context) []Mesh
	ListMeshesBySupplier(ctx context.Context, supplierID string) []Mesh
}

// ExtractionRequest describes one file sent to an extraction producer.
// ClientID scopes the stale-response guard to one caller.
type ExtractionRequest struct {
	Kind     CandidateKind
	FileName string
	MIMEType string
	Data     []byte
	ClientID string
}

// Extractor is an external producer of candidate records
type Extractor interface {
	Extract(ctx context.Context, req ExtractionRequest) (*ExtractionResult, error)
}

// SheetExtractor is a local producer that reads spreadsheet price lists
type SheetExtractor interface {
	Extractor
	Supports(fileName string) bool
}
