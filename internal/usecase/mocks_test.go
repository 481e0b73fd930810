package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/meshcompare/backend/internal/domain"
)

// MockCatalogRepository is a minimal in-memory catalog for tests
type MockCatalogRepository struct {
	suppliers []domain.Supplier
	meshes    []domain.Mesh
	seq       int
	updateErr error
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{}
}

func (m *MockCatalogRepository) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *MockCatalogRepository) AddSupplier(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	if s.ID == "" {
		s.ID = m.nextID("sup")
	}
	m.suppliers = append(m.suppliers, s)
	return s, nil
}

func (m *MockCatalogRepository) UpdateSupplier(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	for i := range m.suppliers {
		if m.suppliers[i].ID == s.ID {
			m.suppliers[i] = s
			return s, nil
		}
	}
	return domain.Supplier{}, domain.ErrSupplierNotFound
}

func (m *MockCatalogRepository) DeleteSupplier(ctx context.Context, id string) error {
	for i := range m.suppliers {
		if m.suppliers[i].ID == id {
			m.suppliers = append(m.suppliers[:i], m.suppliers[i+1:]...)
			return nil
		}
	}
	return domain.ErrSupplierNotFound
}

func (m *MockCatalogRepository) GetSupplier(ctx context.Context, id string) (domain.Supplier, error) {
	for _, s := range m.suppliers {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Supplier{}, domain.ErrSupplierNotFound
}

func (m *MockCatalogRepository) FindSupplierByName(ctx context.Context, name string) (domain.Supplier, bool) {
	for _, s := range m.suppliers {
		if domain.FoldText(s.Name) == domain.FoldText(name) {
			return s, true
		}
	}
	return domain.Supplier{}, false
}

func (m *MockCatalogRepository) ListSuppliers(ctx context.Context) []domain.Supplier {
	return append([]domain.Supplier{}, m.suppliers...)
}

func (m *MockCatalogRepository) AddMesh(ctx context.Context, mesh domain.Mesh) (domain.Mesh, error) {
	if _, ok := m.FindMeshByCode(ctx, mesh.SupplierID, mesh.Code); ok {
		return domain.Mesh{}, domain.ErrDuplicateCode
	}
	if mesh.ID == "" {
		mesh.ID = m.nextID("mesh")
	}
	m.meshes = append(m.meshes, mesh.Clone())
	return mesh, nil
}

func (m *MockCatalogRepository) UpdateMesh(ctx context.Context, mesh domain.Mesh) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	for i := range m.meshes {
		if m.meshes[i].ID == mesh.ID {
			m.meshes[i] = mesh.Clone()
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCatalogRepository) DeleteMesh(ctx context.Context, id string) bool {
	for i := range m.meshes {
		if m.meshes[i].ID == id {
			m.meshes = append(m.meshes[:i], m.meshes[i+1:]...)
			return true
		}
	}
	return false
}

func (m *MockCatalogRepository) GetMesh(ctx context.Context, id string) (domain.Mesh, error) {
	for _, mesh := range m.meshes {
		if mesh.ID == id {
			return mesh.Clone(), nil
		}
	}
	return domain.Mesh{}, domain.ErrMeshNotFound
}

func (m *MockCatalogRepository) FindMeshByCode(ctx context.Context, supplierID, code string) (domain.Mesh, bool) {
	for _, mesh := range m.meshes {
		if mesh.SupplierID == supplierID && strings.EqualFold(mesh.Code, code) {
			return mesh.Clone(), true
		}
	}
	return domain.Mesh{}, false
}

func (m *MockCatalogRepository) ListMeshes(ctx context.Context) []domain.Mesh {
	return append([]domain.Mesh{}, m.meshes...)
}

func (m *MockCatalogRepository) ListMeshesBySupplier(ctx context.Context, supplierID string) []domain.Mesh {
	var out []domain.Mesh
	for _, mesh := range m.meshes {
		if mesh.SupplierID == supplierID {
			out = append(out, mesh)
		}
	}
	return out
}

// MockExtractor is a scripted extraction producer
type MockExtractor struct {
	mu     sync.Mutex
	result *domain.ExtractionResult
	err    error
	delay  time.Duration
	calls  int
	// started, when set, is signalled as soon as Extract is entered
	started chan struct{}
	// release, when set, blocks Extract until it is closed
	release chan struct{}
}

func (m *MockExtractor) Extract(ctx context.Context, req domain.ExtractionRequest) (*domain.ExtractionResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.result, m.err
}

func (m *MockExtractor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockSheetExtractor claims files with the given extension
type MockSheetExtractor struct {
	MockExtractor
	ext string
}

func (m *MockSheetExtractor) Supports(fileName string) bool {
	return strings.HasSuffix(strings.ToLower(fileName), m.ext)
}
