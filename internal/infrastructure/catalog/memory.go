package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/meshcompare/backend/internal/domain"
)

// OrphanPolicy decides what happens to meshes when their supplier is deleted
type OrphanPolicy string

const (
	// OrphanRetain keeps the meshes; they stay addressable but their supplier is unknown
	OrphanRetain OrphanPolicy = "retain"
	// OrphanCascade deletes the supplier's meshes with it
	OrphanCascade OrphanPolicy = "cascade"
	// OrphanBlock refuses to delete a supplier that still owns meshes
	OrphanBlock OrphanPolicy = "block"
)

// ParseOrphanPolicy converts a configuration value into an OrphanPolicy
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch p := OrphanPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case OrphanRetain, OrphanCascade, OrphanBlock:
		return p, nil
	case "":
		return OrphanRetain, nil
	default:
		return "", fmt.Errorf("unknown orphan policy %q", s)
	}
}

// Palette is the fixed sequence of supplier display colors
var Palette = []string{
	"#2563EB", // blue
	"#DC2626", // red
	"#16A34A", // green
	"#D97706", // amber
	"#7C3AED", // violet
	"#DB2777", // pink
	"#0891B2", // cyan
	"#4B5563", // gray
}

const maxShortNameLen = 10

// MemoryStore is the in-memory catalog of suppliers and meshes.
// Every mutation holds the write lock, so there is a single writer at a time.
type MemoryStore struct {
	mutex        sync.RWMutex
	suppliers    []domain.Supplier
	meshes       []domain.Mesh
	colorSeq     int
	orphanPolicy OrphanPolicy
}

// NewMemoryStore creates an empty catalog
func NewMemoryStore(policy OrphanPolicy) *MemoryStore {
	if policy == "" {
		policy = OrphanRetain
	}
	return &MemoryStore{
		suppliers:    []domain.Supplier{},
		meshes:       []domain.Mesh{},
		orphanPolicy: policy,
	}
}

// DefaultShortName derives the short label of a supplier: the first word of
// name, uppercased and cut to 10 characters.
func DefaultShortName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return normalizeShortName(fields[0])
}

func normalizeShortName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if utf8.RuneCountInString(s) > maxShortNameLen {
		s = string([]rune(s)[:maxShortNameLen])
	}
	return s
}

// AddSupplier stores a new supplier, defaulting its short name and assigning
// the next palette color. The color counter never goes back, so a color freed
// by a deletion is not handed out again until the palette wraps.
func (s *MemoryStore) AddSupplier(ctx context.Context, sup domain.Supplier) (domain.Supplier, error) {
	sup.Name = strings.TrimSpace(sup.Name)
	if sup.Name == "" {
		return domain.Supplier{}, fmt.Errorf("%w: supplier name is required", domain.ErrInvalidRequest)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if sup.ID == "" {
		sup.ID = uuid.NewString()
	} else if s.supplierIndex(sup.ID) >= 0 {
		return domain.Supplier{}, fmt.Errorf("%w: supplier id %s already exists", domain.ErrInvalidRequest, sup.ID)
	}

	if strings.TrimSpace(sup.ShortName) == "" {
		sup.ShortName = DefaultShortName(sup.Name)
	} else {
		sup.ShortName = normalizeShortName(sup.ShortName)
	}

	sup.Color = Palette[s.colorSeq%len(Palette)]
	s.colorSeq++

	s.suppliers = append(s.suppliers, sup)
	return sup, nil
}

// UpdateSupplier replaces the supplier with the same id. The id and the
// assigned color are kept.
func (s *MemoryStore) UpdateSupplier(ctx context.Context, sup domain.Supplier) (domain.Supplier, error) {
	sup.Name = strings.TrimSpace(sup.Name)
	if sup.Name == "" {
		return domain.Supplier{}, fmt.Errorf("%w: supplier name is required", domain.ErrInvalidRequest)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	idx := s.supplierIndex(sup.ID)
	if idx < 0 {
		return domain.Supplier{}, domain.ErrSupplierNotFound
	}

	if strings.TrimSpace(sup.ShortName) == "" {
		sup.ShortName = DefaultShortName(sup.Name)
	} else {
		sup.ShortName = normalizeShortName(sup.ShortName)
	}
	sup.Color = s.suppliers[idx].Color

	s.suppliers[idx] = sup
	return sup, nil
}

// DeleteSupplier removes a supplier, applying the store's orphan policy to its meshes
func (s *MemoryStore) DeleteSupplier(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	idx := s.supplierIndex(id)
	if idx < 0 {
		return domain.ErrSupplierNotFound
	}

	switch s.orphanPolicy {
	case OrphanBlock:
		for _, m := range s.meshes {
			if m.SupplierID == id {
				return domain.ErrSupplierInUse
			}
		}
	case OrphanCascade:
		kept := s.meshes[:0]
		for _, m := range s.meshes {
			if m.SupplierID != id {
				kept = append(kept, m)
			}
		}
		s.meshes = kept
	}

	s.suppliers = append(s.suppliers[:idx], s.suppliers[idx+1:]...)
	return nil
}

// GetSupplier returns the supplier with the given id
func (s *MemoryStore) GetSupplier(ctx context.Context, id string) (domain.Supplier, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	idx := s.supplierIndex(id)
	if idx < 0 {
		return domain.Supplier{}, domain.ErrSupplierNotFound
	}
	return s.suppliers[idx], nil
}

// FindSupplierByName looks a supplier up by name, ignoring case and accents.
// Short names are matched too, since extracted documents often use them.
func (s *MemoryStore) FindSupplierByName(ctx context.Context, name string) (domain.Supplier, bool) {
	key := domain.FoldText(name)
	if key == "" {
		return domain.Supplier{}, false
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, sup := range s.suppliers {
		if domain.FoldText(sup.Name) == key {
			return sup, true
		}
	}
	for _, sup := range s.suppliers {
		if domain.FoldText(sup.ShortName) == key {
			return sup, true
		}
	}
	return domain.Supplier{}, false
}

// ListSuppliers returns all suppliers in insertion order
func (s *MemoryStore) ListSuppliers(ctx context.Context) []domain.Supplier {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]domain.Supplier, len(s.suppliers))
	copy(out, s.suppliers)
	return out
}

// AddMesh stores a new mesh. The supplier must exist and the code, when
// present, must be unique for that supplier.
func (s *MemoryStore) AddMesh(ctx context.Context, m domain.Mesh) (domain.Mesh, error) {
	if err := validateMesh(m); err != nil {
		return domain.Mesh{}, err
	}
	m = m.Clone()
	m.Code = strings.TrimSpace(m.Code)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.supplierIndex(m.SupplierID) < 0 {
		return domain.Mesh{}, domain.ErrSupplierNotFound
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	} else if s.meshIndex(m.ID) >= 0 {
		return domain.Mesh{}, fmt.Errorf("%w: mesh id %s already exists", domain.ErrInvalidRequest, m.ID)
	}
	if s.codeTaken(m.SupplierID, m.Code, m.ID) {
		return domain.Mesh{}, domain.ErrDuplicateCode
	}

	assignVariationIDs(m.Variations)
	s.meshes = append(s.meshes, m)
	return m.Clone(), nil
}

// UpdateMesh replaces the mesh with the same id. An unknown id is ignored and
// reported as not applied; the supplier must exist, as for AddMesh.
func (s *MemoryStore) UpdateMesh(ctx context.Context, m domain.Mesh) (bool, error) {
	if err := validateMesh(m); err != nil {
		return false, err
	}
	m = m.Clone()
	m.Code = strings.TrimSpace(m.Code)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	idx := s.meshIndex(m.ID)
	if idx < 0 {
		return false, nil
	}
	if s.supplierIndex(m.SupplierID) < 0 {
		return false, domain.ErrSupplierNotFound
	}
	if s.codeTaken(m.SupplierID, m.Code, m.ID) {
		return false, domain.ErrDuplicateCode
	}

	assignVariationIDs(m.Variations)
	s.meshes[idx] = m
	return true, nil
}

// DeleteMesh removes the mesh with the given id and reports whether it existed
func (s *MemoryStore) DeleteMesh(ctx context.Context, id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	idx := s.meshIndex(id)
	if idx < 0 {
		return false
	}
	s.meshes = append(s.meshes[:idx], s.meshes[idx+1:]...)
	return true
}

// GetMesh returns the mesh with the given id
func (s *MemoryStore) GetMesh(ctx context.Context, id string) (domain.Mesh, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	idx := s.meshIndex(id)
	if idx < 0 {
		return domain.Mesh{}, domain.ErrMeshNotFound
	}
	return s.meshes[idx].Clone(), nil
}

// FindMeshByCode returns the mesh of a supplier with the given product code
func (s *MemoryStore) FindMeshByCode(ctx context.Context, supplierID, code string) (domain.Mesh, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Mesh{}, false
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, m := range s.meshes {
		if m.SupplierID == supplierID && strings.EqualFold(m.Code, code) {
			return m.Clone(), true
		}
	}
	return domain.Mesh{}, false
}

// ListMeshes returns all meshes in insertion order
func (s *MemoryStore) ListMeshes(ctx context.Context) []domain.Mesh {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]domain.Mesh, 0, len(s.meshes))
	for _, m := range s.meshes {
		out = append(out, m.Clone())
	}
	return out
}

// ListMeshesBySupplier returns the meshes of one supplier in insertion order
func (s *MemoryStore) ListMeshesBySupplier(ctx context.Context, supplierID string) []domain.Mesh {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := []domain.Mesh{}
	for _, m := range s.meshes {
		if m.SupplierID == supplierID {
			out = append(out, m.Clone())
		}
	}
	return out
}

// Counts returns the number of suppliers and meshes (for health/monitoring)
func (s *MemoryStore) Counts() (suppliers, meshes int) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.suppliers), len(s.meshes)
}

func (s *MemoryStore) supplierIndex(id string) int {
	for i, sup := range s.suppliers {
		if sup.ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) meshIndex(id string) int {
	for i, m := range s.meshes {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// codeTaken reports whether another mesh of the supplier already uses code
func (s *MemoryStore) codeTaken(supplierID, code, selfID string) bool {
	if code == "" {
		return false
	}
	for _, m := range s.meshes {
		if m.ID != selfID && m.SupplierID == supplierID && strings.EqualFold(m.Code, code) {
			return true
		}
	}
	return false
}

func validateMesh(m domain.Mesh) error {
	if m.Width < 0 || m.Grammage < 0 || m.Yield < 0 {
		return fmt.Errorf("%w: width, grammage and yield must not be negative", domain.ErrInvalidRequest)
	}
	for _, v := range m.Variations {
		if v.PriceCash < 0 || v.PriceFactored < 0 {
			return fmt.Errorf("%w: prices must not be negative", domain.ErrInvalidRequest)
		}
	}
	return nil
}

func assignVariationIDs(variations []domain.PriceVariation) {
	for i := range variations {
		if variations[i].ID == "" {
			variations[i].ID = uuid.NewString()
		}
	}
}
