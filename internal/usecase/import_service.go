package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/meshcompare/backend/internal/domain"
)

// ImportMode decides what happens to candidates without a matching mesh
type ImportMode string

const (
	// ModeUpsert merges prices into matching meshes and inserts the rest
	ModeUpsert ImportMode = "upsert"
	// ModeUpdateOnly merges prices into matching meshes and counts the rest as lookup misses
	ModeUpdateOnly ImportMode = "update_only"
)

// Skip reasons reported per candidate
const (
	SkipMissingCode        = "missing_code"
	SkipUnresolvedSupplier = "unresolved_supplier"
	SkipDuplicateCode      = "duplicate_code"
)

// ImportRequest is a batch of normalized candidates to apply to the catalog
type ImportRequest struct {
	SupplierID      string                    `json:"supplierId"`
	Records         []domain.NormalizedRecord `json:"records" binding:"required"`
	SelectedCodes   []string                  `json:"selectedCodes"`
	Mode            ImportMode                `json:"mode"`
	CreateSuppliers bool                      `json:"createSuppliers"`
}

// ImportSkip describes one candidate that was not applied
type ImportSkip struct {
	Index  int    `json:"index"`
	Code   string `json:"code,omitempty"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// ImportReport summarizes an import run
type ImportReport struct {
	MatchedCount   int          `json:"matchedCount"`
	InsertedCount  int          `json:"insertedCount"`
	SkippedCount   int          `json:"skippedCount"`
	MissedCount    int          `json:"missedCount"`
	DiscardedCount int          `json:"discardedCount"`
	Skipped        []ImportSkip `json:"skipped"`
	MeshIDs        []string     `json:"meshIds"`
}

// ImportService applies normalized candidates against the catalog store.
// Imports run one at a time.
type ImportService struct {
	catalog domain.CatalogRepository
	mu      sync.Mutex
}

// NewImportService creates a new import merge coordinator
func NewImportService(catalog domain.CatalogRepository) *ImportService {
	return &ImportService{catalog: catalog}
}

// DefaultMode returns the import mode matching a candidate kind: price updates
// only touch existing meshes, every other kind may insert.
func DefaultMode(kind domain.CandidateKind) ImportMode {
	if kind == domain.KindPriceUpdate {
		return ModeUpdateOnly
	}
	return ModeUpsert
}

// Apply merges the request's candidates into the catalog.
// Flow: selection -> code check -> supplier resolution -> match by code+supplier
// -> merge prices (match) or insert / count miss (no match). Price-only
// records always count a miss when nothing matches.
func (s *ImportService) Apply(ctx context.Context, req ImportRequest) (*ImportReport, error) {
	mode := req.Mode
	if mode == "" {
		mode = ModeUpsert
	}
	if mode != ModeUpsert && mode != ModeUpdateOnly {
		return nil, fmt.Errorf("%w: unknown import mode %q", domain.ErrInvalidRequest, req.Mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// An unknown target supplier skips every record instead of failing the batch
	var target *domain.Supplier
	targetMissing := false
	if req.SupplierID != "" {
		sup, err := s.catalog.GetSupplier(ctx, req.SupplierID)
		switch {
		case errors.Is(err, domain.ErrSupplierNotFound):
			targetMissing = true
			log.Warn().Str("supplier_id", req.SupplierID).Msg("import target supplier not found")
		case err != nil:
			return nil, err
		default:
			target = &sup
		}
	}

	selected := selectionSet(req.SelectedCodes)
	report := &ImportReport{Skipped: []ImportSkip{}, MeshIDs: []string{}}

	for i, rec := range req.Records {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		code := strings.TrimSpace(rec.Code)
		if selected != nil && !selected[strings.ToLower(code)] {
			report.DiscardedCount++
			continue
		}

		if code == "" {
			report.skip(i, rec, SkipMissingCode)
			continue
		}

		if targetMissing {
			report.skip(i, rec, SkipUnresolvedSupplier)
			continue
		}

		supplier, ok := s.resolveSupplier(ctx, target, rec.Supplier, req.CreateSuppliers)
		if !ok {
			report.skip(i, rec, SkipUnresolvedSupplier)
			continue
		}

		if existing, found := s.catalog.FindMeshByCode(ctx, supplier.ID, code); found {
			existing.Variations = MergeVariations(existing.Variations, rec.PriceList)
			if _, err := s.catalog.UpdateMesh(ctx, existing); err != nil {
				return report, fmt.Errorf("updating mesh %s: %w", existing.ID, err)
			}
			report.MatchedCount++
			report.MeshIDs = append(report.MeshIDs, existing.ID)
			continue
		}

		// Price updates never create meshes, whatever the mode
		if mode == ModeUpdateOnly || rec.PriceOnly {
			report.MissedCount++
			continue
		}

		created, err := s.catalog.AddMesh(ctx, meshFromRecord(supplier.ID, code, rec))
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateCode) {
				report.skip(i, rec, SkipDuplicateCode)
				continue
			}
			return report, fmt.Errorf("inserting mesh %s: %w", code, err)
		}
		report.InsertedCount++
		report.MeshIDs = append(report.MeshIDs, created.ID)
	}

	log.Info().
		Str("mode", string(mode)).
		Int("records", len(req.Records)).
		Int("matched", report.MatchedCount).
		Int("inserted", report.InsertedCount).
		Int("skipped", report.SkippedCount).
		Int("missed", report.MissedCount).
		Int("discarded", report.DiscardedCount).
		Msg("import applied")

	return report, nil
}

// resolveSupplier returns the fixed target supplier, or looks the candidate's
// supplier up by name, creating it when allowed
func (s *ImportService) resolveSupplier(
	ctx context.Context,
	target *domain.Supplier,
	name string,
	create bool,
) (domain.Supplier, bool) {
	if target != nil {
		return *target, true
	}
	if strings.TrimSpace(name) == "" {
		return domain.Supplier{}, false
	}
	if sup, ok := s.catalog.FindSupplierByName(ctx, name); ok {
		return sup, true
	}
	if !create {
		return domain.Supplier{}, false
	}
	sup, err := s.catalog.AddSupplier(ctx, domain.Supplier{Name: name})
	if err != nil {
		log.Warn().Err(err).Str("supplier", name).Msg("could not create supplier during import")
		return domain.Supplier{}, false
	}
	return sup, true
}

// MergeVariations overwrites the cash price of variations whose category is in
// prices and appends the categories that are new. Existing categories missing
// from prices are left untouched. Variations are matched by resolved category.
func MergeVariations(existing []domain.PriceVariation, prices []domain.PriceEntry) []domain.PriceVariation {
	out := make([]domain.PriceVariation, len(existing), len(existing)+len(prices))
	copy(out, existing)

	position := make(map[string]int, len(out))
	for i, v := range out {
		key := domain.ResolveCategory(v.Name)
		if _, seen := position[key]; !seen {
			position[key] = i
		}
	}

	for _, p := range prices {
		key := domain.ResolveCategory(p.Category)
		if key == "" {
			continue
		}
		if idx, ok := position[key]; ok {
			out[idx].PriceCash = p.PriceCash
			continue
		}
		position[key] = len(out)
		out = append(out, domain.PriceVariation{
			ID:        uuid.NewString(),
			Name:      key,
			PriceCash: p.PriceCash,
		})
	}
	return out
}

// meshFromRecord builds a new mesh for the insert path
func meshFromRecord(supplierID, code string, rec domain.NormalizedRecord) domain.Mesh {
	variations := MergeVariations(nil, rec.PriceList)
	name := rec.Name
	if name == "" {
		name = code
	}
	return domain.Mesh{
		SupplierID:  supplierID,
		Code:        code,
		Name:        name,
		Category:    FamilyOf(domain.Mesh{Name: name}),
		Composition: rec.Composition,
		Width:       coerce(rec.Width),
		Grammage:    coerce(rec.Grammage),
		Yield:       coerce(rec.Yield),
		Variations:  variations,
		Complement:  rec.Complement,
	}
}

// selectionSet builds a lookup of selected codes; nil means everything is selected
func selectionSet(codes []string) map[string]bool {
	if codes == nil {
		return nil
	}
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[strings.ToLower(strings.TrimSpace(c))] = true
	}
	return set
}

func (r *ImportReport) skip(index int, rec domain.NormalizedRecord, reason string) {
	r.SkippedCount++
	r.Skipped = append(r.Skipped, ImportSkip{
		Index:  index,
		Code:   rec.Code,
		Name:   rec.Name,
		Reason: reason,
	})
}
