// Package pricesheet reads supplier price lists from spreadsheets (xlsx, xls,
// csv) and turns them into extraction candidates, the same shape the AI
// producer returns.
package pricesheet

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meshcompare/backend/internal/domain"
)

// Reader is a local extraction producer for spreadsheet price lists
type Reader struct {
	// DefaultSupplier is used when the sheet has no supplier column
	DefaultSupplier string
}

// NewReader creates a new spreadsheet reader
func NewReader() *Reader {
	return &Reader{}
}

// Supports reports whether fileName has a spreadsheet extension
func (r *Reader) Supports(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xls", ".csv":
		return true
	}
	return false
}

// Extract reads the first sheet of the file and maps its rows to candidates of req.Kind
func (r *Reader) Extract(ctx context.Context, req domain.ExtractionRequest) (*domain.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := readRows(req.FileName, req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, req.FileName, err)
	}

	products, err := mapRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailure, req.FileName, err)
	}
	for i := range products {
		if products[i].supplier == "" {
			products[i].supplier = r.DefaultSupplier
		}
	}

	return toResult(req.Kind, products)
}

// readRows dispatches on the file extension and returns the raw cell grid
func readRows(fileName string, data []byte) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".xlsx":
		return readXLSX(bytes.NewReader(data))
	case ".xls":
		return readXLS(bytes.NewReader(data))
	case ".csv":
		return readCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, ext)
	}
}

// toResult converts sheet products to the variant requested by kind
func toResult(kind domain.CandidateKind, products []sheetProduct) (*domain.ExtractionResult, error) {
	result := &domain.ExtractionResult{Kind: kind}

	switch kind {
	case domain.KindSingle:
		if len(products) == 0 {
			return nil, fmt.Errorf("%w: sheet has no product rows", domain.ErrExtractionFailure)
		}
		p := products[0]
		table := make([]domain.PriceTableItem, 0, len(p.prices))
		for _, pr := range p.prices {
			table = append(table, domain.PriceTableItem{Category: pr.category, Price: domain.Number(pr.price)})
		}
		result.Single = &domain.SingleProduct{
			Supplier:       p.supplier,
			Name:           p.name,
			Code:           p.code,
			Composition:    p.composition,
			TechnicalSpecs: domain.TechnicalSpecs{WidthM: domain.Number(p.width), GrammageGSM: domain.Number(p.grammage), YieldMKg: domain.Number(p.yield)},
			PriceTable:     table,
		}

	case domain.KindBatch:
		result.Batch = make([]domain.BatchProduct, 0, len(products))
		for _, p := range products {
			list := make([]domain.BatchPriceItem, 0, len(p.prices))
			for _, pr := range p.prices {
				list = append(list, domain.BatchPriceItem{
					CategoryNormalized:   pr.category,
					OriginalCategoryName: pr.label,
					PriceCashKg:          domain.Number(pr.price),
				})
			}
			result.Batch = append(result.Batch, domain.BatchProduct{
				SupplierName: p.supplier,
				ProductCode:  p.code,
				ProductName:  p.name,
				Composition:  p.composition,
				Specs:        domain.BatchSpecs{WidthM: domain.Number(p.width), GrammageGSM: domain.Number(p.grammage), YieldMKg: domain.Number(p.yield)},
				PriceList:    list,
			})
		}

	case domain.KindConsolidated:
		result.Consolidated = make([]domain.ConsolidatedProduct, 0, len(products))
		for _, p := range products {
			list := make([]domain.ConsolidatedPriceItem, 0, len(p.prices))
			for _, pr := range p.prices {
				list = append(list, domain.ConsolidatedPriceItem{
					Category:      pr.category,
					OriginalLabel: pr.label,
					PriceCash:     domain.Number(pr.price),
				})
			}
			result.Consolidated = append(result.Consolidated, domain.ConsolidatedProduct{
				Supplier:     p.supplier,
				Code:         p.code,
				Name:         p.name,
				IsComplement: p.complement,
				Specs: domain.ConsolidatedSpecs{
					WidthM: domain.Number(p.width), GrammageGSM: domain.Number(p.grammage),
					YieldMKg: domain.Number(p.yield), Composition: p.composition,
				},
				PriceList: list,
			})
		}

	case domain.KindPriceUpdate:
		result.PriceUpdates = make([]domain.PriceUpdateData, 0, len(products))
		for _, p := range products {
			list := make([]domain.PriceUpdatePriceItem, 0, len(p.prices))
			for _, pr := range p.prices {
				list = append(list, domain.PriceUpdatePriceItem{
					CategoryNormalized: pr.category,
					PriceCashKg:        domain.Number(pr.price),
				})
			}
			result.PriceUpdates = append(result.PriceUpdates, domain.PriceUpdateData{
				SupplierName: p.supplier,
				ProductCode:  p.code,
				ProductName:  p.name,
				PriceList:    list,
			})
		}

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidRequest, kind)
	}

	return result, nil
}
