package pricesheet

import (
	"errors"
	"strings"
	"unicode"

	"github.com/meshcompare/backend/internal/domain"
)

// headerScanRows is how many leading rows may hold a title block before the header
const headerScanRows = 20

var errNoHeader = errors.New("no header row with a code column")

type columnRole int

const (
	roleIgnored columnRole = iota
	roleCode
	roleName
	roleSupplier
	roleComposition
	roleWidth
	roleGrammage
	roleYield
	roleComplement
	rolePrice
)

// rolePrefixes is checked in order against the folded, separator-free header
var rolePrefixes = []struct {
	role     columnRole
	prefixes []string
}{
	{roleCode, []string{"codigo", "cod", "ref", "code", "sku"}},
	{roleSupplier, []string{"fornecedor", "supplier", "marca", "fabricante"}},
	{roleComplement, []string{"complemento", "complement"}},
	{roleComposition, []string{"composicao", "composition", "comp"}},
	{roleWidth, []string{"largura", "larg", "width"}},
	{roleGrammage, []string{"gramatura", "gram", "grammage", "gsm", "gm2"}},
	{roleYield, []string{"rendimento", "rend", "yield"}},
	{roleName, []string{"nome", "produto", "descricao", "desc", "artigo", "malha", "name", "product"}},
}

// priceNoise are header words that decorate a price column without naming its category
var priceNoise = map[string]bool{
	"preco": true, "precos": true, "valor": true, "r": true, "rs": true,
	"kg": true, "a": true, "vista": true, "avista": true, "por": true, "p": true,
}

type column struct {
	index    int
	role     columnRole
	label    string
	category string
}

type sheetPrice struct {
	label    string
	category string
	price    float64
}

// sheetProduct is one product row in column order
type sheetProduct struct {
	supplier    string
	code        string
	name        string
	composition string
	width       float64
	grammage    float64
	yield       float64
	complement  bool
	prices      []sheetPrice
}

// classifyHeader returns the role of a header cell and, for price columns,
// the ColorCategory the header names
func classifyHeader(header string) (columnRole, string) {
	key := domain.FoldKey(header)
	if key == "" {
		return roleIgnored, ""
	}
	for _, rp := range rolePrefixes {
		for _, prefix := range rp.prefixes {
			if strings.HasPrefix(key, prefix) {
				return rp.role, ""
			}
		}
	}

	words := strings.Fields(domain.FoldText(header))
	kept := words[:0]
	for _, w := range words {
		if !priceNoise[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return roleIgnored, ""
	}
	category := domain.ResolveCategory(strings.Join(kept, " "))
	if domain.ColorCategory(category).IsKnown() {
		return rolePrice, category
	}
	return roleIgnored, ""
}

// findHeader locates the first row among the leading rows that has a code column
func findHeader(rows [][]string) (int, []column, error) {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		var cols []column
		hasCode := false
		for j, cell := range rows[i] {
			role, category := classifyHeader(cell)
			if role == roleIgnored {
				continue
			}
			// The first column of a role wins, later duplicates are ignored
			if role != rolePrice && hasRole(cols, role) {
				continue
			}
			if role == roleCode {
				hasCode = true
			}
			cols = append(cols, column{index: j, role: role, label: strings.TrimSpace(cell), category: category})
		}
		if hasCode {
			return i, cols, nil
		}
	}
	return 0, nil, errNoHeader
}

func hasRole(cols []column, role columnRole) bool {
	for _, c := range cols {
		if c.role == role {
			return true
		}
	}
	return false
}

// mapRows turns the cell grid into products, skipping blank rows and rows
// without a code or name
func mapRows(rows [][]string) ([]sheetProduct, error) {
	headerIdx, cols, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	var products []sheetProduct
	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}

		var p sheetProduct
		for _, c := range cols {
			if c.index >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[c.index])
			if cell == "" {
				continue
			}
			switch c.role {
			case roleCode:
				p.code = cell
			case roleName:
				p.name = cell
			case roleSupplier:
				p.supplier = cell
			case roleComposition:
				p.composition = cell
			case roleWidth:
				p.width = domain.ParseLooseNumber(cell)
			case roleGrammage:
				p.grammage = domain.ParseLooseNumber(cell)
			case roleYield:
				p.yield = domain.ParseLooseNumber(cell)
			case roleComplement:
				p.complement = isTruthy(cell)
			case rolePrice:
				if !hasDigit(cell) {
					continue
				}
				p.prices = append(p.prices, sheetPrice{label: c.label, category: c.category, price: domain.ParseLooseNumber(cell)})
			}
		}

		if p.code == "" && p.name == "" {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func isTruthy(s string) bool {
	switch domain.FoldKey(s) {
	case "sim", "s", "x", "yes", "y", "true", "1":
		return true
	}
	return false
}
