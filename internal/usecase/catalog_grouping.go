package usecase

import (
	"regexp"

	"github.com/meshcompare/backend/internal/domain"
)

// FallbackFamily collects meshes that match no family rule
const FallbackFamily = "Outros"

// familyRule maps a folded name pattern to a product family
type familyRule struct {
	family  string
	pattern *regexp.Regexp
}

// familyRules is matched against domain.FoldText(name + " " + category).
// Order matters: "moletom pv" is a Moletom, not a Malha PV.
var familyRules = []familyRule{
	{"Moletom", regexp.MustCompile(`\b(moletom|moleton|moletinho|flanelad[oa]|fleece)\b`)},
	{"Ribana", regexp.MustCompile(`\b(ribana|rib|canelad[oa])\b`)},
	{"Dry Fit", regexp.MustCompile(`\b(dry ?fit|dryfit|dry)\b`)},
	{"Piquet", regexp.MustCompile(`\b(pique|piquet)\b`)},
	{"Suplex", regexp.MustCompile(`\b(suplex|lycra|elastano)\b`)},
	{"Viscose", regexp.MustCompile(`\b(viscolycra|viscose|visco)\b`)},
	{"Malha PV", regexp.MustCompile(`\b(pv|poliviscose)\b`)},
	{"Malha PA", regexp.MustCompile(`\b(pa|poliamida)\b`)},
	{"Meia Malha", regexp.MustCompile(`\b(meia malha|penteada|cardada|fio \d+|algodao)\b`)},
}

// FamilyOf returns the catalog family of a mesh
func FamilyOf(m domain.Mesh) string {
	text := domain.FoldText(m.Name + " " + m.Category)
	for _, rule := range familyRules {
		if rule.pattern.MatchString(text) {
			return rule.family
		}
	}
	return FallbackFamily
}

// GroupMeshes buckets meshes by family. Groups follow the rule table order with
// the fallback bucket last; meshes keep their input order inside a group.
// Empty groups are omitted.
func GroupMeshes(meshes []domain.Mesh) []domain.MeshGroup {
	buckets := make(map[string][]domain.Mesh)
	for _, m := range meshes {
		family := FamilyOf(m)
		buckets[family] = append(buckets[family], m)
	}

	groups := make([]domain.MeshGroup, 0, len(buckets))
	for _, rule := range familyRules {
		if list, ok := buckets[rule.family]; ok {
			groups = append(groups, domain.MeshGroup{Family: rule.family, Meshes: list})
		}
	}
	if list, ok := buckets[FallbackFamily]; ok {
		groups = append(groups, domain.MeshGroup{Family: FallbackFamily, Meshes: list})
	}
	return groups
}
