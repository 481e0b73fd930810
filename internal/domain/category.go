package domain

import (
	"regexp"
	"strings"
)

// categoryRule maps a folded label pattern to a ColorCategory
type categoryRule struct {
	category ColorCategory
	pattern  *regexp.Regexp
}

// categoryRules is evaluated in order against FoldKey(label); the first
// match wins. Specific colour families come before the generic light/dark
// groups so that "Mescla Escuro" lands in Mescla, not EscurasFortes.
var categoryRules = []categoryRule{
	{CategoryNeon, regexp.MustCompile(`neon|fluor`)},
	{CategoryMescla, regexp.MustCompile(`mescl|melange|chine`)},
	{CategoryEspeciais, regexp.MustCompile(`especia|special`)},
	{CategoryEscurasFortes, regexp.MustCompile(`^(cores?)?(escur[oa]s?|fortes?|escur[oa]s?e?fortes?|fortes?e?escur[oa]s?|dark)$`)},
	{CategoryClaras, regexp.MustCompile(`^(cores?)?(clar[oa]s?|light|pastel|pasteis)$`)},
	{CategoryBranco, regexp.MustCompile(`^(cor)?(branc[oa]s?|white|bco|brancooptico|optico|offwhite)$`)},
	{CategoryPreto, regexp.MustCompile(`^(cor)?(pret[oa]s?|black|pto)$`)},
}

// ResolveCategory maps a free-text price category label onto the ColorCategory
// enumeration. Labels that match no rule are returned trimmed but otherwise
// verbatim, so an unmapped category is never dropped.
func ResolveCategory(label string) string {
	trimmed := strings.TrimSpace(label)
	key := FoldKey(trimmed)
	if key == "" {
		return trimmed
	}

	for _, rule := range categoryRules {
		if rule.pattern.MatchString(key) {
			return string(rule.category)
		}
	}
	return trimmed
}
