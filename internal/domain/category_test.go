package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCategory_Idempotent(t *testing.T) {
	for _, c := range ColorCategories {
		t.Run(string(c), func(t *testing.T) {
			assert.Equal(t, string(c), ResolveCategory(string(c)))
			assert.Equal(t, string(c), ResolveCategory(ResolveCategory(string(c))))
		})
	}
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Escuras/Fortes", "EscurasFortes"},
		{"ESCURAS", "EscurasFortes"},
		{"Fortes", "EscurasFortes"},
		{"Cores Escuras e Fortes", "EscurasFortes"},
		{"Cores Claras", "Claras"},
		{"claro", "Claras"},
		{"Branco Óptico", "Branco"},
		{"Off White", "Branco"},
		{"PRETO", "Preto"},
		{"Mescla Escuro", "Mescla"},
		{"Melange", "Mescla"},
		{"Flúor", "Neon"},
		{"Cores Especiais", "Especiais"},
		{"  Listrado  ", "Listrado"},
		{"Estampado Digital", "Estampado Digital"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCategory(tt.label))
		})
	}
}

func TestColorCategory_IsKnown(t *testing.T) {
	assert.True(t, CategoryEscurasFortes.IsKnown())
	assert.False(t, ColorCategory("Escuras/Fortes").IsKnown())
	assert.False(t, ColorCategory("").IsKnown())
}
