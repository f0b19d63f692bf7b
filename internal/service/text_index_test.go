package service

import (
	"insquiz_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndex_FirstDuplicateWins(t *testing.T) {
	idx := BuildIndex(map[string][]model.ContextPassage{
		"lectura": {
			{Title: "El Río", Body: "primero"},
			{Title: "el río ", Body: "segundo"},
			{Title: "   ", Body: "sin título"},
		},
		"sociales": {
			{Title: "EL RÍO", Body: "de sociales"},
		},
	})

	assert.Equal(t, "primero", idx.PerSubject["lectura"]["el río"])
	assert.Len(t, idx.PerSubject["lectura"], 1)
	assert.Equal(t, "de sociales", idx.PerSubject["sociales"]["el río"])
	// lectura 排在 sociales 之前
	assert.Equal(t, "primero", idx.Global["el río"])
}

func TestContextMatcher_Resolve(t *testing.T) {
	m := NewContextMatcher(BuildIndex(map[string][]model.ContextPassage{
		"lectura":  {{Title: "Compartido", Body: "cuerpo lectura"}},
		"sociales": {{Title: "Compartido", Body: "cuerpo sociales"}, {Title: "Solo sociales", Body: "global"}},
	}))

	tests := []struct {
		name    string
		ref     string
		subject string
		want    Resolution
	}{
		{"subject scoped first", "compartido", "sociales", Resolution{Body: "cuerpo sociales", Found: true}},
		{"global fallback", "Solo sociales", "lectura", Resolution{Body: "global", Found: true}},
		{"unknown subject hint", "Compartido", "", Resolution{Body: "cuerpo lectura", Found: true}},
		{"empty ref", "  ", "lectura", Resolution{}},
		{"no match", "Otro", "lectura", Resolution{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Resolve(tt.ref, tt.subject))
		})
	}
}

func TestIsUsableContext(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{longBody, true},
		{"corto", false},
		{"0123456789", false},
		{"01234567890", true},
		{"   0123456789   ", false},
		{"No context available", false},
		{"Sin contexto disponible.", false},
		{"(Texto no disponible en este momento.)", false},
		{"Texto no disponible", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsUsableContext(tt.body), tt.body)
	}
}

func TestDecodePassage_Aliases(t *testing.T) {
	p, ok := DecodePassage(model.RawPassage{"titulo": "Título", "texto": "cuerpo"})
	require.True(t, ok)
	assert.Equal(t, model.ContextPassage{Title: "Título", Body: "cuerpo"}, p)

	p, ok = DecodePassage(model.RawPassage{"context_title": "T", "context_text": "B"})
	require.True(t, ok)
	assert.Equal(t, "B", p.Body)

	_, ok = DecodePassage(model.RawPassage{"texto": "sin título"})
	assert.False(t, ok)
}
