package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalSubject(t *testing.T) {
	cases := map[string]string{
		"lectura":            SubjectLectura,
		" Lectura_Critica ":  SubjectLectura,
		"ciencias_sociales":  SubjectSociales,
		"Ciencias Naturales": SubjectNaturales,
		"inglés":             SubjectIngles,
		"MT":                 SubjectMatematicas,
		"lc":                 SubjectLectura,
	}
	for in, want := range cases {
		got, ok := CanonicalSubject(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "arte", "XX"} {
		_, ok := CanonicalSubject(in)
		assert.False(t, ok, in)
	}
}

func TestPrefixOf(t *testing.T) {
	assert.Equal(t, "LQ", PrefixOf("LQ-12"))
	assert.Equal(t, "CS", PrefixOf(" CS-1-b"))
	assert.Equal(t, "", PrefixOf("-12"))
	assert.Equal(t, "", PrefixOf("42"))

	for _, subject := range Subjects {
		got, ok := SubjectForPrefix(PrefixForSubject(subject))
		assert.True(t, ok)
		assert.Equal(t, subject, got)
	}
}

func TestQuizModeStatsMode(t *testing.T) {
	assert.Equal(t, StatsModePractice, ModeSubject.StatsMode())
	assert.Equal(t, StatsModePractice, ModeFullMix.StatsMode())
	assert.Equal(t, StatsModeRealSim, ModeOfficialDistribution.StatsMode())
	assert.Equal(t, StatsModeAdaptive, ModeAdaptive.StatsMode())

	assert.True(t, ModeAdaptive.Valid())
	assert.False(t, QuizMode("blitz").Valid())
}

func TestEmptyStats(t *testing.T) {
	s := EmptyStats()
	assert.Empty(t, s.Subjects)
	assert.Len(t, s.Modes, 3)
	assert.Contains(t, s.Modes, StatsModeRealSim)
}
