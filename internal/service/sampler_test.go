package service

import (
	"insquiz_backend/internal/config"
	"insquiz_backend/internal/model"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *Sampler {
	return NewSampler(rand.NewPCG(1, 2))
}

func ids(qs []model.Question) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.ID)
	}
	return out
}

func TestSampleSubject_NoDuplicates(t *testing.T) {
	bank := bankWith(model.SubjectLectura, 10)

	set := seeded().SampleSubject(bank, model.SubjectLectura, 7)

	require.Len(t, set.Questions, 7)
	assert.Equal(t, 7, set.Target)
	assert.False(t, set.Short())
	seen := map[string]bool{}
	for _, q := range set.Questions {
		assert.False(t, seen[q.ID], "duplicate %s", q.ID)
		seen[q.ID] = true
		assert.Equal(t, model.SubjectLectura, q.Subject)
	}
}

func TestSampleSubject_ShortPool(t *testing.T) {
	bank := bankWith(model.SubjectIngles, 3)

	set := seeded().SampleSubject(bank, model.SubjectIngles, 5)
	assert.Len(t, set.Questions, 3)
	assert.True(t, set.Short())

	empty := seeded().SampleSubject(bank, model.SubjectMatematicas, 5)
	assert.Empty(t, empty.Questions)
	assert.NotNil(t, empty.Questions)
}

func TestSampleSubject_DoesNotReorderBank(t *testing.T) {
	bank := bankWith(model.SubjectLectura, 10)
	before := ids(bank[model.SubjectLectura])

	seeded().SampleSubject(bank, model.SubjectLectura, 10)
	assert.Equal(t, before, ids(bank[model.SubjectLectura]))
}

func TestSampler_SameSeedSameSample(t *testing.T) {
	bank := bankWith(model.SubjectLectura, 30)
	a := seeded().SampleSubject(bank, model.SubjectLectura, 10)
	b := seeded().SampleSubject(bank, model.SubjectLectura, 10)
	assert.Equal(t, ids(a.Questions), ids(b.Questions))
}

func TestSampleFullMix(t *testing.T) {
	bank := bankWith(model.SubjectLectura, 4)
	for k, v := range bankWith(model.SubjectIngles, 4) {
		bank[k] = v
	}

	set := seeded().SampleFullMix(bank, 6)
	require.Len(t, set.Questions, 6)
	assert.Equal(t, model.ModeFullMix, set.Mode)

	all := seeded().SampleFullMix(bank, 100)
	assert.Len(t, all.Questions, 8)
}

func TestSampleOfficialDistribution(t *testing.T) {
	bank := model.SubjectBank{}
	for _, subject := range model.Subjects {
		for k, v := range bankWith(subject, 60) {
			bank[k] = v
		}
	}

	set := seeded().SampleOfficialDistribution(bank, config.DefaultDistribution())

	require.Len(t, set.Questions, 254)
	assert.Equal(t, 254, set.Target)
	assert.Empty(t, set.Shortfall)

	// 按分布表的科目顺序拼接
	offset := 0
	for _, quota := range config.DefaultDistribution() {
		for _, q := range set.Questions[offset : offset+quota.Count] {
			assert.Equal(t, quota.Subject, q.Subject)
		}
		offset += quota.Count
	}
}

func TestSampleOfficialDistribution_Shortfall(t *testing.T) {
	bank := bankWith(model.SubjectLectura, 30)
	table := []config.SubjectQuota{
		{Subject: model.SubjectLectura, Count: 41},
		{Subject: model.SubjectIngles, Count: 5},
	}

	set := seeded().SampleOfficialDistribution(bank, table)
	assert.Len(t, set.Questions, 30)
	assert.Equal(t, map[string]int{model.SubjectLectura: 11, model.SubjectIngles: 5}, set.Shortfall)
	assert.True(t, set.Short())
}

func TestDrawAdaptive_FallsBackToMedium(t *testing.T) {
	bank := bankWith(model.SubjectMatematicas, 4, model.DifficultyMedium)
	partitions := PartitionByDifficulty(bank)
	seen := map[string]struct{}{}
	s := seeded()

	for i := 0; i < 4; i++ {
		q, ok := s.DrawAdaptive(partitions, model.DifficultyHard, seen)
		require.True(t, ok)
		assert.Equal(t, model.DifficultyMedium, q.Difficulty)
	}

	_, ok := s.DrawAdaptive(partitions, model.DifficultyHard, seen)
	assert.False(t, ok, "exhausted pool skips the draw")
}

func TestDrawAdaptive_PrefersLevel(t *testing.T) {
	bank := bankWith(model.SubjectNaturales, 9, model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard)
	partitions := PartitionByDifficulty(bank)
	require.Len(t, partitions[model.DifficultyHard], 3)

	seen := map[string]struct{}{}
	s := seeded()
	for i := 0; i < 3; i++ {
		q, ok := s.DrawAdaptive(partitions, model.DifficultyHard, seen)
		require.True(t, ok)
		assert.Equal(t, model.DifficultyHard, q.Difficulty)
	}
	q, ok := s.DrawAdaptive(partitions, model.DifficultyHard, seen)
	require.True(t, ok)
	assert.Equal(t, model.DifficultyMedium, q.Difficulty)
}

func TestSampleAdaptive_NoDuplicates(t *testing.T) {
	bank := bankWith(model.SubjectLectura, 6, model.DifficultyEasy, model.DifficultyMedium)

	set := seeded().SampleAdaptive(bank, model.DifficultyEasy, 10)
	assert.Len(t, set.Questions, 6)
	seen := map[string]bool{}
	for _, id := range ids(set.Questions) {
		assert.False(t, seen[id])
		seen[id] = true
	}
}
