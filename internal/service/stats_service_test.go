package service

import (
	"context"
	"insquiz_backend/internal/model"
	"insquiz_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_AdditiveMergeAndReset(t *testing.T) {
	kv, mr := newTestKV(t)
	svc := NewStatsService(kv)
	ctx := context.Background()

	_, err := svc.Record(ctx, StatsDelta{Mode: model.StatsModePractice, Subject: "lectura", Correct: 7, Total: 10})
	require.NoError(t, err)
	rec, err := svc.Record(ctx, StatsDelta{Mode: model.StatsModePractice, Subject: "lectura", Correct: 3, Total: 5})
	require.NoError(t, err)

	assert.Equal(t, model.Counter{Correct: 10, Total: 15}, rec.Subjects["lectura"])
	assert.Equal(t, model.ModeCounter{Sessions: 2, Correct: 10, Total: 15}, rec.Modes[model.StatsModePractice])
	assert.Equal(t, 15, rec.TotalAnswered)
	assert.Equal(t, 10, rec.TotalCorrect)
	assert.True(t, mr.Exists(util.StatsKey))

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.Subjects, got.Subjects)

	require.NoError(t, svc.Reset(ctx))
	empty, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.EmptyStats(), empty)
}

func TestStatsService_EmptyState(t *testing.T) {
	kv, _ := newTestKV(t)
	rec, err := NewStatsService(kv).Get(context.Background())
	require.NoError(t, err)

	assert.Zero(t, rec.TotalAnswered)
	assert.Empty(t, rec.Subjects)
	for _, mode := range []string{model.StatsModePractice, model.StatsModeRealSim, model.StatsModeAdaptive} {
		assert.Contains(t, rec.Modes, mode)
		assert.Zero(t, rec.Modes[mode])
	}
}

func TestStatsService_ClampsNegativeAndSetsBestSkill(t *testing.T) {
	kv, _ := newTestKV(t)
	svc := NewStatsService(kv)
	ctx := context.Background()

	rec, err := svc.Record(ctx, StatsDelta{Mode: "custom", Subject: "ingles", Correct: -3, Total: -1, BestSkill: "Vocabulario"})
	require.NoError(t, err)
	assert.Equal(t, model.Counter{}, rec.Subjects["ingles"])
	assert.Equal(t, model.ModeCounter{Sessions: 1}, rec.Modes["custom"])
	assert.Equal(t, "Vocabulario", rec.BestSkill)
	require.NotNil(t, rec.UpdatedAt)

	rec, err = svc.Record(ctx, StatsDelta{Mode: "custom", Subject: "ingles", Correct: 1, Total: 1})
	require.NoError(t, err)
	assert.Equal(t, "Vocabulario", rec.BestSkill)
}

func TestStatsService_RecordSessionCountsOneSession(t *testing.T) {
	kv, _ := newTestKV(t)
	svc := NewStatsService(kv)

	rec, err := svc.RecordSession(context.Background(), model.StatsModeRealSim, map[string]model.Counter{
		"lectura": {Correct: 2, Total: 3},
		"ingles":  {Correct: 1, Total: 4},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, model.ModeCounter{Sessions: 1, Correct: 3, Total: 7}, rec.Modes[model.StatsModeRealSim])
	assert.Equal(t, 7, rec.TotalAnswered)
	assert.Len(t, rec.Subjects, 2)
}

func TestStatsService_CorruptRecordStartsOver(t *testing.T) {
	kv, mr := newTestKV(t)
	require.NoError(t, mr.Set(util.StatsKey, "[]"))

	rec, err := NewStatsService(kv).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.EmptyStats(), rec)
}
