package service

import (
	"context"
	"insquiz_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimProgressService_SaveGetClear(t *testing.T) {
	kv, _ := newTestKV(t)
	svc := NewSimProgressService(kv)
	ctx := context.Background()

	p, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, svc.Save(ctx, &model.SimProgress{
		SessionID:        "abc",
		Index:            2,
		Score:            1,
		Total:            254,
		Answers:          map[string]string{"LQ-1": "A", "LQ-2": "C"},
		RemainingSeconds: 3000,
	}))

	p, err = svc.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "abc", p.SessionID)
	assert.Equal(t, "C", p.Answers["LQ-2"])
	assert.False(t, p.LastSave.IsZero())

	require.NoError(t, svc.Clear(ctx))
	p, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}
