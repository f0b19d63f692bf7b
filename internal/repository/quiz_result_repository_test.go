package repository

import (
	"insquiz_backend/internal/model"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newResultRepo(t *testing.T) *QuizResultRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.QuizResult{}))
	return NewQuizResultRepository(db)
}

func TestQuizResultRepository_FindRecentOrder(t *testing.T) {
	repo := newResultRepo(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.Create(&model.QuizResult{
			SessionID: id,
			Mode:      "practice",
			Area:      "lectura",
			Score:     i,
			Total:     3,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := repo.FindRecent(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].SessionID)
	assert.Equal(t, "old", all[2].SessionID)

	two, err := repo.FindRecent(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestQuizResultRepository_DeleteOlderThanRank(t *testing.T) {
	repo := newResultRepo(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&model.QuizResult{SessionID: string(rune('a' + i)), CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	deleted, err := repo.DeleteOlderThanRank(2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	left, err := repo.FindRecent(0)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "e", left[0].SessionID)
	assert.Equal(t, "d", left[1].SessionID)

	deleted, err = repo.DeleteOlderThanRank(10)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestQuizResultRepository_DeleteAll(t *testing.T) {
	repo := newResultRepo(t)
	require.NoError(t, repo.Create(&model.QuizResult{SessionID: "x", CreatedAt: time.Now()}))

	require.NoError(t, repo.DeleteAll())
	n, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}
