package service

import (
	"context"
	"fmt"
	"insquiz_backend/internal/model"
	"insquiz_backend/internal/repository"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

const longBody = "Lea el siguiente texto con atención antes de responder."

func newTestKV(t *testing.T) (*repository.KVRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return repository.NewKVRepository(rdb), mr
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接都是独立的数据库
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.QuizResult{}))
	return db
}

func rawQuestion(id, context, answer string) model.RawQuestion {
	return model.RawQuestion{
		"id":       id,
		"question": "Pregunta " + id,
		"options":  []interface{}{"A) uno", "B) dos", "C) tres", "D) cuatro"},
		"answer":   answer,
		"context":  context,
	}
}

// countingCorpus 记录 Load 被调用的次数。Load 在等待 gate 之前就取走当前语料
type countingCorpus struct {
	mu     sync.Mutex
	corpus *model.Corpus
	calls  atomic.Int32
	gate   chan struct{}
}

func (c *countingCorpus) Load(ctx context.Context) (*model.Corpus, error) {
	c.mu.Lock()
	snapshot := c.corpus
	c.mu.Unlock()

	c.calls.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	return snapshot, nil
}

func (c *countingCorpus) replace(corpus *model.Corpus) {
	c.mu.Lock()
	c.corpus = corpus
	c.mu.Unlock()
}

// sampleCorpus 每科 n 道题，每道题都有可用的阅读材料
func sampleCorpus(n int) *model.Corpus {
	corpus := &model.Corpus{
		Questions: map[string][]model.RawQuestion{},
		Passages:  map[string][]model.ContextPassage{},
	}
	for _, subject := range model.Subjects {
		prefix := model.PrefixForSubject(subject)
		title := "Texto " + prefix
		corpus.Passages[subject] = []model.ContextPassage{{Title: title, Body: longBody}}
		for i := 1; i <= n; i++ {
			corpus.Questions[subject] = append(corpus.Questions[subject], rawQuestion(fmt.Sprintf("%s-%d", prefix, i), title, "A"))
		}
	}
	return corpus
}

// bankWith 直接构造题库，difficulties 依次循环分配
func bankWith(subject string, n int, difficulties ...model.Difficulty) model.SubjectBank {
	bank := model.SubjectBank{}
	prefix := model.PrefixForSubject(subject)
	for i := 1; i <= n; i++ {
		d := model.DifficultyMedium
		if len(difficulties) > 0 {
			d = difficulties[(i-1)%len(difficulties)]
		}
		bank[subject] = append(bank[subject], model.Question{
			ID:         fmt.Sprintf("%s-%d", prefix, i),
			Subject:    subject,
			Text:       "q",
			Options:    []string{"A) x", "B) y"},
			Answer:     "A",
			AnswerKey:  "a",
			Difficulty: d,
			Resolved:   true,
		})
	}
	return bank
}
