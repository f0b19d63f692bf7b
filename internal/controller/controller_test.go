package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"insquiz_backend/internal/config"
	"insquiz_backend/internal/model"
	"insquiz_backend/internal/repository"
	"insquiz_backend/internal/service"
	"insquiz_backend/internal/util"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type memoryCorpus struct {
	corpus *model.Corpus
}

func (c memoryCorpus) Load(ctx context.Context) (*model.Corpus, error) {
	return c.corpus, nil
}

func testCorpus(perSubject int) *model.Corpus {
	corpus := &model.Corpus{
		Questions: map[string][]model.RawQuestion{},
		Passages:  map[string][]model.ContextPassage{},
	}
	for _, subject := range model.Subjects {
		prefix := model.PrefixForSubject(subject)
		title := "Texto " + prefix
		corpus.Passages[subject] = []model.ContextPassage{{Title: title, Body: "Lea el siguiente texto con atención antes de responder."}}
		for i := 1; i <= perSubject; i++ {
			corpus.Questions[subject] = append(corpus.Questions[subject], model.RawQuestion{
				"id":       fmt.Sprintf("%s-%d", prefix, i),
				"question": "¿?",
				"options":  []interface{}{"A) sí", "B) no"},
				"answer":   "A",
				"context":  title,
			})
		}
	}
	return corpus
}

type testServer struct {
	router *gin.Engine
	redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T, corpus *model.Corpus) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.QuizResult{}))

	kv := repository.NewKVRepository(rdb)
	bank := service.NewBankService(kv, memoryCorpus{corpus: corpus}, "insquiz:bank", "v1")
	stats := service.NewStatsService(kv)
	results := service.NewResultService(repository.NewQuizResultRepository(db), 100)
	progress := service.NewSimProgressService(kv)
	sessions := service.NewQuizSessionService(bank, service.NewSampler(rand.NewPCG(7, 7)), stats, results, progress, config.QuizConfig{
		SubjectCount:       3,
		FullMixCount:       5,
		AdaptiveCount:      4,
		SecondsPerQuestion: 150,
	})

	health := NewHealthController(db, kv)
	bankCtl := NewBankController(bank)
	quiz := NewQuizController(sessions, progress)
	statsCtl := NewStatsController(stats)
	history := NewHistoryController(results)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/health", health.HealthCheck)
	api.GET("/bank", bankCtl.GetBank)
	api.POST("/bank/invalidate", bankCtl.Invalidate)
	api.POST("/bank/rebuild", bankCtl.Rebuild)
	api.POST("/quiz/sessions", quiz.StartSession)
	api.GET("/quiz/sessions/:id", quiz.GetSession)
	api.POST("/quiz/sessions/:id/answers", quiz.SubmitAnswer)
	api.POST("/quiz/sessions/:id/finish", quiz.FinishSession)
	api.GET("/quiz/progress", quiz.GetProgress)
	api.DELETE("/quiz/progress", quiz.ClearProgress)
	api.GET("/stats", statsCtl.GetStats)
	api.POST("/stats", statsCtl.RecordStats)
	api.DELETE("/stats", statsCtl.ResetStats)
	api.GET("/history", history.GetHistory)
	api.GET("/history/best", history.GetBest)
	api.GET("/history/average", history.GetAverage)
	api.DELETE("/history", history.ClearHistory)

	return &testServer{router: r, redis: mr}
}

// do 发送请求并把 data 字段解码到 out
func (s *testServer) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp struct {
		util.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	assert.Equal(t, w.Code, resp.Code)
	if out != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return w.Code
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, testCorpus(1))
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/health", nil, nil))

	s.redis.SetError("ERR server unavailable")
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/api/health", nil, nil))
}

func TestBankEndpoints(t *testing.T) {
	s := newTestServer(t, testCorpus(2))

	var stats service.BankStats
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/bank", nil, &stats))
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, "v1", stats.Version)
	assert.True(t, s.redis.Exists("insquiz:bank"))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/bank/invalidate", nil, nil))
	assert.False(t, s.redis.Exists("insquiz:bank"))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/bank/rebuild", nil, &stats))
	assert.Equal(t, 10, stats.Total)
	assert.True(t, s.redis.Exists("insquiz:bank"))
}

func TestQuizSessionEndpoints(t *testing.T) {
	s := newTestServer(t, testCorpus(5))

	var view service.SessionView
	code := s.do(t, http.MethodPost, "/api/quiz/sessions", gin.H{"mode": "subject", "subject": "matematicas"}, &view)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, view.Questions, 3)

	path := "/api/quiz/sessions/" + view.ID
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, nil, &view))

	var res service.AnswerResult
	code = s.do(t, http.MethodPost, path+"/answers", AnswerRequest{QuestionID: view.Questions[0].ID, Selected: "A"}, &res)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, res.Correct)

	code = s.do(t, http.MethodPost, path+"/answers", AnswerRequest{QuestionID: view.Questions[0].ID, Selected: "B"}, nil)
	assert.Equal(t, http.StatusConflict, code)

	code = s.do(t, http.MethodPost, path+"/answers", gin.H{"questionId": view.Questions[1].ID}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var finished service.FinishResult
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, path+"/finish", nil, &finished))
	assert.Equal(t, 1, finished.Score)
	assert.Equal(t, 100, finished.Percentage)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, nil, nil))

	var history []model.QuizResult
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/history", nil, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "matematicas", history[0].Area)

	var best map[string]model.QuizResult
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/history/best", nil, &best))
	assert.Equal(t, 100, best["matematicas"].Percentage)

	var avg struct {
		Average int `json:"average"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/history/average", nil, &avg))
	assert.Equal(t, 100, avg.Average)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/history", nil, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/history", nil, &history))
	assert.Empty(t, history)
}

func TestQuizSessionEndpoints_Errors(t *testing.T) {
	s := newTestServer(t, testCorpus(1))

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/quiz/sessions", gin.H{}, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/quiz/sessions", gin.H{"mode": "blitz"}, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/quiz/sessions", gin.H{"mode": "subject", "subject": "arte"}, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/quiz/sessions/nope/finish", nil, nil))

	empty := newTestServer(t, &model.Corpus{})
	assert.Equal(t, http.StatusNotFound, empty.do(t, http.MethodPost, "/api/quiz/sessions", gin.H{"mode": "full-mix"}, nil))
}

func TestProgressEndpoints(t *testing.T) {
	s := newTestServer(t, testCorpus(2))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/quiz/progress", nil, nil))

	var view service.SessionView
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/quiz/sessions", gin.H{"mode": "official-distribution"}, &view))
	assert.NotEmpty(t, view.Shortfall)

	code := s.do(t, http.MethodPost, "/api/quiz/sessions/"+view.ID+"/answers", AnswerRequest{QuestionID: view.Questions[0].ID, Selected: "A"}, nil)
	require.Equal(t, http.StatusOK, code)

	var p model.SimProgress
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/quiz/progress", nil, &p))
	assert.Equal(t, view.ID, p.SessionID)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/quiz/progress", nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/quiz/progress", nil, nil))
}

func TestStatsEndpoints(t *testing.T) {
	s := newTestServer(t, testCorpus(1))

	var rec model.StatsRecord
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stats", nil, &rec))
	assert.Len(t, rec.Modes, 3)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/stats", service.StatsDelta{Mode: "practice", Subject: "lectura", Correct: 7, Total: 10}, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/stats", service.StatsDelta{Mode: "practice", Subject: "lectura", Correct: 3, Total: 5}, &rec))
	assert.Equal(t, model.Counter{Correct: 10, Total: 15}, rec.Subjects["lectura"])
	assert.Equal(t, 2, rec.Modes["practice"].Sessions)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/stats", gin.H{"subject": "lectura"}, nil))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/stats", nil, nil))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stats", nil, &rec))
	assert.Zero(t, rec.TotalAnswered)
}
