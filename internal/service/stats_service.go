package service

import (
	"context"
	"encoding/json"
	"errors"
	"insquiz_backend/internal/model"
	"insquiz_backend/internal/util"
	"insquiz_backend/pkg/logger"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StatsService 累计统计。读改写由 mu 串行化，写入整体替换
type StatsService struct {
	KV  KVStore
	Key string

	mu  sync.Mutex
	now func() time.Time
}

func NewStatsService(kv KVStore) *StatsService {
	return &StatsService{KV: kv, Key: util.StatsKey, now: time.Now}
}

// StatsDelta 一次合并的增量
type StatsDelta struct {
	Mode      string `json:"mode" binding:"required"`
	Subject   string `json:"subject"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	BestSkill string `json:"bestSkill"`
}

// Get key 不存在或数据损坏时返回空统计
func (s *StatsService) Get(ctx context.Context) (*model.StatsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *StatsService) load(ctx context.Context) (*model.StatsRecord, error) {
	data, err := s.KV.Get(ctx, s.Key)
	if errors.Is(err, util.ErrKeyNotFound) {
		return model.EmptyStats(), nil
	}
	if err != nil {
		return nil, err
	}

	rec := model.EmptyStats()
	if err := json.Unmarshal(data, rec); err != nil {
		logger.Log.Warn("stats record is corrupt, starting over", zap.Error(err))
		return model.EmptyStats(), nil
	}
	if rec.Subjects == nil {
		rec.Subjects = map[string]model.Counter{}
	}
	if rec.Modes == nil {
		rec.Modes = map[string]model.ModeCounter{}
	}
	for _, mode := range []string{model.StatsModePractice, model.StatsModeRealSim, model.StatsModeAdaptive} {
		if _, ok := rec.Modes[mode]; !ok {
			rec.Modes[mode] = model.ModeCounter{}
		}
	}
	return rec, nil
}

// Record 把一次练习的结果累加到统计中。缺失的 key 自动创建，负数按 0 处理
func (s *StatsService) Record(ctx context.Context, delta StatsDelta) (*model.StatsRecord, error) {
	bySubject := map[string]model.Counter{
		strings.TrimSpace(delta.Subject): {Correct: delta.Correct, Total: delta.Total},
	}
	return s.RecordSession(ctx, delta.Mode, bySubject, delta.BestSkill)
}

// RecordSession 一次会话涉及多个科目时使用，模式的 sessions 只加 1。空科目 key 只计入总数
func (s *StatsService) RecordSession(ctx context.Context, mode string, bySubject map[string]model.Counter, bestSkill string) (*model.StatsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	sessionCorrect, sessionTotal := 0, 0
	for subject, c := range bySubject {
		correct, total := clampNonNegative(c.Correct), clampNonNegative(c.Total)
		if correct > total {
			correct = total
		}
		sessionCorrect += correct
		sessionTotal += total

		if subject == "" {
			continue
		}
		sc := rec.Subjects[subject]
		sc.Correct += correct
		sc.Total += total
		rec.Subjects[subject] = sc
	}

	rec.TotalAnswered += sessionTotal
	rec.TotalCorrect += sessionCorrect

	if mode = strings.TrimSpace(mode); mode != "" {
		m := rec.Modes[mode]
		m.Sessions++
		m.Correct += sessionCorrect
		m.Total += sessionTotal
		rec.Modes[mode] = m
	}

	if skill := strings.TrimSpace(bestSkill); skill != "" {
		rec.BestSkill = skill
	}

	now := s.now().UTC()
	rec.UpdatedAt = &now

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	if err := s.KV.Set(ctx, s.Key, data); err != nil {
		return nil, err
	}
	return rec, nil
}

// Reset 清空统计，之后 Get 返回空统计
func (s *StatsService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.KV.Delete(ctx, s.Key); err != nil {
		return err
	}
	logger.Log.Info("stats reset")
	return nil
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
