package service

import (
	"insquiz_backend/internal/model"
	"insquiz_backend/internal/repository"
	"insquiz_backend/internal/util"
	"insquiz_backend/pkg/logger"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultHistoryLimit = 100

type ResultService struct {
	Repo  *repository.QuizResultRepository
	Limit int
}

func NewResultService(repo *repository.QuizResultRepository, limit int) *ResultService {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &ResultService{Repo: repo, Limit: limit}
}

// Save 保存结果并裁剪到最多 Limit 条
func (s *ResultService) Save(sessionID, mode, area string, score, total int) (*model.QuizResult, error) {
	result := &model.QuizResult{
		SessionID:  sessionID,
		Mode:       mode,
		Area:       area,
		Score:      clampNonNegative(score),
		Total:      clampNonNegative(total),
		Percentage: util.CalculateAccuracy(score, total),
		CreatedAt:  time.Now(),
	}
	if err := s.Repo.Create(result); err != nil {
		return nil, err
	}
	if _, err := s.TrimOld(s.Limit); err != nil {
		logger.Log.Warn("failed to trim result history", zap.Error(err))
	}
	return result, nil
}

// History 最新的在前
func (s *ResultService) History(limit int) ([]model.QuizResult, error) {
	if limit <= 0 || limit > s.Limit {
		limit = s.Limit
	}
	return s.Repo.FindRecent(limit)
}

// BestBySubject 每个科目（小写）百分比最高的一次结果，百分比相同时保留较新的
func (s *ResultService) BestBySubject() (map[string]model.QuizResult, error) {
	results, err := s.Repo.FindRecent(0)
	if err != nil {
		return nil, err
	}
	best := make(map[string]model.QuizResult)
	for _, r := range results {
		area := strings.ToLower(strings.TrimSpace(r.Area))
		if area == "" {
			continue
		}
		if b, ok := best[area]; !ok || r.Percentage > b.Percentage {
			best[area] = r
		}
	}
	return best, nil
}

// AveragePerformance 平均百分比，四舍五入，无记录时为 0
func (s *ResultService) AveragePerformance() (int, error) {
	results, err := s.Repo.FindRecent(0)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	sum := 0
	for _, r := range results {
		sum += r.Percentage
	}
	return int(math.Round(float64(sum) / float64(len(results)))), nil
}

func (s *ResultService) TrimOld(limit int) (int64, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.Repo.DeleteOlderThanRank(limit)
}

func (s *ResultService) Clear() error {
	return s.Repo.DeleteAll()
}
