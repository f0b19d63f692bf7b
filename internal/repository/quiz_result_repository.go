package repository

import (
	"insquiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

// NewQuizResultRepository 创建结果历史仓库实例
func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

// Create 保存一条结果
func (r *QuizResultRepository) Create(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

// FindRecent 按时间倒序获取历史，limit <= 0 时返回全部
func (r *QuizResultRepository) FindRecent(limit int) ([]model.QuizResult, error) {
	var results []model.QuizResult
	q := r.DB.Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&results).Error
	return results, err
}

// Count 历史总数
func (r *QuizResultRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizResult{}).Count(&count).Error
	return count, err
}

// DeleteOlderThanRank 只保留最新的 keep 条
func (r *QuizResultRepository) DeleteOlderThanRank(keep int) (int64, error) {
	var keepIDs []uint
	if err := r.DB.Model(&model.QuizResult{}).
		Order("created_at DESC").Order("id DESC").
		Limit(keep).
		Pluck("id", &keepIDs).Error; err != nil {
		return 0, err
	}

	q := r.DB.Model(&model.QuizResult{})
	if len(keepIDs) > 0 {
		q = q.Where("id NOT IN ?", keepIDs)
	} else {
		q = q.Where("1 = 1")
	}
	res := q.Delete(&model.QuizResult{})
	return res.RowsAffected, res.Error
}

// DeleteAll 清空历史
func (r *QuizResultRepository) DeleteAll() error {
	return r.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.QuizResult{}).Error
}
