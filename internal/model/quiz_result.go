package model

import (
	"time"
)

// QuizResult 一次练习/模拟考试的结果，按时间倒序展示为历史
type QuizResult struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID  string    `gorm:"type:varchar(36);index" json:"sessionId"`
	Mode       string    `gorm:"type:varchar(32);index" json:"mode"`
	Area       string    `gorm:"type:varchar(64);index" json:"area"`
	Score      int       `gorm:"not null" json:"score"`
	Total      int       `gorm:"not null" json:"total"`
	Percentage int       `gorm:"not null" json:"percentage"`
	CreatedAt  time.Time `gorm:"index" json:"date"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
