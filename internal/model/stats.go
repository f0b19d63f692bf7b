package model

import "time"

type Counter struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type ModeCounter struct {
	Sessions int `json:"sessions"`
	Correct  int `json:"correct"`
	Total    int `json:"total"`
}

// StatsRecord 本地累计统计，只在 Reset 时清零
type StatsRecord struct {
	TotalAnswered int                    `json:"totalAnswered"`
	TotalCorrect  int                    `json:"totalCorrect"`
	Subjects      map[string]Counter     `json:"subjects"`
	Modes         map[string]ModeCounter `json:"modes"`
	BestSkill     string                 `json:"bestSkill"`
	UpdatedAt     *time.Time             `json:"updatedAt,omitempty"`
}

func EmptyStats() *StatsRecord {
	return &StatsRecord{
		Subjects: map[string]Counter{},
		Modes: map[string]ModeCounter{
			StatsModePractice: {},
			StatsModeRealSim:  {},
			StatsModeAdaptive: {},
		},
	}
}

// SimProgress 进行中的模拟考试快照
type SimProgress struct {
	SessionID        string            `json:"sessionId"`
	Index            int               `json:"index"`
	Score            int               `json:"score"`
	Total            int               `json:"total"`
	Answers          map[string]string `json:"answers"`
	RemainingSeconds int               `json:"remainingSeconds"`
	LastSave         time.Time         `json:"lastSave"`
}
