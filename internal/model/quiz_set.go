package model

type QuizMode string

const (
	ModeSubject              QuizMode = "subject"
	ModeFullMix              QuizMode = "full-mix"
	ModeOfficialDistribution QuizMode = "official-distribution"
	ModeAdaptive             QuizMode = "adaptive"
)

// 统计用的模式
const (
	StatsModePractice = "practice"
	StatsModeRealSim  = "realsim"
	StatsModeAdaptive = "adaptive"
)

// StatsMode 抽样模式 → 统计模式
func (m QuizMode) StatsMode() string {
	switch m {
	case ModeOfficialDistribution:
		return StatsModeRealSim
	case ModeAdaptive:
		return StatsModeAdaptive
	default:
		return StatsModePractice
	}
}

func (m QuizMode) Valid() bool {
	switch m {
	case ModeSubject, ModeFullMix, ModeOfficialDistribution, ModeAdaptive:
		return true
	}
	return false
}

// QuizSet 一次练习抽到的题目
type QuizSet struct {
	ID               string         `json:"id"`
	Mode             QuizMode       `json:"mode"`
	Subject          string         `json:"subject,omitempty"`
	Target           int            `json:"target"`
	Questions        []Question     `json:"questions"`
	Shortfall        map[string]int `json:"shortfall,omitempty"`
	TimeLimitSeconds int            `json:"timeLimitSeconds,omitempty"`
}

// Short 实际题量少于目标题量
func (q *QuizSet) Short() bool {
	return len(q.Questions) < q.Target
}
