package service

import "insquiz_backend/internal/model"

// PromoteStreak 连续答对多少题后升一级
const PromoteStreak = 3

// AdaptiveCursor 自适应模式的会话内难度游标。连对 3 题升一级（最高 hard），答错 1 题降一级（最低 easy）
type AdaptiveCursor struct {
	Level  model.Difficulty `json:"level"`
	Streak int              `json:"streak"`
}

func NewAdaptiveCursor(start model.Difficulty) *AdaptiveCursor {
	if start == "" {
		start = model.DifficultyMedium
	}
	return &AdaptiveCursor{Level: start}
}

// Advance 根据上一题是否答对更新难度，返回更新后的难度
func (c *AdaptiveCursor) Advance(correct bool) model.Difficulty {
	if correct {
		c.Streak++
		if c.Streak >= PromoteStreak {
			c.Level = shiftDifficulty(c.Level, 1)
			c.Streak = 0
		}
		return c.Level
	}
	c.Streak = 0
	c.Level = shiftDifficulty(c.Level, -1)
	return c.Level
}

func shiftDifficulty(d model.Difficulty, step int) model.Difficulty {
	idx := 1
	for i, level := range model.Difficulties {
		if level == d {
			idx = i
		}
	}
	idx += step
	if idx < 0 {
		idx = 0
	}
	if idx >= len(model.Difficulties) {
		idx = len(model.Difficulties) - 1
	}
	return model.Difficulties[idx]
}
