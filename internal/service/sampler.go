package service

import (
	"insquiz_backend/internal/config"
	"insquiz_backend/internal/model"
	"math/rand/v2"
	"sync"
)

// Sampler 从题库中无放回地随机抽题。生产环境使用未设种子的随机源，测试可注入固定种子
type Sampler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSampler(src rand.Source) *Sampler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Sampler{rnd: rand.New(src)}
}

// take Fisher–Yates 洗牌副本后取前 min(count, len) 个
func (s *Sampler) take(pool []model.Question, count int) []model.Question {
	if count <= 0 || len(pool) == 0 {
		return []model.Question{}
	}
	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)

	s.mu.Lock()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rnd.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	s.mu.Unlock()

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// SampleSubject 单科抽题，题量不足时全部返回，不补齐也不重复
func (s *Sampler) SampleSubject(bank model.SubjectBank, subject string, count int) *model.QuizSet {
	return &model.QuizSet{
		Mode:      model.ModeSubject,
		Subject:   subject,
		Target:    count,
		Questions: s.take(bank[subject], count),
	}
}

// SampleFullMix 所有科目合并后抽题
func (s *Sampler) SampleFullMix(bank model.SubjectBank, count int) *model.QuizSet {
	return &model.QuizSet{
		Mode:      model.ModeFullMix,
		Target:    count,
		Questions: s.take(flatten(bank), count),
	}
}

// SampleOfficialDistribution 按官方各科题量抽题，结果按表中科目顺序拼接，不足的题量记录在 Shortfall
func (s *Sampler) SampleOfficialDistribution(bank model.SubjectBank, table []config.SubjectQuota) *model.QuizSet {
	set := &model.QuizSet{
		Mode:      model.ModeOfficialDistribution,
		Questions: []model.Question{},
		Shortfall: map[string]int{},
	}
	for _, quota := range table {
		set.Target += quota.Count
		picked := s.take(bank[quota.Subject], quota.Count)
		if missing := quota.Count - len(picked); missing > 0 {
			set.Shortfall[quota.Subject] = missing
		}
		set.Questions = append(set.Questions, picked...)
	}
	return set
}

// SampleAdaptive 在固定难度下抽 count 道题；难度切换由会话逻辑在每次作答后完成
func (s *Sampler) SampleAdaptive(bank model.SubjectBank, start model.Difficulty, count int) *model.QuizSet {
	partitions := PartitionByDifficulty(bank)
	seen := make(map[string]struct{})
	set := &model.QuizSet{
		Mode:      model.ModeAdaptive,
		Target:    count,
		Questions: []model.Question{},
	}
	for i := 0; i < count; i++ {
		q, ok := s.DrawAdaptive(partitions, start, seen)
		if !ok {
			break
		}
		set.Questions = append(set.Questions, q)
	}
	return set
}

// DrawAdaptive 从当前难度（含回退难度）中随机抽一道未出现过的题。全部耗尽时返回 false
func (s *Sampler) DrawAdaptive(partitions map[model.Difficulty][]model.Question, level model.Difficulty, seen map[string]struct{}) (model.Question, bool) {
	for _, d := range fallbackChain(level) {
		var candidates []model.Question
		for _, q := range partitions[d] {
			if _, used := seen[questionKey(q)]; !used {
				candidates = append(candidates, q)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		s.mu.Lock()
		q := candidates[s.rnd.IntN(len(candidates))]
		s.mu.Unlock()
		seen[questionKey(q)] = struct{}{}
		return q, true
	}
	return model.Question{}, false
}

// fallbackChain hard 和 easy 为空时都回退到 medium
func fallbackChain(level model.Difficulty) []model.Difficulty {
	switch level {
	case model.DifficultyHard:
		return []model.Difficulty{model.DifficultyHard, model.DifficultyMedium}
	case model.DifficultyEasy:
		return []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium}
	default:
		return []model.Difficulty{model.DifficultyMedium}
	}
}

// PartitionByDifficulty 按难度分组，科目顺序固定
func PartitionByDifficulty(bank model.SubjectBank) map[model.Difficulty][]model.Question {
	out := make(map[model.Difficulty][]model.Question, len(model.Difficulties))
	for _, q := range flatten(bank) {
		d := q.Difficulty
		if d == "" {
			d = model.DifficultyMedium
		}
		out[d] = append(out[d], q)
	}
	return out
}

func flatten(bank model.SubjectBank) []model.Question {
	var all []model.Question
	for _, subject := range model.Subjects {
		all = append(all, bank[subject]...)
	}
	for subject, qs := range bank {
		if !isKnownSubject(subject) {
			all = append(all, qs...)
		}
	}
	return all
}

func isKnownSubject(subject string) bool {
	for _, s := range model.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

func questionKey(q model.Question) string {
	return q.Subject + "|" + q.ID
}
