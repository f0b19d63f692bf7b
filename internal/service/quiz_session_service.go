package service

import (
	"context"
	"insquiz_backend/internal/config"
	"insquiz_backend/internal/model"
	"insquiz_backend/internal/util"
	"insquiz_backend/pkg/logger"
	"insquiz_backend/pkg/monitoring"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BankLoader 会话服务只需要读取题库
type BankLoader interface {
	LoadOrBuild(ctx context.Context) (*model.CachedBank, error)
}

type StartRequest struct {
	Mode       model.QuizMode `json:"mode" binding:"required"`
	Subject    string         `json:"subject"`
	Count      int            `json:"count"`
	Difficulty string         `json:"difficulty"`
}

// QuestionView 返回给客户端的题目，不含答案
type QuestionView struct {
	ID          string           `json:"id"`
	Subject     string           `json:"subject"`
	Text        string           `json:"question"`
	Options     []string         `json:"options"`
	ContextRef  string           `json:"contextRef"`
	ContextBody string           `json:"contextBody"`
	Skill       string           `json:"skill,omitempty"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Type        string           `json:"type,omitempty"`
}

type SessionView struct {
	ID               string         `json:"id"`
	Mode             model.QuizMode `json:"mode"`
	Subject          string         `json:"subject,omitempty"`
	Target           int            `json:"target"`
	Questions        []QuestionView `json:"questions"`
	Shortfall        map[string]int `json:"shortfall,omitempty"`
	TimeLimitSeconds int            `json:"timeLimitSeconds,omitempty"`
	Answered         int            `json:"answered"`
	Score            int            `json:"score"`
	Level            string         `json:"level,omitempty"`
	StartedAt        time.Time      `json:"startedAt"`
}

type AnswerResult struct {
	Correct       bool          `json:"correct"`
	AnswerKey     string        `json:"answerKey"`
	Answer        string        `json:"answer"`
	Justification string        `json:"justification,omitempty"`
	Level         string        `json:"level,omitempty"`
	Next          *QuestionView `json:"next,omitempty"`
	Answered      int           `json:"answered"`
	Score         int           `json:"score"`
	Done          bool          `json:"done"`
}

type FinishResult struct {
	SessionID  string             `json:"sessionId"`
	Mode       model.QuizMode     `json:"mode"`
	StatsMode  string             `json:"statsMode"`
	Score      int                `json:"score"`
	Total      int                `json:"total"`
	Percentage int                `json:"percentage"`
	BestSkill  string             `json:"bestSkill,omitempty"`
	Stats      *model.StatsRecord `json:"stats"`
	Result     *model.QuizResult  `json:"result,omitempty"`
}

type answerRecord struct {
	selected string
	correct  bool
}

// quizSession 内存中的一次练习，字段由 mu 保护
type quizSession struct {
	mu        sync.Mutex
	set       *model.QuizSet
	answers   map[string]answerRecord
	score     int
	startedAt time.Time
	touched   time.Time

	// Finish 已写入统计但后续步骤失败时保留，重试不会重复计数
	recorded *model.StatsRecord

	// 自适应模式
	cursor     *AdaptiveCursor
	partitions map[model.Difficulty][]model.Question
	seen       map[string]struct{}
}

type QuizSessionService struct {
	Bank     BankLoader
	Sampler  *Sampler
	Stats    *StatsService
	Results  *ResultService
	Progress *SimProgressService

	mu       sync.RWMutex
	cfg      config.QuizConfig
	sessions map[string]*quizSession
	now      func() time.Time
}

func NewQuizSessionService(bank BankLoader, sampler *Sampler, stats *StatsService, results *ResultService, progress *SimProgressService, cfg config.QuizConfig) *QuizSessionService {
	if len(cfg.Distribution) == 0 {
		cfg.Distribution = config.DefaultDistribution()
	}
	return &QuizSessionService{
		Bank:     bank,
		Sampler:  sampler,
		Stats:    stats,
		Results:  results,
		Progress: progress,
		cfg:      cfg,
		sessions: make(map[string]*quizSession),
		now:      time.Now,
	}
}

// UpdateConfig 配置热更新，只影响之后开始的会话
func (s *QuizSessionService) UpdateConfig(cfg config.QuizConfig) {
	if len(cfg.Distribution) == 0 {
		cfg.Distribution = config.DefaultDistribution()
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *QuizSessionService) config() config.QuizConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Start 抽题并创建会话。题库为空时返回 util.ErrNoQuestions
func (s *QuizSessionService) Start(ctx context.Context, req StartRequest) (*SessionView, error) {
	if !req.Mode.Valid() {
		return nil, util.ErrUnknownMode
	}
	cfg := s.config()

	bank, err := s.Bank.LoadOrBuild(ctx)
	if err != nil {
		return nil, err
	}
	if bank.Subjects.Size() == 0 {
		return nil, util.ErrNoQuestions
	}

	now := s.now()
	sess := &quizSession{
		answers:   make(map[string]answerRecord),
		startedAt: now,
		touched:   now,
	}

	switch req.Mode {
	case model.ModeSubject:
		subject, ok := model.CanonicalSubject(req.Subject)
		if !ok {
			return nil, util.ErrUnknownSubject
		}
		sess.set = s.Sampler.SampleSubject(bank.Subjects, subject, countOr(req.Count, cfg.SubjectCount))

	case model.ModeFullMix:
		sess.set = s.Sampler.SampleFullMix(bank.Subjects, countOr(req.Count, cfg.FullMixCount))

	case model.ModeOfficialDistribution:
		sess.set = s.Sampler.SampleOfficialDistribution(bank.Subjects, cfg.Distribution)
		sess.set.TimeLimitSeconds = len(sess.set.Questions) * cfg.SecondsPerQuestion

	case model.ModeAdaptive:
		start := req.Difficulty
		if start == "" {
			start = cfg.AdaptiveStart
		}
		level, ok := ParseDifficulty(start)
		if !ok && start != "" {
			return nil, util.ErrUnknownDifficulty
		}
		sess.cursor = NewAdaptiveCursor(level)
		sess.partitions = PartitionByDifficulty(bank.Subjects)
		sess.seen = make(map[string]struct{})
		sess.set = &model.QuizSet{
			Mode:      model.ModeAdaptive,
			Target:    countOr(req.Count, cfg.AdaptiveCount),
			Questions: []model.Question{},
		}
		if q, ok := s.Sampler.DrawAdaptive(sess.partitions, level, sess.seen); ok {
			sess.set.Questions = append(sess.set.Questions, q)
		}
	}

	if len(sess.set.Questions) == 0 {
		return nil, util.ErrNoQuestions
	}
	sess.set.ID = uuid.New().String()

	s.mu.Lock()
	s.sessions[sess.set.ID] = sess
	s.mu.Unlock()

	monitoring.QuizSessions.WithLabelValues(string(req.Mode)).Inc()
	logger.Log.Info("quiz session started",
		zap.String("session", sess.set.ID),
		zap.String("mode", string(req.Mode)),
		zap.Int("questions", len(sess.set.Questions)),
		zap.Int("target", sess.set.Target),
	)
	if sess.set.Short() && req.Mode != model.ModeAdaptive {
		logger.Log.Warn("quiz set is short", zap.String("session", sess.set.ID), zap.Any("shortfall", sess.set.Shortfall))
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *QuizSessionService) session(id string) (*quizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return sess, nil
}

func (s *QuizSessionService) Get(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// Answer 判分。同一题不能重复作答；自适应模式会在此时调整难度并抽下一题
func (s *QuizSessionService) Answer(ctx context.Context, sessionID, questionID, selected string) (*AnswerResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	q, ok := sess.question(questionID)
	if !ok {
		sess.mu.Unlock()
		return nil, util.ErrQuestionNotInSession
	}
	if _, done := sess.answers[questionID]; done {
		sess.mu.Unlock()
		return nil, util.ErrAlreadyAnswered
	}

	correct := IsCorrect(q, selected)
	sess.answers[questionID] = answerRecord{selected: selected, correct: correct}
	if correct {
		sess.score++
	}
	sess.touched = s.now()

	res := &AnswerResult{
		Correct:       correct,
		AnswerKey:     q.AnswerKey,
		Answer:        q.Answer,
		Justification: q.Justification,
	}

	if sess.cursor != nil {
		level := sess.cursor.Advance(correct)
		res.Level = string(level)
		if len(sess.set.Questions) < sess.set.Target {
			if next, ok := s.Sampler.DrawAdaptive(sess.partitions, level, sess.seen); ok {
				sess.set.Questions = append(sess.set.Questions, next)
				v := toView(next)
				res.Next = &v
			}
		}
	}

	res.Answered = len(sess.answers)
	res.Score = sess.score
	res.Done = res.Next == nil && len(sess.answers) >= len(sess.set.Questions)

	var progress *model.SimProgress
	if sess.set.Mode == model.ModeOfficialDistribution {
		progress = sess.progress(s.now())
	}
	sess.mu.Unlock()

	if progress != nil && s.Progress != nil {
		if err := s.Progress.Save(ctx, progress); err != nil {
			logger.Log.Warn("failed to save sim progress", zap.String("session", sessionID), zap.Error(err))
		}
	}
	return res, nil
}

// Finish 结束会话，记录统计与历史后丢弃会话。记录失败时会话放回，可以重试
func (s *QuizSessionService) Finish(ctx context.Context, sessionID string) (*FinishResult, error) {
	// 先取出会话，防止并发重复结束
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		return nil, util.ErrSessionNotFound
	}

	out, err := s.finish(ctx, sessionID, sess)
	if err != nil {
		s.mu.Lock()
		s.sessions[sessionID] = sess
		s.mu.Unlock()
		logger.Log.Warn("failed to finish quiz session, keeping it for retry", zap.String("session", sessionID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *QuizSessionService) finish(ctx context.Context, sessionID string, sess *quizSession) (*FinishResult, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	mode := sess.set.Mode
	bySubject, bestSkill := sess.tally()
	score, total := sess.score, len(sess.answers)

	out := &FinishResult{
		SessionID:  sessionID,
		Mode:       mode,
		StatsMode:  mode.StatsMode(),
		Score:      score,
		Total:      total,
		Percentage: util.CalculateAccuracy(score, total),
		BestSkill:  bestSkill,
	}

	if sess.recorded == nil {
		stats, err := s.Stats.RecordSession(ctx, out.StatsMode, bySubject, bestSkill)
		if err != nil {
			return nil, err
		}
		sess.recorded = stats
	}
	out.Stats = sess.recorded

	if s.Results != nil && total > 0 {
		result, err := s.Results.Save(sessionID, out.StatsMode, sess.area(), score, total)
		if err != nil {
			return nil, err
		}
		out.Result = result
	}

	if mode == model.ModeOfficialDistribution && s.Progress != nil {
		if err := s.Progress.Clear(ctx); err != nil {
			logger.Log.Warn("failed to clear sim progress", zap.Error(err))
		}
	}

	logger.Log.Info("quiz session finished",
		zap.String("session", sessionID),
		zap.String("mode", string(mode)),
		zap.Int("score", score),
		zap.Int("total", total),
	)
	return out, nil
}

// PurgeExpired 丢弃超过 maxAge 没有操作的会话，返回丢弃数量
func (s *QuizSessionService) PurgeExpired(maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := sess.touched.Before(cutoff)
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			purged++
		}
	}
	if purged > 0 {
		logger.Log.Info("purged expired quiz sessions", zap.Int("count", purged))
	}
	return purged
}

// ActiveSessions 当前内存中的会话数
func (s *QuizSessionService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (sess *quizSession) question(id string) (model.Question, bool) {
	for _, q := range sess.set.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}

func (sess *quizSession) view() *SessionView {
	v := &SessionView{
		ID:               sess.set.ID,
		Mode:             sess.set.Mode,
		Subject:          sess.set.Subject,
		Target:           sess.set.Target,
		Questions:        make([]QuestionView, 0, len(sess.set.Questions)),
		Shortfall:        sess.set.Shortfall,
		TimeLimitSeconds: sess.set.TimeLimitSeconds,
		Answered:         len(sess.answers),
		Score:            sess.score,
		StartedAt:        sess.startedAt,
	}
	for _, q := range sess.set.Questions {
		v.Questions = append(v.Questions, toView(q))
	}
	if sess.cursor != nil {
		v.Level = string(sess.cursor.Level)
	}
	return v
}

func (sess *quizSession) progress(now time.Time) *model.SimProgress {
	answers := make(map[string]string, len(sess.answers))
	for id, a := range sess.answers {
		answers[id] = a.selected
	}
	remaining := 0
	if sess.set.TimeLimitSeconds > 0 {
		remaining = sess.set.TimeLimitSeconds - int(now.Sub(sess.startedAt).Seconds())
		if remaining < 0 {
			remaining = 0
		}
	}
	return &model.SimProgress{
		SessionID:        sess.set.ID,
		Index:            len(sess.answers),
		Score:            sess.score,
		Total:            len(sess.set.Questions),
		Answers:          answers,
		RemainingSeconds: remaining,
	}
}

// tally 按科目汇总已作答的题目；bestSkill 为答对次数最多的技能
func (sess *quizSession) tally() (map[string]model.Counter, string) {
	bySubject := make(map[string]model.Counter)
	skills := make(map[string]int)
	for _, q := range sess.set.Questions {
		a, ok := sess.answers[q.ID]
		if !ok {
			continue
		}
		c := bySubject[q.Subject]
		c.Total++
		if a.correct {
			c.Correct++
			if q.Skill != "" {
				skills[q.Skill]++
			}
		}
		bySubject[q.Subject] = c
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)
	best, bestCount := "", 0
	for _, name := range names {
		if skills[name] > bestCount {
			best, bestCount = name, skills[name]
		}
	}
	return bySubject, best
}

// area 历史记录中显示的范围
func (sess *quizSession) area() string {
	switch sess.set.Mode {
	case model.ModeSubject:
		return sess.set.Subject
	case model.ModeOfficialDistribution:
		return "simulacro"
	default:
		return strings.ReplaceAll(string(sess.set.Mode), "-", "_")
	}
}

func toView(q model.Question) QuestionView {
	return QuestionView{
		ID:          q.ID,
		Subject:     q.Subject,
		Text:        q.Text,
		Options:     q.Options,
		ContextRef:  q.ContextRef,
		ContextBody: q.ContextBody,
		Skill:       q.Skill,
		Difficulty:  q.Difficulty,
		Type:        q.Type,
	}
}

func countOr(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
