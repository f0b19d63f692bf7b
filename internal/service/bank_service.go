package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"insquiz_backend/internal/model"
	"insquiz_backend/internal/util"
	"insquiz_backend/pkg/logger"
	"insquiz_backend/pkg/monitoring"
	"insquiz_backend/pkg/tracing"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// KVStore 整值读写的键值存储，key 不存在时 Get 返回 util.ErrKeyNotFound
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// CorpusLoader 提供原始题目与阅读材料
type CorpusLoader interface {
	Load(ctx context.Context) (*model.Corpus, error)
}

const bankFlightKey = "bank"

type BankService struct {
	KV       KVStore
	Corpus   CorpusLoader
	CacheKey string

	mu         sync.RWMutex
	version    string
	current    *model.CachedBank
	generation uint64
	group      singleflight.Group
	now        func() time.Time
}

func NewBankService(kv KVStore, corpus CorpusLoader, cacheKey, version string) *BankService {
	return &BankService{
		KV:       kv,
		Corpus:   corpus,
		CacheKey: cacheKey,
		version:  version,
		now:      time.Now,
	}
}

// BankStats 题库概况
type BankStats struct {
	Version string               `json:"version"`
	BuiltAt time.Time            `json:"builtAt"`
	Total   int                  `json:"total"`
	Counts  map[string]int       `json:"counts"`
	Report  model.AssemblyReport `json:"report"`
}

func (s *BankService) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetVersion 配置热更新时调用，版本变化后内存中的题库失效
func (s *BankService) SetVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version == "" || version == s.version {
		return
	}
	logger.Log.Info("bank cache version changed", zap.String("from", s.version), zap.String("to", version))
	s.version = version
	s.current = nil
	s.generation++
	s.group.Forget(bankFlightKey)
}

// LoadOrBuild 返回当前题库。缓存有效时不重新组装；并发调用共享同一次组装
func (s *BankService) LoadOrBuild(ctx context.Context) (*model.CachedBank, error) {
	ctx, span := tracing.Tracer.Start(ctx, "bank.LoadOrBuild")
	defer span.End()

	s.mu.RLock()
	current, version := s.current, s.version
	s.mu.RUnlock()
	if current != nil && current.Version == version {
		monitoring.BankCacheLookups.WithLabelValues("memory").Inc()
		return current, nil
	}

	// 组装不可取消：先到的调用方离开不影响其他等待者
	v, err, shared := s.group.Do(bankFlightKey, func() (interface{}, error) {
		return s.loadOrBuild(context.WithoutCancel(ctx))
	})
	span.SetAttributes(attribute.Bool("shared", shared))
	if err != nil {
		return nil, err
	}
	return v.(*model.CachedBank), nil
}

func (s *BankService) loadOrBuild(ctx context.Context) (*model.CachedBank, error) {
	s.mu.RLock()
	version, generation := s.version, s.generation
	s.mu.RUnlock()

	cached, err := s.readCache(ctx, version)
	switch {
	case err == nil:
		monitoring.BankCacheLookups.WithLabelValues("hit").Inc()
		s.remember(cached, generation)
		return cached, nil
	case errors.Is(err, util.ErrKeyNotFound):
		monitoring.BankCacheLookups.WithLabelValues("miss").Inc()
	case errors.Is(err, util.ErrCacheCorrupt), errors.Is(err, util.ErrCacheVersionMismatch):
		monitoring.BankCacheLookups.WithLabelValues("corrupt").Inc()
		logger.Log.Warn("discarding cached bank", zap.Error(err))
	default:
		monitoring.BankCacheLookups.WithLabelValues("error").Inc()
		logger.Log.Error("failed to read cached bank", zap.Error(err))
	}

	corpus, err := s.Corpus.Load(ctx)
	if err != nil {
		logger.Log.Error("failed to load corpus, assembling empty bank", zap.Error(err))
		corpus = &model.Corpus{}
	}

	subjects, report := AssembleBank(ctx, corpus.Questions, corpus.Passages)
	bank := &model.CachedBank{
		Version:  version,
		BuiltAt:  s.now().UTC(),
		Subjects: subjects,
		Report:   report,
	}

	if subjects.Size() == 0 {
		logger.Log.Warn("assembled bank is empty, not caching")
		return bank, nil
	}

	s.persist(ctx, bank, generation)
	s.remember(bank, generation)
	return bank, nil
}

// persist 期间发生过 Invalidate/SetVersion 时不写入，避免旧题库覆盖失效结果。
// 写入时持有读锁，Invalidate 要么在写入之后删除，要么让写入被跳过
func (s *BankService) persist(ctx context.Context, bank *model.CachedBank, generation uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.generation != generation {
		logger.Log.Info("bank invalidated during assembly, skipping cache write")
		return
	}
	if err := s.writeCache(ctx, bank); err != nil {
		logger.Log.Error("failed to write cached bank", zap.Error(err))
	}
}

// remember 只有在期间没有发生 Invalidate/SetVersion 时才写入内存
func (s *BankService) remember(bank *model.CachedBank, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == generation {
		s.current = bank
	}
}

func (s *BankService) readCache(ctx context.Context, version string) (*model.CachedBank, error) {
	data, err := s.KV.Get(ctx, s.CacheKey)
	if err != nil {
		return nil, err
	}

	var bank model.CachedBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrCacheCorrupt, err)
	}
	if bank.Subjects == nil {
		return nil, fmt.Errorf("%w: missing subjects", util.ErrCacheCorrupt)
	}
	if bank.Version != version {
		return nil, fmt.Errorf("%w: have %q, want %q", util.ErrCacheVersionMismatch, bank.Version, version)
	}
	for _, subject := range model.Subjects {
		if bank.Subjects[subject] == nil {
			bank.Subjects[subject] = []model.Question{}
		}
	}
	return &bank, nil
}

func (s *BankService) writeCache(ctx context.Context, bank *model.CachedBank) error {
	data, err := json.Marshal(bank)
	if err != nil {
		return err
	}
	return s.KV.Set(ctx, s.CacheKey, data)
}

// Invalidate 删除持久化缓存，下一次 LoadOrBuild 会重新组装
func (s *BankService) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.generation++
	s.group.Forget(bankFlightKey)
	s.mu.Unlock()

	if err := s.KV.Delete(ctx, s.CacheKey); err != nil {
		return fmt.Errorf("invalidate bank: %w", err)
	}
	logger.Log.Info("bank cache invalidated")
	return nil
}

// Rebuild 失效后立即重新组装
func (s *BankService) Rebuild(ctx context.Context) (*model.CachedBank, error) {
	if err := s.Invalidate(ctx); err != nil {
		return nil, err
	}
	return s.LoadOrBuild(ctx)
}

func (s *BankService) Stats(ctx context.Context) (*BankStats, error) {
	bank, err := s.LoadOrBuild(ctx)
	if err != nil {
		return nil, err
	}
	return &BankStats{
		Version: bank.Version,
		BuiltAt: bank.BuiltAt,
		Total:   bank.Subjects.Size(),
		Counts:  bank.Subjects.Counts(),
		Report:  bank.Report,
	}, nil
}

// AssembleBank 规范化、关联阅读材料、过滤未匹配的题目并按科目分组。相同输入得到相同输出
func AssembleBank(ctx context.Context, questionsBySubject map[string][]model.RawQuestion, passagesBySubject map[string][]model.ContextPassage) (model.SubjectBank, model.AssemblyReport) {
	_, span := tracing.Tracer.Start(ctx, "bank.Assemble")
	defer span.End()

	monitoring.BankAssemblies.Inc()

	bank := make(model.SubjectBank, len(model.Subjects))
	for _, subject := range model.Subjects {
		bank[subject] = []model.Question{}
	}
	report := model.NewAssemblyReport()

	matcher := NewContextMatcher(BuildIndex(canonicalPassages(passagesBySubject)))

	groups := make([]string, 0, len(questionsBySubject))
	for group := range questionsBySubject {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	seen := make(map[string]struct{})
	for _, group := range groups {
		groupSubject, _ := model.CanonicalSubject(group)

		for i, raw := range questionsBySubject[group] {
			q, err := Normalize(withSubjectHint(raw, groupSubject), i+1)
			if err != nil {
				key := groupSubject
				if key == "" {
					key = group
				}
				report.Rejected[key]++
				logger.Log.Debug("rejected raw question", zap.String("group", group), zap.Error(err))
				continue
			}

			if _, dup := seen[q.Subject+"|"+q.ID]; dup {
				report.Duplicates[q.Subject]++
				continue
			}
			seen[q.Subject+"|"+q.ID] = struct{}{}

			res := matcher.Resolve(q.ContextRef, q.Subject)
			if !res.Usable() {
				report.Dropped[q.Subject]++
				continue
			}
			q.ContextBody = res.Body
			q.Resolved = true

			bank[q.Subject] = append(bank[q.Subject], q)
			report.Kept[q.Subject]++
		}
	}

	for subject, n := range report.Dropped {
		monitoring.BankExcluded.WithLabelValues(subject, "unresolved").Add(float64(n))
	}
	for subject, n := range report.Rejected {
		monitoring.BankExcluded.WithLabelValues(subject, "rejected").Add(float64(n))
	}
	for subject, n := range report.Duplicates {
		monitoring.BankExcluded.WithLabelValues(subject, "duplicate").Add(float64(n))
	}

	logger.Log.Info("question bank assembled",
		zap.Int("total", bank.Size()),
		zap.Any("kept", report.Kept),
		zap.Any("dropped", report.Dropped),
		zap.Any("rejected", report.Rejected),
		zap.Any("duplicates", report.Duplicates),
	)

	return bank, report
}

// withSubjectHint 记录没有科目字段时用分组 key 补齐，返回副本。ID 前缀仍然优先
func withSubjectHint(raw model.RawQuestion, subject string) model.RawQuestion {
	if subject == "" || firstString(raw, questionAliases.subject) != "" {
		return raw
	}
	out := make(model.RawQuestion, len(raw)+1)
	for k, v := range raw {
		out[k] = v
	}
	out["subject"] = subject
	return out
}

// canonicalPassages 合并 ciencias_sociales 之类的旧科目 key
func canonicalPassages(in map[string][]model.ContextPassage) map[string][]model.ContextPassage {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string][]model.ContextPassage, len(in))
	for _, k := range keys {
		subject, ok := model.CanonicalSubject(k)
		if !ok {
			subject = k
		}
		out[subject] = append(out[subject], in[k]...)
	}
	return out
}
