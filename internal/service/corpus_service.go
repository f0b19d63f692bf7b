package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"insquiz_backend/internal/config"
	"insquiz_backend/internal/model"
	"insquiz_backend/internal/util"
	"insquiz_backend/pkg/logger"
	"io"
	"sort"

	"go.uber.org/zap"
)

// unassignedGroup 无法从 ID 前缀推断科目的记录，交给规范化阶段根据 subject 字段处理
const unassignedGroup = "unassigned"

// CorpusService 通过存储后端读取原始题库与各科阅读材料
type CorpusService struct {
	Storage StorageProvider
	Config  config.CorpusConfig
}

func NewCorpusService(storage StorageProvider, cfg config.CorpusConfig) *CorpusService {
	return &CorpusService{Storage: storage, Config: cfg}
}

// Load 文件不存在时记录日志并按空处理；格式错误则返回错误
func (s *CorpusService) Load(ctx context.Context) (*model.Corpus, error) {
	corpus := &model.Corpus{
		Questions: map[string][]model.RawQuestion{},
		Passages:  map[string][]model.ContextPassage{},
	}

	data, err := s.read(ctx, s.Config.QuestionsFile)
	if err != nil {
		return nil, err
	}
	if data != nil {
		questions, err := DecodeQuestions(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.Config.QuestionsFile, err)
		}
		corpus.Questions = questions
	}

	subjects := make([]string, 0, len(s.Config.Texts))
	for subject := range s.Config.Texts {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		name := s.Config.Texts[subject]
		data, err := s.read(ctx, name)
		if err != nil {
			return nil, err
		}
		if data == nil {
			continue
		}
		passages, err := DecodePassages(data)
		if err != nil {
			// 单个材料文件损坏只影响该科目
			logger.Log.Error("failed to decode passages", zap.String("subject", subject), zap.String("file", name), zap.Error(err))
			continue
		}
		corpus.Passages[subject] = append(corpus.Passages[subject], passages...)
	}

	logger.Log.Info("corpus loaded",
		zap.String("storage", s.Storage.Name()),
		zap.Int("questionGroups", len(corpus.Questions)),
		zap.Int("passageSubjects", len(corpus.Passages)),
	)
	return corpus, nil
}

func (s *CorpusService) read(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	rc, err := s.Storage.Open(ctx, name)
	if errors.Is(err, util.ErrObjectNotFound) {
		logger.Log.Warn("corpus file not found", zap.String("file", name))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// DecodeQuestions 支持两种格式：题目数组（按 ID 前缀分组）或以科目为 key 的对象
func DecodeQuestions(data []byte) (map[string][]model.RawQuestion, error) {
	data = bytes.TrimSpace(data)
	out := map[string][]model.RawQuestion{}
	if len(data) == 0 {
		return out, nil
	}

	if data[0] == '[' {
		var list []model.RawQuestion
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		for _, raw := range list {
			if raw == nil {
				continue
			}
			group := unassignedGroup
			if subject, ok := model.SubjectForPrefix(model.PrefixOf(firstString(raw, questionAliases.id))); ok {
				group = subject
			}
			out[group] = append(out[group], raw)
		}
		return out, nil
	}

	var keyed map[string][]model.RawQuestion
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, err
	}
	for group, list := range keyed {
		for _, raw := range list {
			if raw != nil {
				out[group] = append(out[group], raw)
			}
		}
	}
	return out, nil
}

// DecodePassages 支持材料数组，或值为材料数组的对象
func DecodePassages(data []byte) ([]model.ContextPassage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var raws []model.RawPassage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, err
		}
	} else {
		var keyed map[string][]model.RawPassage
		if err := json.Unmarshal(data, &keyed); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			raws = append(raws, keyed[k]...)
		}
	}

	passages := make([]model.ContextPassage, 0, len(raws))
	for _, raw := range raws {
		if p, ok := DecodePassage(raw); ok {
			passages = append(passages, p)
		}
	}
	return passages, nil
}
