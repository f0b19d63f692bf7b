package service

import (
	"fmt"
	"insquiz_backend/internal/model"
	"insquiz_backend/internal/util"
	"sort"
	"strconv"
	"strings"
)

// questionAliases 各数据源的字段名，规范化时只在这里查找一次
var questionAliases = struct {
	id            []string
	subject       []string
	question      []string
	options       []string
	answer        []string
	context       []string
	justification []string
	skill         []string
	difficulty    []string
	kind          []string
}{
	id:            []string{"id"},
	subject:       []string{"subject", "materia", "area"},
	question:      []string{"question", "pregunta", "questionText", "enunciado"},
	options:       []string{"options", "opciones", "respuestas"},
	answer:        []string{"answer", "correcta", "correctAnswer", "correct_answer", "respuesta_correcta"},
	context:       []string{"context", "context_title", "contexto", "contextRef", "titulo_contexto"},
	justification: []string{"justification", "justificacion", "explicacion"},
	skill:         []string{"skill", "habilidad", "competencia"},
	difficulty:    []string{"difficulty", "dificultad", "nivel"},
	kind:          []string{"type", "tipo"},
}

const (
	minOptions = 2
	maxOptions = 5
)

// MappingError 原始记录无法规范化，调用方应跳过该记录
type MappingError struct {
	Ordinal int
	ID      string
	Err     error
}

func (e *MappingError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("question %s: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("question #%d: %v", e.Ordinal, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

// Normalize 将原始记录映射为规范题目。纯函数，不修改 raw
func Normalize(raw model.RawQuestion, ordinal int) (model.Question, error) {
	id := strings.TrimSpace(firstString(raw, questionAliases.id))

	subject, prefix, ok := deriveSubject(raw, id)
	if !ok {
		return model.Question{}, &MappingError{Ordinal: ordinal, ID: id, Err: util.ErrMissingSubject}
	}
	if id == "" {
		id = fmt.Sprintf("%s-%d", prefix, ordinal)
	}

	text := strings.TrimSpace(firstString(raw, questionAliases.question))
	if text == "" {
		return model.Question{}, &MappingError{Ordinal: ordinal, ID: id, Err: util.ErrEmptyQuestion}
	}

	options := optionsOf(raw)
	switch {
	case len(options) < minOptions:
		return model.Question{}, &MappingError{Ordinal: ordinal, ID: id, Err: util.ErrTooFewOptions}
	case len(options) > maxOptions:
		return model.Question{}, &MappingError{Ordinal: ordinal, ID: id, Err: util.ErrTooManyOptions}
	}

	answer := strings.TrimSpace(firstString(raw, questionAliases.answer))
	key := AnswerKey(options, answer)
	if !ValidAnswerKey(options, key) {
		return model.Question{}, &MappingError{Ordinal: ordinal, ID: id, Err: util.ErrUnknownAnswer}
	}
	difficulty, _ := ParseDifficulty(firstString(raw, questionAliases.difficulty))

	kind := strings.TrimSpace(firstString(raw, questionAliases.kind))
	if kind == "" {
		kind = "single"
	}

	return model.Question{
		ID:            id,
		Subject:       subject,
		SubjectPrefix: prefix,
		Text:          text,
		Options:       options,
		Answer:        answer,
		AnswerKey:     key,
		ContextRef:    strings.TrimSpace(firstString(raw, questionAliases.context)),
		Justification: strings.TrimSpace(firstString(raw, questionAliases.justification)),
		Skill:         strings.TrimSpace(firstString(raw, questionAliases.skill)),
		Difficulty:    difficulty,
		Type:          kind,
	}, nil
}

// deriveSubject 优先使用 ID 前缀，其次是显式科目字段
func deriveSubject(raw model.RawQuestion, id string) (subject, prefix string, ok bool) {
	if p := strings.ToUpper(model.PrefixOf(id)); p != "" {
		if s, found := model.SubjectForPrefix(p); found {
			return s, p, true
		}
	}
	if s, found := model.CanonicalSubject(firstString(raw, questionAliases.subject)); found {
		return s, model.PrefixForSubject(s), true
	}
	return "", "", false
}

// ParseDifficulty 未知或为空时返回 medium 和 false
func ParseDifficulty(s string) (model.Difficulty, bool) {
	switch NormalizeTitle(s) {
	case "easy", "facil", "fácil", "baja", "low":
		return model.DifficultyEasy, true
	case "medium", "medio", "media", "intermedia", "normal":
		return model.DifficultyMedium, true
	case "hard", "dificil", "difícil", "alta", "high":
		return model.DifficultyHard, true
	}
	return model.DifficultyMedium, false
}

func firstString(raw map[string]interface{}, keys []string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s := stringOf(v); s != "" {
			return s
		}
	}
	return ""
}

func stringOf(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// optionsOf 支持数组和以 a..e 为 key 的对象两种形式
func optionsOf(raw model.RawQuestion) []string {
	for _, k := range questionAliases.options {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case []string:
			return cleanOptions(t)
		case []interface{}:
			opts := make([]string, 0, len(t))
			for _, o := range t {
				opts = append(opts, stringOf(o))
			}
			return cleanOptions(opts)
		case map[string]interface{}:
			keys := make([]string, 0, len(t))
			for key := range t {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			opts := make([]string, 0, len(keys))
			for _, key := range keys {
				opts = append(opts, stringOf(t[key]))
			}
			return cleanOptions(opts)
		}
	}
	return nil
}

func cleanOptions(opts []string) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
