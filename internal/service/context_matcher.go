package service

import (
	"strings"
	"unicode/utf8"
)

// MinContextLength 有效阅读材料的最小长度（去除首尾空白后）
const MinContextLength = 10

// placeholderContexts 旧数据中用来占位的文本，视为未找到
var placeholderContexts = map[string]struct{}{
	"no context available":                {},
	"sin contexto disponible":             {},
	"sin contexto":                        {},
	"texto no disponible":                 {},
	"texto no disponible en este momento": {},
}

// Resolution 匹配结果。Found=false 表示未匹配，与“找到但内容为空”区分开
type Resolution struct {
	Body  string
	Found bool
}

// Usable 找到且内容不是占位文本
func (r Resolution) Usable() bool {
	return r.Found && IsUsableContext(r.Body)
}

type ContextMatcher struct {
	Index *TextIndex
}

func NewContextMatcher(index *TextIndex) *ContextMatcher {
	return &ContextMatcher{Index: index}
}

// Resolve 先在科目内查找，未命中再查全局
func (m *ContextMatcher) Resolve(contextRef, subjectHint string) Resolution {
	key := NormalizeTitle(contextRef)
	if key == "" || m.Index == nil {
		return Resolution{}
	}

	if lookup, ok := m.Index.PerSubject[subjectHint]; ok {
		if body, ok := lookup[key]; ok {
			return Resolution{Body: body, Found: true}
		}
	}

	if body, ok := m.Index.Global[key]; ok {
		return Resolution{Body: body, Found: true}
	}

	return Resolution{}
}

// IsUsableContext 长度超过阈值且不是已知占位文本
func IsUsableContext(body string) bool {
	trimmed := strings.TrimSpace(body)
	if utf8.RuneCountInString(trimmed) <= MinContextLength {
		return false
	}
	folded := NormalizeTitle(trimmed)
	folded = strings.Trim(folded, "()[] ")
	folded = strings.TrimRight(folded, ".!… ")
	_, placeholder := placeholderContexts[folded]
	return !placeholder
}
