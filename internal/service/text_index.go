package service

import (
	"insquiz_backend/internal/model"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// TextIndex 阅读材料索引：按科目和全局两级，key 为规范化后的标题
type TextIndex struct {
	PerSubject map[string]map[string]string
	Global     map[string]string
}

// NormalizeTitle 去掉首尾空白并做 Unicode case folding
func NormalizeTitle(title string) string {
	return cases.Fold().String(strings.TrimSpace(title))
}

// BuildIndex 构建索引。标题为空的材料直接跳过；重复标题以先出现的为准
func BuildIndex(passagesBySubject map[string][]model.ContextPassage) *TextIndex {
	idx := &TextIndex{
		PerSubject: make(map[string]map[string]string, len(passagesBySubject)),
		Global:     make(map[string]string),
	}

	subjects := make([]string, 0, len(passagesBySubject))
	for subject := range passagesBySubject {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		lookup := make(map[string]string)
		for _, p := range passagesBySubject[subject] {
			key := NormalizeTitle(p.Title)
			if key == "" {
				continue
			}
			if _, exists := lookup[key]; !exists {
				lookup[key] = p.Body
			}
			if _, exists := idx.Global[key]; !exists {
				idx.Global[key] = p.Body
			}
		}
		idx.PerSubject[subject] = lookup
	}

	return idx
}

// passageAliases 不同材料文件的字段名
var passageAliases = struct {
	title []string
	body  []string
}{
	title: []string{"context_title", "title", "titulo", "título"},
	body:  []string{"context_text", "text", "texto", "body", "contenido"},
}

// DecodePassage 将原始材料记录映射为 ContextPassage，标题为空时返回 false
func DecodePassage(raw model.RawPassage) (model.ContextPassage, bool) {
	title := firstString(raw, passageAliases.title)
	if strings.TrimSpace(title) == "" {
		return model.ContextPassage{}, false
	}
	return model.ContextPassage{
		Title: title,
		Body:  firstString(raw, passageAliases.body),
	}, true
}
