package model

import "strings"

// 科目 key
const (
	SubjectLectura     = "lectura"
	SubjectMatematicas = "matematicas"
	SubjectSociales    = "sociales"
	SubjectNaturales   = "naturales"
	SubjectIngles      = "ingles"
)

// Subjects 按固定顺序列出所有科目，全混合抽样与缓存序列化都依赖这个顺序
var Subjects = []string{
	SubjectLectura,
	SubjectMatematicas,
	SubjectSociales,
	SubjectNaturales,
	SubjectIngles,
}

// prefixToSubject 题目 ID 前缀 → 科目。LC/LE 是旧数据里出现过的阅读前缀
var prefixToSubject = map[string]string{
	"LQ": SubjectLectura,
	"LC": SubjectLectura,
	"LE": SubjectLectura,
	"MT": SubjectMatematicas,
	"CS": SubjectSociales,
	"CN": SubjectNaturales,
	"EN": SubjectIngles,
}

var subjectToPrefix = map[string]string{
	SubjectLectura:     "LQ",
	SubjectMatematicas: "MT",
	SubjectSociales:    "CS",
	SubjectNaturales:   "CN",
	SubjectIngles:      "EN",
}

var subjectAliases = map[string]string{
	"lectura":            SubjectLectura,
	"lectura_critica":    SubjectLectura,
	"lectura critica":    SubjectLectura,
	"matematicas":        SubjectMatematicas,
	"matemáticas":        SubjectMatematicas,
	"sociales":           SubjectSociales,
	"ciencias_sociales":  SubjectSociales,
	"ciencias sociales":  SubjectSociales,
	"naturales":          SubjectNaturales,
	"ciencias_naturales": SubjectNaturales,
	"ciencias naturales": SubjectNaturales,
	"ingles":             SubjectIngles,
	"inglés":             SubjectIngles,
	"english":            SubjectIngles,
}

// SubjectForPrefix 根据两位前缀查找科目
func SubjectForPrefix(prefix string) (string, bool) {
	s, ok := prefixToSubject[strings.ToUpper(strings.TrimSpace(prefix))]
	return s, ok
}

// PrefixForSubject 科目的规范前缀
func PrefixForSubject(subject string) string {
	return subjectToPrefix[subject]
}

// CanonicalSubject 接受科目 key、别名或前缀，返回规范科目 key
func CanonicalSubject(s string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", false
	}
	if subject, ok := subjectAliases[key]; ok {
		return subject, true
	}
	return SubjectForPrefix(key)
}

// PrefixOf 返回 ID 第一个 '-' 之前的部分
func PrefixOf(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.Index(id, "-"); i > 0 {
		return id[:i]
	}
	return ""
}
