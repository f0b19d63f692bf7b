package service

import (
	"insquiz_backend/internal/model"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// "C)", "c.", "B: texto", "d - texto"
var letterPrefix = regexp.MustCompile(`^\s*([A-Ea-e])\s*[\)\.:\-]`)

// CanonicalAnswer 答案的可比较形式：带字母前缀或单个字母时取该字母，否则只保留字母和数字并转小写
func CanonicalAnswer(s string) string {
	if m := letterPrefix.FindStringSubmatch(s); m != nil {
		return strings.ToLower(m[1])
	}
	return alphanumeric(s)
}

// AnswerKey 结合选项计算答案的可比较形式，选项原文（包括 "4" 这样的数字）会被映射为对应字母
func AnswerKey(options []string, s string) string {
	c := CanonicalAnswer(s)
	if c == "" || isOptionLetter(c) {
		return c
	}
	for i, opt := range options {
		if c == alphanumeric(opt) || c == alphanumeric(OptionText(opt)) {
			return optionLetter(i)
		}
	}
	return c
}

// ValidAnswerKey key 是 options 范围内的选项字母
func ValidAnswerKey(options []string, key string) bool {
	if !isOptionLetter(key) {
		return false
	}
	return int(key[0]-'a') < len(options)
}

// AnswersEqual 判断两个答案是否等价，全系统只使用这一个比较规则
func AnswersEqual(options []string, a, b string) bool {
	ka := AnswerKey(options, a)
	return ka != "" && ka == AnswerKey(options, b)
}

// IsCorrect 判断所选答案是否正确
func IsCorrect(q model.Question, selected string) bool {
	key := q.AnswerKey
	if key == "" {
		key = AnswerKey(q.Options, q.Answer)
	}
	return key != "" && key == AnswerKey(q.Options, selected)
}

// OptionText 去掉选项前的 "A) " 之类的前缀
func OptionText(opt string) string {
	if loc := letterPrefix.FindStringIndex(opt); loc != nil {
		return strings.TrimSpace(opt[loc[1]:])
	}
	return strings.TrimSpace(opt)
}

func optionLetter(i int) string {
	return string(rune('a' + i))
}

func isOptionLetter(s string) bool {
	return utf8.RuneCountInString(s) == 1 && s[0] >= 'a' && s[0] <= 'e'
}

func alphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
