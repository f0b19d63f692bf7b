package model

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties 由低到高
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// RawQuestion 原始题库中的一条记录，不同数据源字段名不一致，由 normalizer 的别名表解析
type RawQuestion map[string]interface{}

// RawPassage 原始阅读材料记录
type RawPassage map[string]interface{}

// ContextPassage 阅读材料，title 是与题目 context 关联的 key
type ContextPassage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Question 规范化后的题目
type Question struct {
	ID            string     `json:"id"`
	Subject       string     `json:"subject"`
	SubjectPrefix string     `json:"subjectPrefix"`
	Text          string     `json:"question"`
	Options       []string   `json:"options"`
	Answer        string     `json:"answer"`
	AnswerKey     string     `json:"answerKey"`
	ContextRef    string     `json:"contextRef"`
	ContextBody   string     `json:"contextBody"`
	Resolved      bool       `json:"resolved"`
	Justification string     `json:"justification,omitempty"`
	Skill         string     `json:"skill,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	Type          string     `json:"type,omitempty"`
}

// SubjectBank 科目 → 过滤后的题目
type SubjectBank map[string][]Question

// Size 题目总数
func (b SubjectBank) Size() int {
	n := 0
	for _, qs := range b {
		n += len(qs)
	}
	return n
}

// Counts 各科题目数
func (b SubjectBank) Counts() map[string]int {
	out := make(map[string]int, len(b))
	for subject, qs := range b {
		out[subject] = len(qs)
	}
	return out
}

// AssemblyReport 组装过程中被排除的题目统计
type AssemblyReport struct {
	Kept       map[string]int `json:"kept"`
	Dropped    map[string]int `json:"dropped"`
	Rejected   map[string]int `json:"rejected"`
	Duplicates map[string]int `json:"duplicates"`
}

func NewAssemblyReport() AssemblyReport {
	return AssemblyReport{
		Kept:       map[string]int{},
		Dropped:    map[string]int{},
		Rejected:   map[string]int{},
		Duplicates: map[string]int{},
	}
}

// CachedBank 持久化到 KV 存储中的题库
type CachedBank struct {
	Version  string         `json:"version"`
	BuiltAt  time.Time      `json:"builtAt"`
	Subjects SubjectBank    `json:"subjects"`
	Report   AssemblyReport `json:"report"`
}

// Corpus 原始题目与阅读材料，按科目分组
type Corpus struct {
	Questions map[string][]RawQuestion
	Passages  map[string][]ContextPassage
}

func (c *Corpus) Empty() bool {
	if c == nil {
		return true
	}
	for _, qs := range c.Questions {
		if len(qs) > 0 {
			return false
		}
	}
	return true
}
