package util

import "errors"

var (
	ErrKeyNotFound          = errors.New("key not found")
	ErrCacheCorrupt         = errors.New("cached bank is corrupt")
	ErrCacheVersionMismatch = errors.New("cached bank version mismatch")
	ErrNoQuestions          = errors.New("no questions available")
	ErrUnknownSubject       = errors.New("unknown subject")
	ErrUnknownMode          = errors.New("unknown quiz mode")
	ErrUnknownDifficulty    = errors.New("unknown difficulty")
	ErrSessionNotFound      = errors.New("quiz session not found")
	ErrQuestionNotInSession = errors.New("question not in session")
	ErrAlreadyAnswered      = errors.New("question already answered")
	ErrObjectNotFound       = errors.New("corpus object not found")
	ErrUnsupportedStorage   = errors.New("unsupported storage type")

	// 题目规范化失败的原因
	ErrMissingSubject = errors.New("cannot derive subject")
	ErrEmptyQuestion  = errors.New("empty question text")
	ErrTooFewOptions  = errors.New("fewer than 2 options")
	ErrTooManyOptions = errors.New("more than 5 options")
	ErrUnknownAnswer  = errors.New("answer does not match any option")
)
