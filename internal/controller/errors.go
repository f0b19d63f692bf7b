package controller

import (
	"errors"
	"insquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 已知的业务错误映射为 4xx，其余记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrQuestionNotInSession),
		errors.Is(err, util.ErrNoQuestions):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrAlreadyAnswered):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrUnknownMode),
		errors.Is(err, util.ErrUnknownSubject),
		errors.Is(err, util.ErrUnknownDifficulty):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
