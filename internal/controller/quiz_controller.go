package controller

import (
	"insquiz_backend/internal/service"
	"insquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuizController 练习会话与模拟考试进度
type QuizController struct {
	Sessions *service.QuizSessionService
	Progress *service.SimProgressService
}

func NewQuizController(sessions *service.QuizSessionService, progress *service.SimProgressService) *QuizController {
	return &QuizController{Sessions: sessions, Progress: progress}
}

// AnswerRequest 作答请求
// swagger:model AnswerRequest
type AnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Selected   string `json:"selected" binding:"required"`
}

// StartSession godoc
// @Summary 开始练习
// @Description mode 为 subject、full-mix、official-distribution 或 adaptive
// @Tags 练习
// @Accept json
// @Produce json
// @Param request body service.StartRequest true "抽题参数"
// @Success 201 {object} util.Response{data=service.SessionView}
// @Failure 400 {object} util.Response "参数错误"
// @Failure 404 {object} util.Response "题库为空"
// @Router /quiz/sessions [post]
func (c *QuizController) StartSession(ctx *gin.Context) {
	var req service.StartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Sessions.Start(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// GetSession godoc
// @Summary 获取会话
// @Tags 练习
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response
// @Router /quiz/sessions/{id} [get]
func (c *QuizController) GetSession(ctx *gin.Context) {
	view, err := c.Sessions.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// SubmitAnswer godoc
// @Summary 提交答案
// @Tags 练习
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param request body AnswerRequest true "答案"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "重复作答"
// @Router /quiz/sessions/{id}/answers [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Sessions.Answer(ctx.Request.Context(), ctx.Param("id"), req.QuestionID, req.Selected)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// FinishSession godoc
// @Summary 结束练习
// @Description 记录统计与历史，会话随后失效
// @Tags 练习
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.FinishResult}
// @Failure 404 {object} util.Response
// @Router /quiz/sessions/{id}/finish [post]
func (c *QuizController) FinishSession(ctx *gin.Context) {
	res, err := c.Sessions.Finish(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetProgress godoc
// @Summary 获取进行中的模拟考试进度
// @Tags 练习
// @Produce json
// @Success 200 {object} util.Response{data=model.SimProgress}
// @Failure 404 {object} util.Response "没有保存的进度"
// @Router /quiz/progress [get]
func (c *QuizController) GetProgress(ctx *gin.Context) {
	p, err := c.Progress.Get(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if p == nil {
		util.NotFound(ctx, "no saved progress")
		return
	}
	util.Success(ctx, p)
}

// ClearProgress godoc
// @Summary 清除模拟考试进度
// @Tags 练习
// @Produce json
// @Success 200 {object} util.Response
// @Router /quiz/progress [delete]
func (c *QuizController) ClearProgress(ctx *gin.Context) {
	if err := c.Progress.Clear(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
