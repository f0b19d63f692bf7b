package controller

import (
	"insquiz_backend/internal/service"
	"insquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// GetStats godoc
// @Summary 获取累计统计
// @Tags 统计
// @Produce json
// @Success 200 {object} util.Response{data=model.StatsRecord}
// @Router /stats [get]
func (c *StatsController) GetStats(ctx *gin.Context) {
	rec, err := c.StatsService.Get(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

// RecordStats godoc
// @Summary 记录一次练习结果
// @Description 增量合并，负数按 0 处理
// @Tags 统计
// @Accept json
// @Produce json
// @Param request body service.StatsDelta true "增量"
// @Success 200 {object} util.Response{data=model.StatsRecord}
// @Failure 400 {object} util.Response
// @Router /stats [post]
func (c *StatsController) RecordStats(ctx *gin.Context) {
	var delta service.StatsDelta
	if err := ctx.ShouldBindJSON(&delta); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rec, err := c.StatsService.Record(ctx.Request.Context(), delta)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

// ResetStats godoc
// @Summary 清空统计
// @Tags 统计
// @Produce json
// @Success 200 {object} util.Response
// @Router /stats [delete]
func (c *StatsController) ResetStats(ctx *gin.Context) {
	if err := c.StatsService.Reset(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
