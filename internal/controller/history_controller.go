package controller

import (
	"insquiz_backend/internal/service"
	"insquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	ResultService *service.ResultService
}

func NewHistoryController(resultService *service.ResultService) *HistoryController {
	return &HistoryController{ResultService: resultService}
}

// GetHistory godoc
// @Summary 历史结果
// @Description 最新的在前
// @Tags 历史
// @Produce json
// @Param limit query int false "数量，默认全部（最多保留 100 条）"
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /history [get]
func (c *HistoryController) GetHistory(ctx *gin.Context) {
	limit := util.ParseIntDefault(ctx.Query("limit"), 0)
	results, err := c.ResultService.History(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// GetBest godoc
// @Summary 各科最好成绩
// @Tags 历史
// @Produce json
// @Success 200 {object} util.Response{data=map[string]model.QuizResult}
// @Router /history/best [get]
func (c *HistoryController) GetBest(ctx *gin.Context) {
	best, err := c.ResultService.BestBySubject()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, best)
}

// GetAverage godoc
// @Summary 平均成绩
// @Tags 历史
// @Produce json
// @Success 200 {object} util.Response
// @Router /history/average [get]
func (c *HistoryController) GetAverage(ctx *gin.Context) {
	avg, err := c.ResultService.AveragePerformance()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"average": avg})
}

// ClearHistory godoc
// @Summary 清空历史
// @Tags 历史
// @Produce json
// @Success 200 {object} util.Response
// @Router /history [delete]
func (c *HistoryController) ClearHistory(ctx *gin.Context) {
	if err := c.ResultService.Clear(); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
