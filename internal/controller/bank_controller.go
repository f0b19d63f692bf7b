package controller

import (
	"insquiz_backend/internal/service"
	"insquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BankController struct {
	BankService *service.BankService
}

func NewBankController(bankService *service.BankService) *BankController {
	return &BankController{BankService: bankService}
}

// GetBank godoc
// @Summary 题库概况
// @Description 返回当前题库版本、各科题量与组装报告；缓存不存在时会先组装
// @Tags 题库
// @Produce json
// @Success 200 {object} util.Response{data=service.BankStats}
// @Failure 500 {object} util.Response
// @Router /bank [get]
func (c *BankController) GetBank(ctx *gin.Context) {
	stats, err := c.BankService.Stats(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Invalidate godoc
// @Summary 清除题库缓存
// @Tags 题库
// @Produce json
// @Success 200 {object} util.Response
// @Router /bank/invalidate [post]
func (c *BankController) Invalidate(ctx *gin.Context) {
	if err := c.BankService.Invalidate(ctx.Request.Context()); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"invalidated": true})
}

// Rebuild godoc
// @Summary 重新组装题库
// @Tags 题库
// @Produce json
// @Success 200 {object} util.Response{data=service.BankStats}
// @Router /bank/rebuild [post]
func (c *BankController) Rebuild(ctx *gin.Context) {
	if _, err := c.BankService.Rebuild(ctx.Request.Context()); err != nil {
		respondError(ctx, err)
		return
	}
	c.GetBank(ctx)
}
