package app

import (
	"insquiz_backend/docs"
	"insquiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		bank := api.Group("/bank")
		{
			bank.GET("", c.bank.GetBank)
			bank.POST("/invalidate", c.bank.Invalidate)
			bank.POST("/rebuild", c.bank.Rebuild)
		}

		quiz := api.Group("/quiz")
		{
			quiz.POST("/sessions", c.quiz.StartSession)
			quiz.GET("/sessions/:id", c.quiz.GetSession)
			quiz.POST("/sessions/:id/answers", c.quiz.SubmitAnswer)
			quiz.POST("/sessions/:id/finish", c.quiz.FinishSession)
			quiz.GET("/progress", c.quiz.GetProgress)
			quiz.DELETE("/progress", c.quiz.ClearProgress)
		}

		stats := api.Group("/stats")
		{
			stats.GET("", c.stats.GetStats)
			stats.POST("", c.stats.RecordStats)
			stats.DELETE("", c.stats.ResetStats)
		}

		history := api.Group("/history")
		{
			history.GET("", c.history.GetHistory)
			history.GET("/best", c.history.GetBest)
			history.GET("/average", c.history.GetAverage)
			history.DELETE("", c.history.ClearHistory)
		}
	}
}
