// @title InsQUIZ 后端 API
// @version 1.0
// @description InsQUIZ 备考练习的题库组装、抽题与统计服务。

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"insquiz_backend/internal/app"
	"insquiz_backend/internal/config"
	"insquiz_backend/pkg/logger"
	"log"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件所在目录")
	rebuild := flag.Bool("rebuild-cache", false, "清除题库缓存并重新组装，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.RebuildCache = *rebuild

	application := app.NewApp(cfg, *configDir)
	defer logger.Log.Sync()

	if cfg.RebuildCache {
		if err := application.RebuildCache(); err != nil {
			logger.Log.Fatal("Failed to rebuild question bank", zap.Error(err))
		}
		return
	}

	application.Run()
}
