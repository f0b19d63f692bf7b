package app

import (
	"context"
	"errors"
	"insquiz_backend/internal/config"
	"insquiz_backend/internal/controller"
	"insquiz_backend/internal/repository"
	"insquiz_backend/internal/service"
	"insquiz_backend/pkg/configwatcher"
	"insquiz_backend/pkg/database"
	"insquiz_backend/pkg/logger"
	"insquiz_backend/pkg/monitoring"
	"insquiz_backend/pkg/security"
	"insquiz_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionPurgeInterval = 10 * time.Minute

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	ctx             context.Context
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	kv      *repository.KVRepository
	results *repository.QuizResultRepository
}

type services struct {
	storage  service.StorageProvider
	corpus   *service.CorpusService
	bank     *service.BankService
	sampler  *service.Sampler
	stats    *service.StatsService
	results  *service.ResultService
	progress *service.SimProgressService
	sessions *service.QuizSessionService
}

type controllers struct {
	health  *controller.HealthController
	bank    *controller.BankController
	quiz    *controller.QuizController
	stats   *controller.StatsController
	history *controller.HistoryController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		kv:      repository.NewKVRepository(rdb),
		results: repository.NewQuizResultRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageProvider(&cfg.Storage)
	s.corpus = service.NewCorpusService(s.storage, cfg.Corpus)
	s.bank = service.NewBankService(repos.kv, s.corpus, cfg.Bank.CacheKey, cfg.Bank.CacheVersion)
	s.sampler = service.NewSampler(nil)
	s.stats = service.NewStatsService(repos.kv)
	s.results = service.NewResultService(repos.results, cfg.Quiz.HistoryLimit)
	s.progress = service.NewSimProgressService(repos.kv)
	s.sessions = service.NewQuizSessionService(s.bank, s.sampler, s.stats, s.results, s.progress, cfg.Quiz)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		health:  controller.NewHealthController(db, repos.kv),
		bank:    controller.NewBankController(s.bank),
		quiz:    controller.NewQuizController(s.sessions, s.progress),
		stats:   controller.NewStatsController(s.stats),
		history: controller.NewHistoryController(s.results),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	ttl := a.Config.Quiz.SessionTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}

	go func() {
		ticker := time.NewTicker(sessionPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-ticker.C:
				s.sessions.PurgeExpired(ttl)
			}
		}
	}()

	// 预热题库，第一个请求不用等待组装
	go func() {
		if _, err := s.bank.LoadOrBuild(a.ctx); err != nil {
			logger.Log.Error("failed to warm up question bank", zap.Error(err))
		}
	}()

	go func() {
		err := configwatcher.Watch(a.ctx, a.ConfigDir, func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
		if err != nil {
			logger.Log.Error("config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
		Redis:     rdb,
		ctx:       ctx,
		cancel:    cancel,
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("insquiz", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.bank.SetVersion(newCfg.Bank.CacheVersion)
		services.sessions.UpdateConfig(newCfg.Quiz)
	})

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	return app
}

// RebuildCache 清除缓存并立即重新组装题库，用于 -rebuild-cache
func (a *App) RebuildCache() error {
	defer a.close()

	bank, err := a.services.bank.Rebuild(a.ctx)
	if err != nil {
		return err
	}
	logger.Log.Info("question bank rebuilt",
		zap.String("version", bank.Version),
		zap.Int("total", bank.Subjects.Size()),
		zap.Any("counts", bank.Subjects.Counts()),
	)
	return nil
}

func (a *App) Run() {
	a.startBackgroundTasks(a.services)

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.close()
	logger.Log.Info("Server exiting")
}

// close 停止后台任务并释放连接
func (a *App) close() {
	a.cancel()

	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if err := a.Redis.Close(); err != nil {
		logger.Log.Warn("failed to close redis", zap.Error(err))
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
