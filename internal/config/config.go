package config

import (
	"fmt"
	"insquiz_backend/internal/model"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig `mapstructure:"log"`
	Database  DatabaseConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Bank      BankConfig      `mapstructure:"bank"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	RebuildCache bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type DatabaseConfig struct {
	Driver    string `mapstructure:"driver"`
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	// SQLite 文件路径，driver=sqlite 时生效
	Path string `mapstructure:"path"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioSecure   bool   `mapstructure:"minio_secure"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CorpusConfig 题库与阅读材料在存储中的对象名
type CorpusConfig struct {
	QuestionsFile string            `mapstructure:"questions_file"`
	Texts         map[string]string `mapstructure:"texts"`
}

type BankConfig struct {
	CacheKey     string `mapstructure:"cache_key"`
	CacheVersion string `mapstructure:"cache_version"`
}

type SubjectQuota struct {
	Subject string `mapstructure:"subject" json:"subject"`
	Count   int    `mapstructure:"count" json:"count"`
}

type QuizConfig struct {
	SubjectCount       int            `mapstructure:"subject_count"`
	FullMixCount       int            `mapstructure:"full_mix_count"`
	AdaptiveCount      int            `mapstructure:"adaptive_count"`
	AdaptiveStart      string         `mapstructure:"adaptive_start"`
	SecondsPerQuestion int            `mapstructure:"seconds_per_question"`
	HistoryLimit       int            `mapstructure:"history_limit"`
	SessionTTL         time.Duration  `mapstructure:"session_ttl"`
	Distribution       []SubjectQuota `mapstructure:"distribution"`
}

// DefaultDistribution 官方考试各科题量
func DefaultDistribution() []SubjectQuota {
	return []SubjectQuota{
		{Subject: "lectura", Count: 41},
		{Subject: "matematicas", Count: 50},
		{Subject: "sociales", Count: 50},
		{Subject: "naturales", Count: 58},
		{Subject: "ingles", Count: 55},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.path", "data/insquiz.db")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "data")

	v.SetDefault("corpus.questions_file", "InsQUIZ_master_reindexed.json")
	v.SetDefault("corpus.texts", map[string]string{
		"lectura":     "textos/textos_lectura.json",
		"matematicas": "textos/textos_matematicas.json",
		"sociales":    "textos/textos_ciencias_sociales.json",
		"naturales":   "textos/textos_ciencias_naturales.json",
		"ingles":      "textos/textos_ingles.json",
	})

	v.SetDefault("bank.cache_key", "insquiz:bank")
	v.SetDefault("bank.cache_version", "bank_v1")

	v.SetDefault("quiz.subject_count", 25)
	v.SetDefault("quiz.full_mix_count", 50)
	v.SetDefault("quiz.adaptive_count", 20)
	v.SetDefault("quiz.adaptive_start", "medium")
	v.SetDefault("quiz.seconds_per_question", 150)
	v.SetDefault("quiz.history_limit", 100)
	v.SetDefault("quiz.session_ttl", "6h")

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("INSQUIZ")
	v.AutomaticEnv()

	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Bank
	v.BindEnv("bank.cache_version", "BANK_CACHE_VERSION")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if len(cfg.Quiz.Distribution) == 0 {
		cfg.Quiz.Distribution = DefaultDistribution()
	}
	if err := normalizeDistribution(cfg.Quiz.Distribution); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// normalizeDistribution 把科目别名换成规范 key，并拒绝无效条目
func normalizeDistribution(table []SubjectQuota) error {
	seen := make(map[string]bool, len(table))
	for i, q := range table {
		subject, ok := model.CanonicalSubject(q.Subject)
		if !ok {
			return fmt.Errorf("quiz.distribution: unknown subject %q", q.Subject)
		}
		if seen[subject] {
			return fmt.Errorf("quiz.distribution: duplicate subject %q", subject)
		}
		if q.Count < 0 {
			return fmt.Errorf("quiz.distribution: negative count %d for %q", q.Count, q.Subject)
		}
		seen[subject] = true
		table[i].Subject = subject
	}
	return nil
}
