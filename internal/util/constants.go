package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// 存储在 Redis 中的固定 key
const (
	StatsKey       = "insquiz:stats_v3"
	SimProgressKey = "insquiz:sim_progress"
)
