package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"insquiz_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// KVRepository 基于 Redis 的整值读写，写入总是整体替换
type KVRepository struct {
	Redis *redis.Client
}

func NewKVRepository(rdb *redis.Client) *KVRepository {
	return &KVRepository{Redis: rdb}
}

// Get key 不存在时返回 util.ErrKeyNotFound
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.Redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, util.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.Redis.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if err := r.Redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *KVRepository) Ping(ctx context.Context) error {
	return r.Redis.Ping(ctx).Err()
}

// GetJSON 读取并反序列化；反序列化失败原样返回 json 错误，由调用方决定如何恢复
func (r *KVRepository) GetJSON(ctx context.Context, key string, out interface{}) error {
	val, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(val, out)
}

func (r *KVRepository) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Set(ctx, key, data)
}
