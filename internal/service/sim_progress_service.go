package service

import (
	"context"
	"encoding/json"
	"errors"
	"insquiz_backend/internal/model"
	"insquiz_backend/internal/util"
	"time"
)

// SimProgressService 保存进行中的模拟考试，应用重启后可以继续
type SimProgressService struct {
	KV  KVStore
	Key string
	now func() time.Time
}

func NewSimProgressService(kv KVStore) *SimProgressService {
	return &SimProgressService{KV: kv, Key: util.SimProgressKey, now: time.Now}
}

func (s *SimProgressService) Save(ctx context.Context, p *model.SimProgress) error {
	p.LastSave = s.now().UTC()
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.KV.Set(ctx, s.Key, data)
}

// Get 没有保存的进度时返回 nil, nil
func (s *SimProgressService) Get(ctx context.Context) (*model.SimProgress, error) {
	data, err := s.KV.Get(ctx, s.Key)
	if errors.Is(err, util.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p model.SimProgress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SimProgressService) Clear(ctx context.Context) error {
	return s.KV.Delete(ctx, s.Key)
}
