package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	domain "github.com/readtheroom/readtheroom/internal/domain/analysis"
)

// AnalysisRepository stores analyses and share snapshots as JSON documents
// with per-key expirations. Expiry is the store's responsibility; nothing
// here checks timestamps.
type AnalysisRepository struct {
	rdb *goredis.Client
}

func NewAnalysisRepository(rdb *goredis.Client) *AnalysisRepository {
	return &AnalysisRepository{rdb: rdb}
}

func analysisKey(id string) string { return "analysis:" + id }
func shareKey(id string) string    { return "share:" + id }

func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, id string, rec domain.StoredAnalysis, ttl time.Duration) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	return r.rdb.Set(ctx, analysisKey(id), b, ttl).Err()
}

func (r *AnalysisRepository) GetAnalysis(ctx context.Context, id string) (*domain.StoredAnalysis, error) {
	b, err := r.rdb.Get(ctx, analysisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var rec domain.StoredAnalysis
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal analysis %s: %w", id, err)
	}
	return &rec, nil
}

func (r *AnalysisRepository) SaveShare(ctx context.Context, id string, payload json.RawMessage, ttl time.Duration) error {
	return r.rdb.Set(ctx, shareKey(id), []byte(payload), ttl).Err()
}

func (r *AnalysisRepository) GetShare(ctx context.Context, id string) (json.RawMessage, error) {
	b, err := r.rdb.Get(ctx, shareKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return json.RawMessage(b), nil
}
