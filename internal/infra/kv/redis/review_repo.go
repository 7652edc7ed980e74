package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	domain "github.com/readtheroom/readtheroom/internal/domain/review"
)

const reviewsKey = "reviews_list"

func limitKey(addr string) string { return "review_limit:" + addr }

// ReviewRepository keeps the capped review list and the per-address
// submission sentinels. The push-then-trim pair is pipelined but not atomic;
// the cap is approximate under concurrent writers, which is acceptable here.
type ReviewRepository struct {
	rdb *goredis.Client
}

func NewReviewRepository(rdb *goredis.Client) *ReviewRepository {
	return &ReviewRepository{rdb: rdb}
}

func (r *ReviewRepository) Recent(ctx context.Context, limit int64) ([]domain.Review, error) {
	vals, err := r.rdb.LRange(ctx, reviewsKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Review, 0, len(vals))
	for _, v := range vals {
		var rev domain.Review
		if err := json.Unmarshal([]byte(v), &rev); err != nil {
			continue
		}
		out = append(out, rev)
	}
	return out, nil
}

func (r *ReviewRepository) Prepend(ctx context.Context, rev domain.Review, max int64) error {
	b, err := json.Marshal(rev)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, reviewsKey, b)
	pipe.LTrim(ctx, reviewsKey, 0, max-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *ReviewRepository) AcquireSubmitSlot(ctx context.Context, addr string, window time.Duration) (bool, error) {
	return r.rdb.SetNX(ctx, limitKey(addr), 1, window).Result()
}
