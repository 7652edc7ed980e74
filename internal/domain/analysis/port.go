package analysis

import (
	"context"
	"encoding/json"
	"time"
)

// Analyzer port (interface untuk model eksternal).
// Analyze never fails: any model or parsing error is converted into a
// complete fallback Result whose Roast starts with "Internal Error:".
type Analyzer interface {
	Analyze(ctx context.Context, chatText string) Result
}

// Repository port (interface untuk persistence di KV store)
type Repository interface {
	SaveAnalysis(ctx context.Context, id string, rec StoredAnalysis, ttl time.Duration) error
	GetAnalysis(ctx context.Context, id string) (*StoredAnalysis, error)

	SaveShare(ctx context.Context, id string, payload json.RawMessage, ttl time.Duration) error
	GetShare(ctx context.Context, id string) (json.RawMessage, error)
}
