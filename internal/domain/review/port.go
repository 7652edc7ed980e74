package review

import (
	"context"
	"time"
)

// Repository port (interface untuk review storage + rate limiting)
type Repository interface {
	// Recent returns up to limit reviews, newest first.
	Recent(ctx context.Context, limit int64) ([]Review, error)
	// Prepend pushes a review to the front and trims the list to max entries.
	Prepend(ctx context.Context, r Review, max int64) error
	// AcquireSubmitSlot reserves the per-address slot for the window.
	// Returns false when a submission already happened inside the window.
	AcquireSubmitSlot(ctx context.Context, addr string, window time.Duration) (bool, error)
}
