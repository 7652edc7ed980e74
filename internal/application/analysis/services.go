package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domain "github.com/readtheroom/readtheroom/internal/domain/analysis"
	"github.com/readtheroom/readtheroom/internal/domain/payments"
	"github.com/readtheroom/readtheroom/internal/domain/pricing"
)

const (
	// Private analyses live 30 days, public shares 10.
	AnalysisTTL = 30 * 24 * time.Hour
	ShareTTL    = 10 * 24 * time.Hour
)

// Service implements use-cases untuk Analysis.
// Stateless per request; safe for concurrent use.
type Service struct {
	Analyzer domain.Analyzer
	Repo     domain.Repository
	Payments payments.Gateway
	Logger   *slog.Logger
}

// Submit runs the analysis, caches it unpaid under a fresh id and returns the
// result with the id attached. A cache write failure is logged and swallowed:
// the user still gets their result, they just cannot retrieve or pay for it later.
func (s *Service) Submit(ctx context.Context, text string) domain.Result {
	id := uuid.New().String()
	result := s.Analyzer.Analyze(ctx, text)

	rec := domain.StoredAnalysis{IsPaid: false, Result: &result}
	if err := s.Repo.SaveAnalysis(ctx, id, rec, AnalysisTTL); err != nil {
		s.Logger.Warn("analysis cache write failed",
			slog.String("analysis_id", id),
			slog.String("error", err.Error()),
		)
	}

	result.AnalysisID = id
	return result
}

// Get returns the stored result merged with the current paid flag.
func (s *Service) Get(ctx context.Context, id string) (domain.Result, error) {
	rec, err := s.Repo.GetAnalysis(ctx, id)
	if err != nil {
		return domain.Result{}, err
	}
	if rec.Result == nil {
		return domain.Result{}, domain.ErrNotFound
	}

	out := *rec.Result
	out.AnalysisID = id
	out.IsPaid = rec.IsPaid
	return out, nil
}

// CreateCheckout verifies the analysis exists, resolves the price for the
// country hint and creates a checkout session. The gateway is never called
// for an unknown analysis id.
func (s *Service) CreateCheckout(ctx context.Context, analysisID, origin, countryHint string) (string, error) {
	if _, err := s.Repo.GetAnalysis(ctx, analysisID); err != nil {
		return "", err
	}

	tier := pricing.Resolve(countryHint)
	return s.Payments.CreateCheckoutSession(ctx, payments.CheckoutParams{
		AnalysisID: analysisID,
		Origin:     origin,
		Tier:       tier,
	})
}

// HandleWebhook verifies and applies one payment-provider event.
// Unrelated event types are acknowledged as no-ops. On checkout completion
// the stored record is rewritten with isPaid:true and a refreshed TTL.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	ev, err := s.Payments.ParseWebhook(payload, sigHeader)
	if err != nil {
		return err
	}

	if ev.Type != payments.EventCheckoutCompleted || ev.AnalysisID == "" {
		return nil
	}

	rec, err := s.Repo.GetAnalysis(ctx, ev.AnalysisID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Expired or never cached; nothing to unlock.
			s.Logger.Warn("payment for unknown analysis",
				slog.String("analysis_id", ev.AnalysisID))
			return nil
		}
		return err
	}

	rec.IsPaid = true
	if err := s.Repo.SaveAnalysis(ctx, ev.AnalysisID, *rec, AnalysisTTL); err != nil {
		// Surface the failure so the provider retries the delivery.
		return err
	}

	s.Logger.Info("payment verified", slog.String("analysis_id", ev.AnalysisID))
	return nil
}

// CreateShare stores an immutable snapshot under a fresh id, 10-day TTL.
// The id is always server-generated so callers cannot overwrite snapshots.
func (s *Service) CreateShare(ctx context.Context, payload json.RawMessage) (string, error) {
	var probe struct {
		VibeHeadline string `json:"vibeHeadline"`
		Roast        string `json:"roast"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return "", domain.ErrInvalidShare
	}
	if probe.VibeHeadline == "" || probe.Roast == "" {
		return "", domain.ErrInvalidShare
	}

	id := uuid.New().String()
	if err := s.Repo.SaveShare(ctx, id, payload, ShareTTL); err != nil {
		return "", err
	}
	return id, nil
}

// GetShare is a plain keyed lookup.
func (s *Service) GetShare(ctx context.Context, id string) (json.RawMessage, error) {
	return s.Repo.GetShare(ctx, id)
}
