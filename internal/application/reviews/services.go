package reviews

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/readtheroom/readtheroom/internal/application"
	domain "github.com/readtheroom/readtheroom/internal/domain/review"
)

const limitWindow = time.Hour

// Service implements use-cases untuk Review.
type Service struct {
	Repo   domain.Repository
	Clock  application.Clock
	Logger *slog.Logger
}

// Submit validates and stores one review. Rules, in order:
// field validation (no side effects on failure), one submission per
// originating address per hour, then a case-insensitive duplicate check
// against the visible window. Duplicates report success without being
// stored so the anti-spam check stays invisible to the submitter.
func (s *Service) Submit(ctx context.Context, addr string, stars int, text, name string) error {
	if stars < 1 || stars > 5 {
		return domain.ErrInvalidStars
	}

	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < domain.MinTextLen || n > domain.MaxTextLen {
		return domain.ErrInvalidText
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultName
	}
	if runes := []rune(name); len(runes) > domain.MaxNameLen {
		name = string(runes[:domain.MaxNameLen])
	}

	ok, err := s.Repo.AcquireSubmitSlot(ctx, addr, limitWindow)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrRateLimited
	}

	recent, err := s.Repo.Recent(ctx, domain.MaxStored)
	if err != nil {
		return err
	}
	for _, r := range recent {
		if strings.EqualFold(r.Text, text) {
			s.Logger.Info("duplicate review dropped", slog.String("addr", addr))
			return nil
		}
	}

	return s.Repo.Prepend(ctx, domain.Review{
		Name:      name,
		Text:      text,
		Stars:     stars,
		CreatedAt: s.Clock.Now(),
	}, domain.MaxStored)
}

// List returns up to the 50 most recent reviews, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Review, error) {
	return s.Repo.Recent(ctx, domain.MaxStored)
}
