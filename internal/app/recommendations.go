package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
	"staybook/internal/recommend"
)

var (
	// ErrNoPreferences: the user has nothing saved, so there is nothing to rank against.
	ErrNoPreferences = errors.New("no recommendations available")
	// ErrUnavailable marks a retryable collaborator failure.
	ErrUnavailable = errors.New("recommendations temporarily unavailable")
)

// HotelLister is the part of the catalog the recommender needs.
type HotelLister interface {
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
}

type RecommendationService struct {
	hotels HotelLister
	prefs  domain.PreferenceStore
}

func NewRecommendationService(h HotelLister, p domain.PreferenceStore) *RecommendationService {
	return &RecommendationService{hotels: h, prefs: p}
}

// Recommend fetches the catalog and the user's preferences concurrently and
// ranks the catalog once both are in. Nothing is scored if either fetch fails.
func (s *RecommendationService) Recommend(ctx context.Context, sess domain.Session) ([]domain.ScoredHotel, error) {
	var (
		hotels []domain.Hotel
		prefs  domain.Preferences
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hs, err := s.hotels.ListHotels(gctx)
		if err != nil {
			return fmt.Errorf("%w: list hotels: %w", ErrUnavailable, err)
		}
		hotels = hs
		return nil
	})
	g.Go(func() error {
		p, err := s.prefs.GetPreferences(gctx, sess)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return ErrNoPreferences
		case err != nil:
			return fmt.Errorf("%w: get preferences: %w", ErrUnavailable, err)
		}
		prefs = p
		return nil
	})
	if err := g.Wait(); err != nil {
		switch {
		case errors.Is(err, ErrNoPreferences):
			observability.ObserveRecommendation("no_preferences", 0)
		default:
			observability.ObserveRecommendation("unavailable", 0)
			log.Warn().Str("user", sess.UserID).Err(err).Msg("recommendation inputs unavailable")
		}
		return nil, err
	}

	ranked, err := recommend.Rank(hotels, prefs)
	if err != nil {
		observability.ObserveRecommendation("error", 0)
		log.Error().Str("user", sess.UserID).Err(err).Msg("rank failed")
		return nil, err
	}

	outcome := "ok"
	if len(ranked) == 0 {
		outcome = "empty"
	}
	observability.ObserveRecommendation(outcome, len(ranked))
	log.Debug().
		Str("user", sess.UserID).
		Int("catalog", len(hotels)).
		Int("results", len(ranked)).
		Msg("recommendations ranked")
	return ranked, nil
}
