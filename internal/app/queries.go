package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"staybook/internal/domain"
)

const hotelsCacheKey = "hotels:all"

func hotelCacheKey(id string) string { return fmt.Sprintf("hotel:%s", id) }

// CatalogQueries is the read side of the catalog, fronted by the cache.
type CatalogQueries struct {
	catalog        domain.CatalogService
	cache          domain.Cache
	cacheTTL       time.Duration
	bookingWorkers int
}

func NewCatalogQueries(c domain.CatalogService, cache domain.Cache, ttl time.Duration, bookingWorkers int) *CatalogQueries {
	if bookingWorkers <= 0 {
		bookingWorkers = 4
	}
	return &CatalogQueries{catalog: c, cache: cache, cacheTTL: ttl, bookingWorkers: bookingWorkers}
}

func (s *CatalogQueries) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, hotelsCacheKey, &out); ok {
			return out, nil
		}
	}
	hs, err := s.catalog.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	// copy so callers can't mutate what the cache (or a fake repo) holds
	out = make([]domain.Hotel, len(hs))
	copy(out, hs)
	if s.cache != nil {
		_ = s.cache.Set(ctx, hotelsCacheKey, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *CatalogQueries) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelCacheKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.catalog.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

// ListBookings returns ErrNotFound for an unknown hotel rather than an empty list.
func (s *CatalogQueries) ListBookings(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	if _, err := s.GetHotel(ctx, hotelID); err != nil {
		return nil, err
	}
	return s.catalog.ListBookings(ctx, hotelID)
}

// HotelsWithBookings fetches each hotel's bookings with bounded concurrency
// and keeps, in catalog order, only hotels that have at least one.
func (s *CatalogQueries) HotelsWithBookings(ctx context.Context) ([]domain.HotelBookings, error) {
	hotels, err := s.ListHotels(ctx)
	if err != nil {
		return nil, err
	}

	perHotel := make([][]domain.Booking, len(hotels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.bookingWorkers)
	for i, h := range hotels {
		g.Go(func() error {
			bs, err := s.catalog.ListBookings(gctx, h.ID)
			if err != nil {
				return fmt.Errorf("bookings for %s: %w", h.ID, err)
			}
			perHotel[i] = bs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := []domain.HotelBookings{}
	for i, h := range hotels {
		if len(perHotel[i]) == 0 {
			continue
		}
		out = append(out, domain.HotelBookings{Hotel: h, Bookings: perHotel[i]})
	}
	return out, nil
}
