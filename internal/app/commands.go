package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
	"staybook/internal/validation"
)

// HotelInput is the admin "add hotel" form.
type HotelInput struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Description   string   `json:"description" validate:"max=5000"`
	City          string   `json:"city" validate:"max=128"`
	Country       string   `json:"country" validate:"max=128"`
	ImageURLs     []string `json:"imageUrls" validate:"max=6,dive,url"`
	Type          string   `json:"type" validate:"required,max=64"`
	Facilities    []string `json:"facilities" validate:"max=32,dive,required,max=64"`
	StarRating    int      `json:"starRating" validate:"gte=1,lte=5"`
	PricePerNight float64  `json:"pricePerNight" validate:"gte=0"`
	AdultCount    int      `json:"adultCount" validate:"gte=0"`
	ChildCount    int      `json:"childCount" validate:"gte=0"`
}

type CatalogCommands struct {
	catalog domain.CatalogService
	cache   domain.Cache
}

func NewCatalogCommands(c domain.CatalogService, cache domain.Cache) *CatalogCommands {
	return &CatalogCommands{catalog: c, cache: cache}
}

func (s *CatalogCommands) CreateHotel(ctx context.Context, in HotelInput) (domain.Hotel, error) {
	if err := validation.Struct(in); err != nil {
		return domain.Hotel{}, err
	}
	imgs := in.ImageURLs
	if imgs == nil {
		imgs = []string{}
	}
	h := domain.Hotel{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		City:          strings.TrimSpace(in.City),
		Country:       strings.TrimSpace(in.Country),
		ImageURLs:     imgs,
		Type:          strings.TrimSpace(in.Type),
		Facilities:    domain.NormalizeSet(in.Facilities),
		StarRating:    in.StarRating,
		PricePerNight: in.PricePerNight,
		AdultCount:    in.AdultCount,
		ChildCount:    in.ChildCount,
	}
	if err := s.catalog.UpsertHotel(ctx, h); err != nil {
		return domain.Hotel{}, fmt.Errorf("create hotel: %w", err)
	}
	s.invalidate(ctx, h.ID)
	return h, nil
}

// DeleteHotel removes the hotel and, with it, its bookings. Cached copies are
// evicted even when the hotel was already gone.
func (s *CatalogCommands) DeleteHotel(ctx context.Context, id string) error {
	err := s.catalog.DeleteHotel(ctx, id)
	s.invalidate(ctx, id)
	return err
}

func (s *CatalogCommands) invalidate(ctx context.Context, id string) {
	invalidateHotel(ctx, s.cache, id)
}

func invalidateHotel(ctx context.Context, cache domain.Cache, id string) {
	if cache == nil {
		return
	}
	_ = cache.Del(ctx, hotelsCacheKey)
	if id != "" {
		_ = cache.Del(ctx, hotelCacheKey(id))
	}
}

// ---- import from an upstream Catalog Service ----

type ImportReport struct {
	Fetched  int
	Imported int
	Failed   int
	Bookings int
}

type ImportService struct {
	upstream domain.UpstreamCatalog
	catalog  domain.CatalogService
	cache    domain.Cache
	workers  int
}

func NewImportService(u domain.UpstreamCatalog, c domain.CatalogService, cache domain.Cache, workers int) *ImportService {
	if workers <= 0 {
		workers = 8
	}
	return &ImportService{upstream: u, catalog: c, cache: cache, workers: workers}
}

// Import copies every upstream hotel and its bookings. A failing hotel is
// logged and counted; only a failure to list hotels aborts the run.
func (s *ImportService) Import(ctx context.Context) (ImportReport, error) {
	hotels, err := s.upstream.FetchHotels(ctx)
	if err != nil {
		return ImportReport{}, fmt.Errorf("fetch upstream hotels: %w", err)
	}

	rep := ImportReport{Fetched: len(hotels)}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(s.workers))

	for _, h := range hotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break // ctx done
		}
		wg.Add(1)
		go func(h domain.Hotel) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := s.importHotel(ctx, h)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rep.Failed++
				observability.ObserveImport("failed")
				log.Warn().Str("hotel", h.ID).Err(err).Msg("import failed")
				return
			}
			rep.Imported++
			rep.Bookings += n
			observability.ObserveImport("ok")
			log.Debug().Str("hotel", h.ID).Int("bookings", n).Msg("import ok")
		}(h)
	}
	wg.Wait()

	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelsCacheKey)
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

func (s *ImportService) importHotel(ctx context.Context, h domain.Hotel) (int, error) {
	// hotel first: bookings reference it
	if err := s.catalog.UpsertHotel(ctx, h); err != nil {
		return 0, err
	}
	invalidateHotel(ctx, s.cache, h.ID)

	bs, err := s.upstream.FetchBookings(ctx, h.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrForbidden):
		// bookings are best-effort; the hotel itself is in
		log.Info().Str("hotel", h.ID).Err(err).Msg("bookings unavailable upstream")
		return 0, nil
	case err != nil:
		return 0, err
	}
	if err := s.catalog.UpsertBookings(ctx, bs); err != nil {
		return 0, fmt.Errorf("upsert bookings for %s: %w", h.ID, err)
	}
	return len(bs), nil
}
