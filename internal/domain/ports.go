package domain

import "context"

// CatalogService is the hotel catalog: the full list, per-hotel bookings and
// the admin write paths.
type CatalogService interface {
	ListHotels(ctx context.Context) ([]Hotel, error)
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListBookings(ctx context.Context, hotelID string) ([]Booking, error)

	UpsertHotel(ctx context.Context, h Hotel) error
	UpsertBookings(ctx context.Context, bs []Booking) error
	DeleteHotel(ctx context.Context, id string) error
}

// PreferenceStore keeps one Preferences record per user.
// GetPreferences returns ErrNotFound when the user has not saved any yet.
type PreferenceStore interface {
	GetPreferences(ctx context.Context, s Session) (Preferences, error)
	SetPreferences(ctx context.Context, s Session, p Preferences) error
}

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// UpstreamCatalog is a remote Catalog Service the importer copies from.
type UpstreamCatalog interface {
	FetchHotels(ctx context.Context) ([]Hotel, error)
	FetchBookings(ctx context.Context, hotelID string) ([]Booking, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
