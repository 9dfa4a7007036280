package app_test

import (
	"context"
	"encoding/json"
	"sync"

	"staybook/internal/domain"
)

// ---- fakes ----

type fakeCatalog struct {
	mu       sync.Mutex
	hotels   []domain.Hotel
	bookings map[string][]domain.Booking

	listErr     error
	bookingsErr error
	listCalls   int
}

func (f *fakeCatalog) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Hotel(nil), f.hotels...), nil
}

func (f *fakeCatalog) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.hotels {
		if h.ID == id {
			return h, nil
		}
	}
	return domain.Hotel{}, domain.ErrNotFound
}

func (f *fakeCatalog) ListBookings(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookingsErr != nil {
		return nil, f.bookingsErr
	}
	return f.bookings[hotelID], nil
}

func (f *fakeCatalog) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.hotels {
		if f.hotels[i].ID == h.ID {
			f.hotels[i] = h
			return nil
		}
	}
	f.hotels = append(f.hotels, h)
	return nil
}

func (f *fakeCatalog) UpsertBookings(ctx context.Context, bs []domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookings == nil {
		f.bookings = map[string][]domain.Booking{}
	}
	for _, b := range bs {
		f.bookings[b.HotelID] = append(f.bookings[b.HotelID], b)
	}
	return nil
}

func (f *fakeCatalog) DeleteHotel(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.hotels {
		if f.hotels[i].ID == id {
			f.hotels = append(f.hotels[:i], f.hotels[i+1:]...)
			delete(f.bookings, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeCache stores JSON like the redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

type fakePrefs struct {
	mu     sync.Mutex
	byUser map[string]domain.Preferences
	err    error
}

func (f *fakePrefs) GetPreferences(ctx context.Context, s domain.Session) (domain.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Preferences{}, f.err
	}
	p, ok := f.byUser[s.UserID]
	if !ok {
		return domain.Preferences{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePrefs) SetPreferences(ctx context.Context, s domain.Session, p domain.Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.byUser == nil {
		f.byUser = map[string]domain.Preferences{}
	}
	f.byUser[s.UserID] = p
	return nil
}

type fakeUsers struct {
	byEmail map[string]domain.User
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

type fakeUpstream struct {
	hotels      []domain.Hotel
	hotelsErr   error
	bookings    map[string][]domain.Booking
	bookingErrs map[string]error
}

func (f *fakeUpstream) FetchHotels(ctx context.Context) ([]domain.Hotel, error) {
	return f.hotels, f.hotelsErr
}

func (f *fakeUpstream) FetchBookings(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	if err := f.bookingErrs[hotelID]; err != nil {
		return nil, err
	}
	return f.bookings[hotelID], nil
}
