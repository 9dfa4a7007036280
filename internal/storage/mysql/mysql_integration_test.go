//go:build integration || !unit

package mysql_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"staybook/internal/domain"
	mysqlrepo "staybook/internal/storage/mysql"
	"staybook/internal/testutil/mysqltest"
)

func TestRepo_MySQL_CatalogAndPreferences(t *testing.T) {
	repo := mysqlrepo.New(mysqltest.Start(t))
	ctx := context.Background()

	h := domain.Hotel{
		ID:            "h-10001",
		Name:          "Cliff House",
		Description:   "Quiet rooms above the bay",
		City:          "Galle",
		Country:       "Sri Lanka",
		ImageURLs:     []string{"https://img.example/1.jpg"},
		Type:          "Luxury",
		Facilities:    []string{"Spa", "Parking"},
		StarRating:    5,
		PricePerNight: 350,
		AdultCount:    2,
		ChildCount:    1,
	}
	if err := repo.UpsertHotel(ctx, h); err != nil {
		t.Fatalf("UpsertHotel: %v", err)
	}

	got, err := repo.GetHotel(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if !reflect.DeepEqual(got, h) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, h)
	}

	list, err := repo.ListHotels(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListHotels: %v %+v", err, list)
	}

	checkIn := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	b := domain.Booking{
		ID: "b-1", HotelID: h.ID, FirstName: "Ana", LastName: "Silva", Email: "ana@example.com",
		AdultCount: 2, CheckIn: checkIn, CheckOut: checkIn.Add(72 * time.Hour), TotalCost: 1050,
	}
	if err := repo.UpsertBookings(ctx, []domain.Booking{b}); err != nil {
		t.Fatalf("UpsertBookings: %v", err)
	}
	bs, err := repo.ListBookings(ctx, h.ID)
	if err != nil || len(bs) != 1 || bs[0].Email != "ana@example.com" || !bs[0].CheckIn.Equal(checkIn) {
		t.Fatalf("ListBookings: %v %+v", err, bs)
	}

	// preferences: absent, then saved, then replaced
	sess := domain.Session{UserID: "u-1", Role: domain.RoleUser}
	if _, err := repo.GetPreferences(ctx, sess); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	p := domain.Preferences{
		Types: []string{"Luxury"}, Facilities: []string{"Spa"}, StarRating: 5,
		PriceRange: domain.PriceHigh, Guests: domain.Guests{Adults: 2},
	}
	if err := repo.SetPreferences(ctx, sess, p); err != nil {
		t.Fatalf("SetPreferences: %v", err)
	}
	p.PriceRange = domain.PriceMid
	p.Types = nil
	if err := repo.SetPreferences(ctx, sess, p); err != nil {
		t.Fatalf("SetPreferences (replace): %v", err)
	}
	gp, err := repo.GetPreferences(ctx, sess)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if gp.PriceRange != domain.PriceMid || len(gp.Types) != 0 || gp.StarRating != 5 {
		t.Fatalf("unexpected preferences: %+v", gp)
	}

	// delete cascades to bookings
	if err := repo.DeleteHotel(ctx, h.ID); err != nil {
		t.Fatalf("DeleteHotel: %v", err)
	}
	if err := repo.DeleteHotel(ctx, h.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if bs, _ := repo.ListBookings(ctx, h.ID); len(bs) != 0 {
		t.Fatalf("bookings should be gone, got %+v", bs)
	}
}

func TestRepo_MySQL_Users(t *testing.T) {
	repo := mysqlrepo.New(mysqltest.Start(t))
	ctx := context.Background()

	u := domain.User{ID: "u-9", Email: "Admin@Example.com", PasswordHash: []byte("$2a$12$hash"), Role: domain.RoleAdmin}
	if err := repo.UpsertUser(ctx, u); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	got, err := repo.GetUserByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "u-9" || got.Role != domain.RoleAdmin || string(got.PasswordHash) != "$2a$12$hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
