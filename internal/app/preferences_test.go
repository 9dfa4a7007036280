package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"staybook/internal/app"
	"staybook/internal/domain"
	"staybook/internal/validation"
)

func decodePayload(t *testing.T, s string) domain.PreferencesPayload {
	t.Helper()
	var p domain.PreferencesPayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return p
}

func TestPreferences_SaveAndGet(t *testing.T) {
	store := &fakePrefs{}
	svc := app.NewPreferenceService(store)

	in := decodePayload(t, `{
		"types": ["Hotel", " Hotel", "Cabin"],
		"facilities": ["Spa"],
		"starRating": "4",
		"priceRange": " MID ",
		"guests": {"adults": "2", "children": ""}
	}`)
	saved, err := svc.Save(context.Background(), alice, in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(saved.Types) != 2 || saved.StarRating != 4 || saved.PriceRange != domain.PriceMid {
		t.Fatalf("unexpected normalization: %+v", saved)
	}
	if saved.Guests != (domain.Guests{Adults: 2, Children: 0}) {
		t.Fatalf("guests = %+v", saved.Guests)
	}

	got, err := svc.Get(context.Background(), alice)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StarRating != 4 || len(got.Facilities) != 1 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestPreferences_SaveRejectsBadGuests(t *testing.T) {
	store := &fakePrefs{}
	svc := app.NewPreferenceService(store)

	_, err := svc.Save(context.Background(), alice, decodePayload(t, `{"guests": {"adults": "-1", "children": "two"}}`))
	var ve *validation.Error
	if !errors.As(err, &ve) {
		t.Fatalf("want validation error, got %v", err)
	}
	if len(ve.Fields) != 2 {
		t.Fatalf("want 2 field errors, got %+v", ve.Fields)
	}
	if _, err := store.GetPreferences(context.Background(), alice); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("invalid preferences must not be stored")
	}
}

func TestPreferences_UnparseableStarsBecomeZero(t *testing.T) {
	svc := app.NewPreferenceService(&fakePrefs{})
	p, err := svc.Save(context.Background(), alice, decodePayload(t, `{"starRating": "3,4,5"}`))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.StarRating != 0 {
		t.Fatalf("starRating = %d, want 0", p.StarRating)
	}
}

func TestPreferences_GetNotFound(t *testing.T) {
	svc := app.NewPreferenceService(&fakePrefs{})
	if _, err := svc.Get(context.Background(), alice); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
