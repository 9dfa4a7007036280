package upstream

import (
	"math"
	"strconv"
	"strings"
	"time"

	"staybook/internal/domain"
)

// Upstream payloads are loose: ids arrive as "_id" or "id" and numbers
// sometimes as strings.

type wireHotel struct {
	ID            string             `json:"id"`
	MongoID       string             `json:"_id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	City          string             `json:"city"`
	Country       string             `json:"country"`
	ImageURLs     []string           `json:"imageUrls"`
	Type          string             `json:"type"`
	Facilities    []string           `json:"facilities"`
	StarRating    domain.LooseString `json:"starRating"`
	PricePerNight domain.LooseString `json:"pricePerNight"`
	AdultCount    domain.LooseString `json:"adultCount"`
	ChildCount    domain.LooseString `json:"childCount"`
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

// toDomain drops records without an id or name.
func (w wireHotel) toDomain() (domain.Hotel, bool) {
	id := firstNonEmpty(w.MongoID, w.ID)
	name := strings.TrimSpace(w.Name)
	if id == "" || name == "" {
		return domain.Hotel{}, false
	}
	imgs := w.ImageURLs
	if imgs == nil {
		imgs = []string{}
	}
	return domain.Hotel{
		ID:            id,
		Name:          name,
		Description:   w.Description,
		City:          w.City,
		Country:       w.Country,
		ImageURLs:     imgs,
		Type:          strings.TrimSpace(w.Type),
		Facilities:    domain.NormalizeSet(w.Facilities),
		StarRating:    clampStars(domain.ParseCount(string(w.StarRating))),
		PricePerNight: parsePrice(string(w.PricePerNight)),
		AdultCount:    domain.ParseCount(string(w.AdultCount)),
		ChildCount:    domain.ParseCount(string(w.ChildCount)),
	}, true
}

type wireBooking struct {
	ID         string             `json:"id"`
	MongoID    string             `json:"_id"`
	UserID     string             `json:"userId"`
	FirstName  string             `json:"firstName"`
	LastName   string             `json:"lastName"`
	Email      string             `json:"email"`
	AdultCount domain.LooseString `json:"adultCount"`
	ChildCount domain.LooseString `json:"childCount"`
	CheckIn    string             `json:"checkIn"`
	CheckOut   string             `json:"checkOut"`
	TotalCost  domain.LooseString `json:"totalCost"`
}

func (w wireBooking) toDomain(hotelID string) (domain.Booking, bool) {
	id := firstNonEmpty(w.MongoID, w.ID)
	in, okIn := parseTime(w.CheckIn)
	out, okOut := parseTime(w.CheckOut)
	if id == "" || !okIn || !okOut {
		return domain.Booking{}, false
	}
	return domain.Booking{
		ID:         id,
		HotelID:    hotelID,
		UserID:     w.UserID,
		FirstName:  w.FirstName,
		LastName:   w.LastName,
		Email:      w.Email,
		AdultCount: domain.ParseCount(string(w.AdultCount)),
		ChildCount: domain.ParseCount(string(w.ChildCount)),
		CheckIn:    in,
		CheckOut:   out,
		TotalCost:  parsePrice(string(w.TotalCost)),
	}, true
}

// parsePrice: non-negative finite number, "1,250.50" tolerated, anything else 0.
func parsePrice(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func clampStars(n int) int {
	switch {
	case n < 1:
		return 1
	case n > 5:
		return 5
	}
	return n
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
