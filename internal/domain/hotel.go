package domain

import "time"

type Hotel struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	City          string   `json:"city,omitempty"`
	Country       string   `json:"country,omitempty"`
	ImageURLs     []string `json:"imageUrls"`
	Type          string   `json:"type"`
	Facilities    []string `json:"facilities"`
	StarRating    int      `json:"starRating"`
	PricePerNight float64  `json:"pricePerNight"`
	AdultCount    int      `json:"adultCount"`
	ChildCount    int      `json:"childCount"`
}

type Booking struct {
	ID         string    `json:"id"`
	HotelID    string    `json:"hotelId"`
	UserID     string    `json:"userId,omitempty"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	AdultCount int       `json:"adultCount"`
	ChildCount int       `json:"childCount"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	TotalCost  float64   `json:"totalCost"`
}

// HotelBookings is a hotel together with the bookings made against it
// (admin booking viewer).
type HotelBookings struct {
	Hotel
	Bookings []Booking `json:"bookings"`
}

// ScoredHotel is a hotel annotated with its match against one Preferences
// value. It is derived per request and never persisted.
type ScoredHotel struct {
	Hotel
	Score           int `json:"score"`
	MatchPercentage int `json:"matchPercentage"`
}

// Known vocabularies offered by the preferences form. They are informational:
// scoring compares strings as-is.
var (
	HotelTypes = []string{
		"Budget", "Boutique", "Luxury", "Ski Resort", "Business", "Family", "Romantic",
		"Hiking Resort", "Cabin", "Beach Resort", "Golf Resort", "Motel", "All Inclusive",
		"Pet Friendly", "Self Catering",
	}
	Facilities = []string{
		"Free WiFi", "Parking", "Airport Shuttle", "Family Rooms", "Non-Smoking Rooms",
		"Outdoor Pool", "Spa", "Fitness Center",
	}
)
