// Package recommend scores hotels against a user's saved preferences and
// ranks the ones that match well enough.
package recommend

import (
	"errors"
	"sort"

	"staybook/internal/domain"
)

// Weights. MaxPossibleScore and MatchScore must agree on them or the
// percentage means nothing.
const (
	TypeWeight     = 20
	FacilityWeight = 5
	StarWeight     = 10
	StarStep       = 2
	PriceWeight    = 15
	GuestWeight    = 10

	MinimumMatchPercentage = 50

	LowPriceCeiling = 100.0
	MidPriceCeiling = 300.0
)

var ErrCannotCompute = errors.New("cannot compute recommendations")

// MaxPossibleScore is the normalization denominator for prefs. The type term
// is granted for having any preferred type at all.
func MaxPossibleScore(prefs domain.Preferences) int {
	total := 0
	if len(prefs.Types) > 0 {
		total += TypeWeight
	}
	total += FacilityWeight * len(set(prefs.Facilities))
	total += StarWeight
	total += PriceWeight
	total += GuestWeight
	return total
}

func MatchScore(h domain.Hotel, prefs domain.Preferences) int {
	return typeScore(h, prefs) +
		facilityScore(h, prefs) +
		starScore(h, prefs) +
		priceScore(h, prefs) +
		guestScore(h, prefs)
}

func typeScore(h domain.Hotel, prefs domain.Preferences) int {
	for _, t := range prefs.Types {
		if t == h.Type {
			return TypeWeight
		}
	}
	return 0
}

func facilityScore(h domain.Hotel, prefs domain.Preferences) int {
	want := set(prefs.Facilities)
	n := 0
	for f := range set(h.Facilities) {
		if _, ok := want[f]; ok {
			n++
		}
	}
	return FacilityWeight * n
}

// starScore decays linearly with distance. A StarRating of 0 means no usable
// star preference and scores 0 outright instead of being fed to the distance
// formula (which would give a 0-star "preference" 8 points against a 1-star
// hotel): an unset preference counts as a non-match.
func starScore(h domain.Hotel, prefs domain.Preferences) int {
	if prefs.StarRating <= 0 {
		return 0
	}
	d := prefs.StarRating - h.StarRating
	if d < 0 {
		d = -d
	}
	if s := StarWeight - StarStep*d; s > 0 {
		return s
	}
	return 0
}

func priceScore(h domain.Hotel, prefs domain.Preferences) int {
	if InPriceRange(prefs.PriceRange, h.PricePerNight) {
		return PriceWeight
	}
	return 0
}

func guestScore(h domain.Hotel, prefs domain.Preferences) int {
	if h.AdultCount >= prefs.Guests.Adults && h.ChildCount >= prefs.Guests.Children {
		return GuestWeight
	}
	return 0
}

// InPriceRange reports whether price falls in band r. Unknown bands never match.
func InPriceRange(r domain.PriceRange, price float64) bool {
	switch r {
	case domain.PriceLow:
		return price <= LowPriceCeiling
	case domain.PriceMid:
		return price > LowPriceCeiling && price <= MidPriceCeiling
	case domain.PriceHigh:
		return price > MidPriceCeiling
	}
	return false
}

// MatchPercentage returns round(100*score/maxScore), rounding halves up.
func MatchPercentage(score, maxScore int) (int, error) {
	if maxScore <= 0 {
		return 0, ErrCannotCompute
	}
	if score < 0 {
		score = 0
	}
	return (200*score + maxScore) / (2 * maxScore), nil
}

// Rank scores every hotel, drops those under MinimumMatchPercentage and
// orders the rest by percentage, highest first. Ties keep catalog order.
func Rank(hotels []domain.Hotel, prefs domain.Preferences) ([]domain.ScoredHotel, error) {
	maxScore := MaxPossibleScore(prefs)
	if maxScore <= 0 {
		return nil, ErrCannotCompute
	}

	out := make([]domain.ScoredHotel, 0, len(hotels))
	for _, h := range hotels {
		score := MatchScore(h, prefs)
		pct, err := MatchPercentage(score, maxScore)
		if err != nil {
			return nil, err
		}
		if pct < MinimumMatchPercentage {
			continue
		}
		out = append(out, domain.ScoredHotel{Hotel: h, Score: score, MatchPercentage: pct})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	return out, nil
}

func set(xs []string) map[string]struct{} {
	m := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		m[x] = struct{}{}
	}
	return m
}
