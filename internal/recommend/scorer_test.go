package recommend_test

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"staybook/internal/domain"
	"staybook/internal/recommend"
)

func luxuryPrefs() domain.Preferences {
	return domain.Preferences{
		Types:      []string{"Luxury"},
		Facilities: []string{"Spa"},
		StarRating: 5,
		PriceRange: domain.PriceHigh,
		Guests:     domain.Guests{Adults: 2, Children: 0},
	}
}

func TestMaxPossibleScore(t *testing.T) {
	if got := recommend.MaxPossibleScore(domain.Preferences{}); got != 35 {
		t.Fatalf("empty prefs: got %d, want 35", got)
	}
	if got := recommend.MaxPossibleScore(luxuryPrefs()); got != 60 {
		t.Fatalf("luxury prefs: got %d, want 60", got)
	}
	p := domain.Preferences{Types: []string{"A", "B", "C"}, Facilities: []string{"Spa", "Parking", "Free WiFi"}}
	if got := recommend.MaxPossibleScore(p); got != 20+15+35 {
		t.Fatalf("got %d, want 70", got)
	}
}

func TestMatchScore_PerfectLuxury(t *testing.T) {
	h := domain.Hotel{
		Type: "Luxury", Facilities: []string{"Spa", "Parking"}, StarRating: 5,
		PricePerNight: 350, AdultCount: 2, ChildCount: 1,
	}
	if got := recommend.MatchScore(h, luxuryPrefs()); got != 60 {
		t.Fatalf("score: got %d, want 60", got)
	}
	out, err := recommend.Rank([]domain.Hotel{h}, luxuryPrefs())
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(out) != 1 || out[0].MatchPercentage != 100 || out[0].Score != 60 {
		t.Fatalf("unexpected ranking: %+v", out)
	}
}

func TestMatchScore_PoorBudget(t *testing.T) {
	h := domain.Hotel{
		Type: "Budget", Facilities: []string{"Free WiFi"}, StarRating: 1,
		PricePerNight: 50, AdultCount: 2, ChildCount: 1,
	}
	if got := recommend.MatchScore(h, luxuryPrefs()); got != 12 {
		t.Fatalf("score: got %d, want 12", got)
	}
	pct, err := recommend.MatchPercentage(12, 60)
	if err != nil || pct != 20 {
		t.Fatalf("pct: got %d (%v), want 20", pct, err)
	}
	out, err := recommend.Rank([]domain.Hotel{h}, luxuryPrefs())
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected budget hotel to be filtered out, got %+v", out)
	}
}

func TestTypeComponent(t *testing.T) {
	p := domain.Preferences{Types: []string{"Cabin", "Motel"}}
	base := domain.Hotel{AdultCount: -1} // keeps guest points out of the way
	in, out := base, base
	in.Type, out.Type = "Motel", "Luxury"
	if d := recommend.MatchScore(in, p) - recommend.MatchScore(out, p); d != recommend.TypeWeight {
		t.Fatalf("type component: got %d, want %d", d, recommend.TypeWeight)
	}
}

func TestFacilityComponent_CountsDistinctMatches(t *testing.T) {
	p := domain.Preferences{Facilities: []string{"Spa", "Parking"}}
	h := domain.Hotel{Facilities: []string{"Spa", "Spa", "Parking", "Outdoor Pool"}, AdultCount: -1}
	if got := recommend.MatchScore(h, p); got != 10 {
		t.Fatalf("got %d, want 10", got)
	}
}

func TestStarComponent(t *testing.T) {
	for pref := 1; pref <= 5; pref++ {
		prev := 11
		for d := 0; d <= 6; d++ {
			up := starOnly(pref, pref+d)
			down := starOnly(pref, pref-d)
			if up != down {
				t.Fatalf("pref %d distance %d not symmetric: %d vs %d", pref, d, up, down)
			}
			if up > prev {
				t.Fatalf("pref %d distance %d increased: %d > %d", pref, d, up, prev)
			}
			prev = up
			switch {
			case d == 0 && up != 10:
				t.Fatalf("exact match should score 10, got %d", up)
			case d >= 5 && up != 0:
				t.Fatalf("distance %d should score 0, got %d", d, up)
			}
		}
	}
}

func TestStarComponent_NoPreference(t *testing.T) {
	if got := starOnly(0, 1); got != 0 {
		t.Fatalf("unset star preference must not score, got %d", got)
	}
}

func TestStarComponent_EmptyFormValue(t *testing.T) {
	// "" from the form parses to 0; against a 1-star hotel the raw distance
	// formula would give 8
	p := domain.PreferencesPayload{StarRating: ""}.Preferences()
	if p.StarRating != 0 {
		t.Fatalf("parsed star = %d, want 0", p.StarRating)
	}
	if got := starOnly(p.StarRating, 1); got != 0 {
		t.Fatalf("empty star preference scored %d, want 0", got)
	}
}

func starOnly(pref, hotel int) int {
	p := domain.Preferences{StarRating: pref}
	h := domain.Hotel{StarRating: hotel, AdultCount: -1}
	return recommend.MatchScore(h, p)
}

func TestInPriceRange(t *testing.T) {
	cases := []struct {
		r     domain.PriceRange
		price float64
		want  bool
	}{
		{domain.PriceLow, 0, true},
		{domain.PriceLow, 100, true},
		{domain.PriceLow, 100.01, false},
		{domain.PriceMid, 100, false},
		{domain.PriceMid, 100.5, true},
		{domain.PriceMid, 300, true},
		{domain.PriceMid, 301, false},
		{domain.PriceHigh, 300, false},
		{domain.PriceHigh, 300.01, true},
		{"100-300", 200, false},
		{"", 50, false},
	}
	for _, c := range cases {
		if got := recommend.InPriceRange(c.r, c.price); got != c.want {
			t.Errorf("InPriceRange(%q, %v) = %v, want %v", c.r, c.price, got, c.want)
		}
	}
}

func TestGuestComponent_NoPartialCredit(t *testing.T) {
	p := domain.Preferences{Guests: domain.Guests{Adults: 2, Children: 2}}
	if got := recommend.MatchScore(domain.Hotel{AdultCount: 4, ChildCount: 1}, p); got != 0 {
		t.Fatalf("too few child places: got %d", got)
	}
	if got := recommend.MatchScore(domain.Hotel{AdultCount: 2, ChildCount: 2}, p); got != recommend.GuestWeight {
		t.Fatalf("exact capacity: got %d", got)
	}
}

func TestMatchPercentage(t *testing.T) {
	cases := []struct{ score, max, want int }{
		{0, 35, 0},
		{35, 35, 100},
		{7, 40, 18}, // 17.5 rounds up
		{21, 40, 53},
		{30, 60, 50},
	}
	for _, c := range cases {
		got, err := recommend.MatchPercentage(c.score, c.max)
		if err != nil || got != c.want {
			t.Errorf("MatchPercentage(%d, %d) = %d, %v; want %d", c.score, c.max, got, err, c.want)
		}
	}
	if _, err := recommend.MatchPercentage(10, 0); !errors.Is(err, recommend.ErrCannotCompute) {
		t.Fatalf("expected ErrCannotCompute, got %v", err)
	}
}

func TestRank_EmptyCatalog(t *testing.T) {
	out, err := recommend.Rank(nil, luxuryPrefs())
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}

func TestRank_SortedStableAndFiltered(t *testing.T) {
	prefs := luxuryPrefs()
	hotels := []domain.Hotel{
		{ID: "a", Type: "Luxury", StarRating: 4, PricePerNight: 320, AdultCount: 2}, // 20+8+15+10 = 53 -> 88
		{ID: "b", Type: "Budget", StarRating: 1, PricePerNight: 40, AdultCount: 1},  // 2 -> 3
		{ID: "c", Type: "Luxury", Facilities: []string{"Spa"}, StarRating: 5, PricePerNight: 500, AdultCount: 2},
		{ID: "d", Type: "Luxury", StarRating: 4, PricePerNight: 320, AdultCount: 2}, // ties with a
	}
	out, err := recommend.Rank(hotels, prefs)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	var ids []string
	for _, s := range out {
		ids = append(ids, s.ID)
		if s.MatchPercentage < recommend.MinimumMatchPercentage {
			t.Fatalf("entry %s under threshold: %d", s.ID, s.MatchPercentage)
		}
	}
	if want := []string{"c", "a", "d"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("order: got %v, want %v", ids, want)
	}
}

func TestRank_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	types := domain.HotelTypes[:5]
	facs := domain.Facilities
	ranges := []domain.PriceRange{domain.PriceLow, domain.PriceMid, domain.PriceHigh, "weird"}

	pick := func(pool []string) []string {
		var out []string
		for _, v := range pool {
			if rng.Intn(2) == 0 {
				out = append(out, v)
			}
		}
		return out
	}

	for i := 0; i < 200; i++ {
		prefs := domain.Preferences{
			Types:      pick(types),
			Facilities: pick(facs),
			StarRating: rng.Intn(6),
			PriceRange: ranges[rng.Intn(len(ranges))],
			Guests:     domain.Guests{Adults: rng.Intn(4), Children: rng.Intn(3)},
		}
		hotels := make([]domain.Hotel, 25)
		for j := range hotels {
			hotels[j] = domain.Hotel{
				Type:          types[rng.Intn(len(types))],
				Facilities:    pick(facs),
				StarRating:    1 + rng.Intn(5),
				PricePerNight: float64(rng.Intn(600)),
				AdultCount:    rng.Intn(5),
				ChildCount:    rng.Intn(4),
			}
		}

		maxScore := recommend.MaxPossibleScore(prefs)
		for _, h := range hotels {
			if s := recommend.MatchScore(h, prefs); s < 0 || s > maxScore {
				t.Fatalf("score %d out of [0, %d] for %+v / %+v", s, maxScore, h, prefs)
			}
		}

		first, err := recommend.Rank(hotels, prefs)
		if err != nil {
			t.Fatalf("rank: %v", err)
		}
		for k := 1; k < len(first); k++ {
			if first[k-1].MatchPercentage < first[k].MatchPercentage {
				t.Fatalf("not sorted at %d: %d < %d", k, first[k-1].MatchPercentage, first[k].MatchPercentage)
			}
		}
		second, _ := recommend.Rank(hotels, prefs)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("rank is not deterministic")
		}
	}
}
