package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type PriceRange string

const (
	PriceLow  PriceRange = "low"
	PriceMid  PriceRange = "mid"
	PriceHigh PriceRange = "high"
)

// ParsePriceRange normalizes case and whitespace. Unknown values are kept;
// they simply never match a hotel.
func ParsePriceRange(s string) PriceRange {
	return PriceRange(strings.ToLower(strings.TrimSpace(s)))
}

func (r PriceRange) Known() bool {
	switch r {
	case PriceLow, PriceMid, PriceHigh:
		return true
	}
	return false
}

type Guests struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// Preferences is one user's saved recommendation criteria.
// StarRating 0 means "no usable star preference".
type Preferences struct {
	Types      []string   `json:"types"`
	Facilities []string   `json:"facilities"`
	StarRating int        `json:"starRating"`
	PriceRange PriceRange `json:"priceRange"`
	Guests     Guests     `json:"guests"`
}

// UnmarshalJSON accepts the loose shape the preferences form submits
// (numbers as strings, empty strings) and applies the parse-or-zero policy.
func (p *Preferences) UnmarshalJSON(b []byte) error {
	var in PreferencesPayload
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*p = in.Preferences()
	return nil
}

// LooseString holds a JSON string or number in text form.
type LooseString string

func (s *LooseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
		return nil
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = LooseString(n.String())
	return nil
}

type GuestsPayload struct {
	Adults   LooseString `json:"adults" validate:"count"`
	Children LooseString `json:"children" validate:"count"`
}

// PreferencesPayload is the wire form accepted by the preference endpoints.
type PreferencesPayload struct {
	Types      []string      `json:"types" validate:"max=32,dive,required,max=64"`
	Facilities []string      `json:"facilities" validate:"max=32,dive,required,max=64"`
	StarRating LooseString   `json:"starRating" validate:"max=16"`
	PriceRange LooseString   `json:"priceRange" validate:"max=16"`
	Guests     GuestsPayload `json:"guests"`
}

func (in PreferencesPayload) Preferences() Preferences {
	return Preferences{
		Types:      NormalizeSet(in.Types),
		Facilities: NormalizeSet(in.Facilities),
		StarRating: ParseStarRating(string(in.StarRating)),
		PriceRange: ParsePriceRange(string(in.PriceRange)),
		Guests: Guests{
			Adults:   ParseCount(string(in.Guests.Adults)),
			Children: ParseCount(string(in.Guests.Children)),
		},
	}
}

// ParseStarRating returns the integer star preference, or 0 when s is not a
// single positive whole number ("", "3,4,5", "abc", "3.5").
func ParseStarRating(s string) int {
	n, ok := parseWhole(s)
	if !ok || n <= 0 {
		return 0
	}
	return n
}

// ParseCount returns a non-negative guest count, 0 when s is empty or invalid.
func ParseCount(s string) int {
	n, ok := parseWhole(s)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// ValidCount reports whether s is empty or a non-negative whole number.
func ValidCount(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	n, ok := parseWhole(s)
	return ok && n >= 0
}

func parseWhole(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	// "4.0" from a number input
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// NormalizeSet trims entries, drops empties and duplicates, keeps first-seen order.
func NormalizeSet(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
