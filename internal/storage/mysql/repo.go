package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"staybook/internal/domain"
)

// valStr maps "" to NULL.
func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// valJSON marshals a string list, nil becoming "[]" so JSON columns stay valid.
func valJSON(xs []string) string {
	if xs == nil {
		xs = []string{}
	}
	b, _ := json.Marshal(xs)
	return string(b)
}

func scanJSON(b []byte) []string {
	out := []string{}
	if len(b) > 0 {
		_ = json.Unmarshal(b, &out)
	}
	return out
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- catalog ----

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.Name,
		valStr(h.Description),
		valStr(h.City),
		valStr(h.Country),
		valJSON(h.ImageURLs),
		h.Type,
		valJSON(h.Facilities),
		h.StarRating,
		h.PricePerNight,
		h.AdultCount,
		h.ChildCount,
	)
	return err
}

func (r *Repo) DeleteHotel(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanHotel(row rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var desc, city, country sql.NullString
	var imgs, facs []byte
	if err := row.Scan(
		&h.ID, &h.Name, &desc, &city, &country,
		&imgs, &h.Type, &facs,
		&h.StarRating, &h.PricePerNight, &h.AdultCount, &h.ChildCount,
	); err != nil {
		return domain.Hotel{}, err
	}
	h.Description = desc.String
	h.City = city.String
	h.Country = country.String
	h.ImageURLs = scanJSON(imgs)
	h.Facilities = scanJSON(facs)
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

func (r *Repo) UpsertBookings(ctx context.Context, bs []domain.Booking) error {
	if len(bs) == 0 {
		return nil
	}
	values := make([]string, 0, len(bs))
	args := make([]any, 0, len(bs)*11)
	for _, b := range bs {
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			b.ID,
			b.HotelID,
			valStr(b.UserID),
			b.FirstName,
			b.LastName,
			b.Email,
			b.AdultCount,
			b.ChildCount,
			b.CheckIn.UTC(),
			b.CheckOut.UTC(),
			b.TotalCost,
		)
	}
	q := insertBookingsPrefix + strings.Join(values, ",") + insertBookingsOnDup
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *Repo) ListBookings(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		var userID sql.NullString
		if err := rows.Scan(
			&b.ID, &b.HotelID, &userID, &b.FirstName, &b.LastName, &b.Email,
			&b.AdultCount, &b.ChildCount, &b.CheckIn, &b.CheckOut, &b.TotalCost,
		); err != nil {
			return nil, err
		}
		b.UserID = userID.String
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- preferences ----

func (r *Repo) GetPreferences(ctx context.Context, s domain.Session) (domain.Preferences, error) {
	var p domain.Preferences
	var types, facs []byte
	var priceRange string
	err := r.db.QueryRowContext(ctx, getPreferencesSQL, s.UserID).Scan(
		&types, &facs, &p.StarRating, &priceRange, &p.Guests.Adults, &p.Guests.Children,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Preferences{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Preferences{}, err
	}
	p.Types = scanJSON(types)
	p.Facilities = scanJSON(facs)
	p.PriceRange = domain.PriceRange(priceRange)
	return p, nil
}

func (r *Repo) SetPreferences(ctx context.Context, s domain.Session, p domain.Preferences) error {
	if s.UserID == "" {
		return fmt.Errorf("set preferences: %w", domain.ErrUnauthorized)
	}
	_, err := r.db.ExecContext(ctx, upsertPreferencesSQL,
		s.UserID,
		valJSON(p.Types),
		valJSON(p.Facilities),
		p.StarRating,
		string(p.PriceRange),
		p.Guests.Adults,
		p.Guests.Children,
	)
	return err
}

// ---- users ----

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, getUserByEmailSQL, strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}

func (r *Repo) UpsertUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, upsertUserSQL,
		u.ID, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, u.Role)
	return err
}
