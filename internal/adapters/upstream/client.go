// internal/adapters/upstream/client.go
package upstream

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
)

// Client reads the hotel catalog from an upstream Catalog Service.
type Client struct {
	base   string
	hc     *http.Client
	key    string
	cookie string
	rl     *rate.Limiter
	cb     *gobreaker.CircuitBreaker[struct{}]
}

type Options struct {
	APIKey        string
	SessionCookie string // value of the upstream auth_token cookie
	RPS           int
	Timeout       time.Duration
}

func New(base string, opts Options) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("upstream base URL: %w", err)
	}
	if opts.RPS <= 0 {
		opts.RPS = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		hc:     &http.Client{Timeout: opts.Timeout},
		key:    opts.APIKey,
		cookie: opts.SessionCookie,
		rl:     rate.NewLimiter(rate.Limit(opts.RPS), opts.RPS),
		cb: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "upstream-catalog",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 5 },
			// a missing resource is an answer, not an outage
			IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, ErrNotFound) },
		}),
	}, nil
}

// ---- Public API (tries current endpoints first, falls back to legacy variants) ----

func (c *Client) FetchHotels(ctx context.Context) ([]domain.Hotel, error) {
	candidates := []string{
		c.base + "/hotels",
		c.base + "/my-hotels", // legacy admin listing
	}
	var out []wireHotel
	if err := c.getFirst(ctx, "hotels", candidates, &out); err != nil {
		return nil, err
	}
	hotels := make([]domain.Hotel, 0, len(out))
	for _, w := range out {
		if h, ok := w.toDomain(); ok {
			hotels = append(hotels, h)
		}
	}
	return hotels, nil
}

func (c *Client) FetchBookings(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	id := url.PathEscape(hotelID)
	candidates := []string{
		fmt.Sprintf("%s/hotels/%s/bookings", c.base, id),
		fmt.Sprintf("%s/my-hotels/%s/bookings", c.base, id),
	}
	var out []wireBooking
	if err := c.getFirst(ctx, "bookings", candidates, &out); err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0, len(out))
	for _, w := range out {
		if b, ok := w.toDomain(hotelID); ok {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

// ---- Internals ----

var (
	ErrNotFound     = fmt.Errorf("upstream: %w", domain.ErrNotFound)
	ErrUnauthorized = fmt.Errorf("upstream: %w", domain.ErrUnauthorized)
	ErrForbidden    = fmt.Errorf("upstream: %w", domain.ErrForbidden)
)

func (c *Client) getFirst(ctx context.Context, endpoint string, urls []string, out any) error {
	var last error
	for _, u := range urls {
		if err := c.get(ctx, endpoint, u, out); err != nil {
			if errors.Is(err, ErrNotFound) {
				last = err
				continue // try next pattern
			}
			return err // non-404: stop early
		}
		return nil // success
	}
	if last != nil {
		return last
	}
	return errors.New("no candidate URL succeeded")
}

// get runs one logical GET through the circuit breaker.
func (c *Client) get(ctx context.Context, endpoint, url string, out any) error {
	_, err := c.cb.Execute(func() (struct{}, error) {
		return struct{}{}, c.do(ctx, endpoint, url, out)
	})
	return err
}

// do performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) do(ctx context.Context, endpoint, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		if c.cookie != "" {
			req.AddCookie(&http.Cookie{Name: "auth_token", Value: c.cookie})
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "staybook-importer/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("upstream", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("upstream", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode %s: %w", endpoint, err)
			}
			return nil

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("upstream %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff: 200ms, 400ms, 800ms... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
