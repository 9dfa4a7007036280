package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/internal/app"
	"staybook/internal/auth"
	"staybook/internal/domain"
	"staybook/internal/recommend"
	"staybook/internal/validation"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Catalog         *app.CatalogQueries
	Commands        *app.CatalogCommands
	Preferences     *app.PreferenceService
	Recommendations *app.RecommendationService
	Auth            *app.AuthService

	SessionTTL   time.Duration
	CookieSecure bool
}

type problem struct {
	Type   string                  `json:"type"`
	Title  string                  `json:"title"`
	Status int                     `json:"status"`
	Detail string                  `json:"detail,omitempty"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", h.login)
		r.Post("/auth/logout", h.logout)

		r.Get("/hotels", h.listHotels)
		r.Get("/hotels/{id}", h.getHotel)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(h.Auth))
			r.Get("/auth/validate-token", h.validateToken)
			r.Get("/user-preferences", h.getPreferences)
			r.Post("/user-preferences", h.savePreferences)
			r.Get("/recommendations", h.recommendations)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Post("/hotels", h.createHotel)
				r.Delete("/hotels/{id}", h.deleteHotel)
				r.Get("/hotels/{id}/bookings", h.hotelBookings)
				r.Get("/bookings", h.allBookings)
			})
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		writeProblemBody(w, problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusBadRequest, Detail: ve.Error(), Errors: ve.Fields})
	case errors.Is(err, app.ErrInvalidCredentials):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "a valid session is required")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "")
	case errors.Is(err, app.ErrNoPreferences):
		writeProblem(w, http.StatusNotFound, "Not Found", "no recommendations available: save your preferences first")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "")
	case errors.Is(err, app.ErrUnavailable):
		w.Header().Set("Retry-After", "5")
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "a backing service failed; try again shortly")
	case errors.Is(err, recommend.ErrCannotCompute):
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "cannot compute recommendations")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeCached answers with a weak ETag and honors If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

func mustSession(r *http.Request) domain.Session {
	s, _ := SessionFrom(r.Context())
	return s
}

// ---- auth ----

type sessionView struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in app.Credentials
	if !decodeBody(w, r, &in) {
		return
	}
	sess, tok, err := h.Auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, sessionView{UserID: sess.UserID, Role: sess.Role})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) validateToken(w http.ResponseWriter, r *http.Request) {
	s := mustSession(r)
	writeJSON(w, http.StatusOK, sessionView{UserID: s.UserID, Role: s.Role})
}

// ---- catalog ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Catalog.ListHotels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, hs)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Catalog.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, hotel)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in app.HotelInput
	if !decodeBody(w, r, &in) {
		return
	}
	hotel, err := h.Commands.CreateHotel(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/hotels/"+hotel.ID)
	writeJSON(w, http.StatusCreated, hotel)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	if err := h.Commands.DeleteHotel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) hotelBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Catalog.ListBookings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if bs == nil {
		bs = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) allBookings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.HotelsWithBookings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- preferences & recommendations ----

func (h *Handlers) getPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.Preferences.Get(r.Context(), mustSession(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) savePreferences(w http.ResponseWriter, r *http.Request) {
	var in domain.PreferencesPayload
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := h.Preferences.Save(r.Context(), mustSession(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) recommendations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Recommendations.Recommend(r.Context(), mustSession(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
