package cart

import (
	"log/slog"
	"net/http"
	"time"
)

// Store binds carts to a single browser session via one signed cookie. The
// cart is read once per request and written back in full; concurrent tabs
// race last-write-wins, which is acceptable for pre-order state.
type Store struct {
	codec      *Codec
	cookieName string
	maxAge     time.Duration
	currency   string
}

func NewStore(codec *Codec, cookieName string, maxAgeDays int, currency string) *Store {
	return &Store{
		codec:      codec,
		cookieName: cookieName,
		maxAge:     time.Duration(maxAgeDays) * 24 * time.Hour,
		currency:   currency,
	}
}

// Get returns the session's cart for tenantSlug. A cart held for a
// different tenant is discarded and replaced with an empty one, so carts
// never leak across tenants.
func (s *Store) Get(r *http.Request, tenantSlug string) *Cart {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return New(tenantSlug, s.currency)
	}

	c, err := s.codec.Decode(cookie.Value)
	if err != nil {
		slog.Debug("discarding unreadable cart cookie", "error", err)
		return New(tenantSlug, s.currency)
	}

	if c.TenantSlug != tenantSlug {
		return New(tenantSlug, s.currency)
	}
	if c.Currency == "" {
		c.Currency = s.currency
	}
	return c
}

// Save writes the cart back as a single Set-Cookie.
func (s *Store) Save(w http.ResponseWriter, c *Cart) error {
	value, err := s.codec.Encode(c)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the cart cookie.
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
