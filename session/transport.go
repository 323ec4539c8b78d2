package session

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// DefaultCookieName is the refresh cookie name used when Config.CookieName is empty.
const DefaultCookieName = "refresh_token"

// Config controls the refresh cookie.
type Config struct {
	CookieName string
	// Path scopes the cookie to the refresh endpoint.
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	// MaxAge should equal the refresh token lifetime.
	MaxAge time.Duration
}

// Transport places refresh tokens in cookies and reads them back.
type Transport struct {
	config Config
}

// NewTransport validates cfg and returns a Transport.
func NewTransport(cfg Config) (*Transport, error) {
	if strings.TrimSpace(cfg.CookieName) == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.Path == "" || !strings.HasPrefix(cfg.Path, "/") {
		return nil, errors.New("refresh cookie path must be absolute")
	}
	if cfg.MaxAge <= 0 {
		return nil, errors.New("refresh cookie max age must be > 0")
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	if cfg.SameSite == http.SameSiteNoneMode && !cfg.Secure {
		return nil, errors.New("SameSite=None requires Secure cookies")
	}
	return &Transport{config: cfg}, nil
}

// CookieName returns the configured refresh cookie name.
func (t *Transport) CookieName() string { return t.config.CookieName }

// SetRefreshCookie writes the refresh token cookie.
func (t *Transport) SetRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, t.cookie(token, int(t.config.MaxAge/time.Second)))
}

// ClearRefreshCookie deletes the refresh cookie. The path must match the one
// used when setting it or browsers keep the original.
func (t *Transport) ClearRefreshCookie(w http.ResponseWriter) {
	c := t.cookie("", -1)
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

// RefreshToken resolves the refresh token, preferring bodyToken over the cookie.
func (t *Transport) RefreshToken(r *http.Request, bodyToken string) (string, bool) {
	if token := strings.TrimSpace(bodyToken); token != "" {
		return token, true
	}
	if r == nil {
		return "", false
	}
	c, err := r.Cookie(t.config.CookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return "", false
	}
	return c.Value, true
}

func (t *Transport) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     t.config.CookieName,
		Value:    value,
		Path:     t.config.Path,
		Domain:   t.config.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.config.Secure,
		SameSite: t.config.SameSite,
	}
}
