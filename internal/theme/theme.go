// Package theme resolves which colour theme a caller sees first and
// remembers per-subject overrides in the shared cache.
package theme

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"godsendjoseph.dev/edu-connect/internal/cache"
)

const (
	Dark   = "dark"
	Light  = "light"
	System = "system"
)

var ErrInvalidTheme = errors.New("invalid theme")

// Config mirrors the options the front end theme provider accepts.
type Config struct {
	DefaultTheme string `json:"default_theme"`
	StorageKey   string `json:"storage_key"`
}

func DefaultConfig() Config {
	return Config{
		DefaultTheme: Dark,
		StorageKey:   "edu-connect-theme",
	}
}

func Valid(theme string) bool {
	switch theme {
	case Dark, Light, System:
		return true
	}
	return false
}

type Provider struct {
	cfg   Config
	cache *cache.Client
}

func NewProvider(cfg Config, c *cache.Client) *Provider {
	defaults := DefaultConfig()
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = defaults.DefaultTheme
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = defaults.StorageKey
	}
	return &Provider{cfg: cfg, cache: c}
}

func (p *Provider) Config() Config {
	return p.cfg
}

func (p *Provider) key(subject string) string {
	return fmt.Sprintf("%s:%s", p.cfg.StorageKey, subject)
}

// Resolve picks the stored override for subject, then the cookie value,
// then the default theme.
func (p *Provider) Resolve(ctx context.Context, subject, cookie string) (string, error) {
	if subject != "" {
		var stored string
		ok, err := p.cache.GetJSON(ctx, p.key(subject), &stored)
		if err != nil {
			return p.fallback(cookie), err
		}
		if ok && Valid(stored) {
			return stored, nil
		}
	}

	return p.fallback(cookie), nil
}

func (p *Provider) fallback(cookie string) string {
	if Valid(cookie) {
		return cookie
	}
	return p.cfg.DefaultTheme
}

func (p *Provider) Set(ctx context.Context, subject, theme string) error {
	if !Valid(theme) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return p.cache.SetJSON(ctx, p.key(subject), theme, 0)
}

// Cookie returns the cookie that remembers theme in the browser.
func (p *Provider) Cookie(theme string) *http.Cookie {
	return &http.Cookie{
		Name:     p.cfg.StorageKey,
		Value:    theme,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
}

type contextKey struct{}

// Middleware stores the cookie-or-default theme in the request context.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := p.cfg.DefaultTheme
		if c, err := r.Cookie(p.cfg.StorageKey); err == nil {
			theme = p.fallback(c.Value)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, theme)))
	})
}

func FromContext(ctx context.Context) (string, bool) {
	theme, ok := ctx.Value(contextKey{}).(string)
	return theme, ok
}
