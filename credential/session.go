package credential

import (
	"cmp"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/kbukum/studyhub/logger"
)

// DefaultSessionKey is the backend key holding the session cookies.
const DefaultSessionKey = "session_cookies"

// savedCookie is one cookie as persisted, with the URL that set it.
type savedCookie struct {
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

func (s savedCookie) id() string {
	return s.Domain + ";" + s.Path + ";" + s.Name
}

func (s savedCookie) expired(now time.Time) bool {
	return !s.Expires.IsZero() && !s.Expires.After(now)
}

// SessionJar is an http.CookieJar whose cookies outlive the process. Every
// cookie the server sets is mirrored to a Backend; NewSessionJar replays
// them. Backend failures are logged and never returned.
type SessionJar struct {
	mu      sync.Mutex
	jar     *cookiejar.Jar
	saved   map[string]savedCookie
	backend Backend
	key     string
	log     *logger.Logger
	now     func() time.Time
}

// SessionOption configures a SessionJar.
type SessionOption func(*SessionJar)

// WithSessionKey overrides the backend key (default "session_cookies").
func WithSessionKey(key string) SessionOption {
	return func(j *SessionJar) {
		if key != "" {
			j.key = key
		}
	}
}

// WithSessionLogger sets the logger used to report backend failures.
func WithSessionLogger(l *logger.Logger) SessionOption {
	return func(j *SessionJar) {
		if l != nil {
			j.log = l.WithComponent("credential")
		}
	}
}

// NewSessionJar creates a jar and loads the cookies persisted in backend.
// A nil backend behaves like NopBackend.
func NewSessionJar(ctx context.Context, backend Backend, opts ...SessionOption) *SessionJar {
	if backend == nil {
		backend = NopBackend{}
	}
	j := &SessionJar{
		jar:     newCookieJar(),
		saved:   make(map[string]savedCookie),
		backend: backend,
		key:     DefaultSessionKey,
		log:     logger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	j.load(ctx)
	return j
}

func newCookieJar() *cookiejar.Jar {
	// cookiejar.New never returns an error
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

// Cookies implements http.CookieJar.
func (j *SessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// SetCookies implements http.CookieJar and persists the result.
func (j *SessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)
	now := j.now()
	for _, c := range cookies {
		s := savedCookie{
			URL:      u.String(),
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
		switch {
		case c.MaxAge < 0:
			delete(j.saved, s.id())
			continue
		case c.MaxAge > 0:
			s.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if s.expired(now) {
			delete(j.saved, s.id())
			continue
		}
		j.saved[s.id()] = s
	}
	j.persist(context.Background())
}

// Clear drops every cookie, in memory and in the backend.
func (j *SessionJar) Clear(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar = newCookieJar()
	clear(j.saved)
	if err := j.backend.Remove(ctx, j.key); err != nil {
		j.log.Warn("session remove failed", logger.ErrorFields("session_clear", err))
	}
}

func (j *SessionJar) load(ctx context.Context) {
	raw, ok, err := j.backend.Get(ctx, j.key)
	if err != nil {
		j.log.Warn("session load failed, starting without cookies", logger.ErrorFields("session_load", err))
		return
	}
	if !ok || raw == "" {
		return
	}
	var cookies []savedCookie
	if err := json.Unmarshal([]byte(raw), &cookies); err != nil {
		j.log.Warn("session decode failed, starting without cookies", logger.ErrorFields("session_load", err))
		return
	}

	now := j.now()
	for _, s := range cookies {
		if s.expired(now) {
			continue
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			continue
		}
		j.jar.SetCookies(u, []*http.Cookie{{
			Name:     s.Name,
			Value:    s.Value,
			Path:     s.Path,
			Domain:   s.Domain,
			Expires:  s.Expires,
			Secure:   s.Secure,
			HttpOnly: s.HTTPOnly,
		}})
		j.saved[s.id()] = s
	}
}

// persist writes the saved cookies. Callers hold j.mu.
func (j *SessionJar) persist(ctx context.Context) {
	if len(j.saved) == 0 {
		if err := j.backend.Remove(ctx, j.key); err != nil {
			j.log.Warn("session remove failed", logger.ErrorFields("session_persist", err))
		}
		return
	}

	cookies := make([]savedCookie, 0, len(j.saved))
	for _, s := range j.saved {
		cookies = append(cookies, s)
	}
	slices.SortFunc(cookies, func(a, b savedCookie) int { return cmp.Compare(a.id(), b.id()) })

	data, err := json.Marshal(cookies)
	if err != nil {
		j.log.Warn("session encode failed", logger.ErrorFields("session_persist", err))
		return
	}
	if err := j.backend.Set(ctx, j.key, string(data)); err != nil {
		j.log.Warn("session persist failed", logger.ErrorFields("session_persist", err))
	}
}
