package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// persistedCookie is the stored form of a cookie received from the backend.
type persistedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path"`
	Secure  bool      `json:"secure,omitempty"`
	Expires time.Time `json:"expires,omitzero"`
}

func (c persistedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !now.Before(c.Expires)
}

// cookieJar is an http.CookieJar kept in the session storage under KeyCookies, so the
// backend's session cookie survives restarts and is dropped by Clear. A client talks to a
// single backend, so cookies are matched by path only.
type cookieJar struct {
	store *Store
	now   func() time.Time
}

// CookieJar returns an http.CookieJar persisted alongside the session.
func (s *Store) CookieJar() http.CookieJar {
	return &cookieJar{store: s, now: time.Now}
}

// SetCookies implements http.CookieJar.
func (j *cookieJar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}

	j.store.mu.Lock()
	defer j.store.mu.Unlock()

	now := j.now()
	stored := j.load()

	for _, c := range cookies {
		entry := persistedCookie{
			Name:   c.Name,
			Value:  c.Value,
			Path:   c.Path,
			Secure: c.Secure,
		}
		if entry.Path == "" || !strings.HasPrefix(entry.Path, "/") {
			entry.Path = "/"
		}

		switch {
		case c.MaxAge < 0:
			entry.Expires = now
		case c.MaxAge > 0:
			entry.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		case !c.Expires.IsZero():
			entry.Expires = c.Expires
		}

		stored = replaceCookie(stored, entry)
	}

	live := stored[:0]
	for _, c := range stored {
		if !c.expired(now) {
			live = append(live, c)
		}
	}

	j.save(live)
}

// Cookies implements http.CookieJar.
func (j *cookieJar) Cookies(u *url.URL) []*http.Cookie {
	j.store.mu.Lock()
	defer j.store.mu.Unlock()

	now := j.now()
	path := u.Path
	if path == "" {
		path = "/"
	}

	var out []*http.Cookie
	for _, c := range j.load() {
		if c.expired(now) {
			continue
		}
		if c.Secure && u.Scheme != "https" {
			continue
		}
		if !pathMatches(path, c.Path) {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

func (j *cookieJar) load() []persistedCookie {
	raw, ok, err := j.store.storage.Get(KeyCookies)
	if err != nil {
		j.store.logger.Warn("failed to read session cookies", slog.Any("error", err))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var cookies []persistedCookie
	if err := json.Unmarshal([]byte(raw), &cookies); err != nil {
		j.store.logger.Warn("discarding malformed session cookies", slog.Any("error", err))
		return nil
	}
	return cookies
}

func (j *cookieJar) save(cookies []persistedCookie) {
	var err error
	if len(cookies) == 0 {
		err = j.store.storage.Delete(KeyCookies)
	} else {
		var data []byte
		data, err = json.Marshal(cookies)
		if err == nil {
			err = j.store.storage.Set(map[string]string{KeyCookies: string(data)})
		}
	}
	if err != nil {
		j.store.logger.Warn("failed to persist session cookies", slog.Any("error", err))
	}
}

func replaceCookie(cookies []persistedCookie, c persistedCookie) []persistedCookie {
	for i := range cookies {
		if cookies[i].Name == c.Name && cookies[i].Path == c.Path {
			cookies[i] = c
			return cookies
		}
	}
	return append(cookies, c)
}

// pathMatches implements the RFC 6265 path-match rule.
func pathMatches(requestPath, cookiePath string) bool {
	if requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || requestPath[len(cookiePath)] == '/'
}
