package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Session is an authenticated connection to the mailing-list archive.
//
// A Session is created once per run via NewSession, which performs the
// login POST and keeps whatever session cookie the server issues in a
// cookie jar. Every subsequent request made through the Session carries
// that cookie automatically. The Session is safe for concurrent use by
// many in-flight requests.
//
// Example usage:
//
//	session, err := http.NewSession(ctx, authURL, user, pass, logger)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	body, finalURL, status, err := session.GetText(ctx, digestURL)
type Session struct {
	client    *http.Client
	userAgent string
	closeOnce sync.Once
}

// NewSession authenticates against authURL and returns a Session that
// presents the resulting cookie on every request.
//
// The login is a single POST of form-encoded "username" and "password"
// fields. Mailman answers 200 regardless of whether the credentials
// were accepted, so login success is not verified here; a warning is
// logged when the server issued no cookie at all, since in that case
// every digest fetch will come back as a login page.
//
// Returns an error only if the POST itself cannot be performed; that is
// fatal for the run, no fetch is attempted without a session.
func NewSession(ctx context.Context, authURL, username, password string, logger *log.Logger) (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	s := &Session{
		client: &http.Client{
			Jar:     jar,
			Timeout: 60 * time.Second,
		},
		userAgent: "wggf-digest-downloader",
	}

	form := url.Values{
		"username": {username},
		"password": {password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if u, err := url.Parse(authURL); err == nil && len(jar.Cookies(u)) == 0 {
		logger.Warn("no session cookie received, the archive may answer every fetch with a login page")
	}

	return s, nil
}

// GetText performs a GET through the session and returns the response
// body decoded as UTF-8 text.
//
// Decoding is best-effort: byte sequences that are not valid UTF-8 are
// replaced with U+FFFD instead of failing the request. The archive
// serves decades of pages and the oldest ones are not always cleanly
// encoded.
//
// Returns:
//   - body: the decoded response body
//   - finalURL: the URL the response was actually served from, after
//     any redirects
//   - status: the HTTP status code
//
// An error is returned if the request cannot be performed or the body
// cannot be read at all.
func (s *Session) GetText(ctx context.Context, rawURL string) (body, finalURL string, status int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", 0, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", 0, err
	}
	defer resp.Body.Close()

	decoded, err := io.ReadAll(transform.NewReader(resp.Body, unicode.UTF8.NewDecoder()))
	if err != nil {
		return "", "", resp.StatusCode, fmt.Errorf("decode body: %w", err)
	}

	return string(decoded), resp.Request.URL.String(), resp.StatusCode, nil
}

// Close releases the session's idle connections. Safe to call more
// than once; only the first call has an effect.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.client.CloseIdleConnections()
	})
}
