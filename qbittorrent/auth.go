package qbittorrent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	sessionCookie = "SID"

	// defaultSessionTTL is assumed when the login response sets the session
	// cookie without an Expires or Max-Age attribute.
	defaultSessionTTL = time.Hour
)

// session is the authenticated state for one client. A nil session means
// unauthenticated.
type session struct {
	sid     string
	expires time.Time
}

func (s *session) valid(now time.Time) bool {
	return s != nil && s.sid != "" && s.expires.After(now)
}

// Login forces a fresh handshake, replacing any existing session. Most
// callers never need this: every request re-authenticates on its own when
// the session is absent or expired.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = nil
	return c.loginLocked(ctx)
}

// Logout ends the session. The remote call is best-effort: its failure is
// logged and otherwise ignored, and the local session and version cache are
// always cleared.
func (c *Client) Logout(ctx context.Context) {
	c.mu.Lock()
	sess := c.session
	c.session = nil
	c.version = nil
	c.mu.Unlock()

	if sess == nil {
		return
	}
	if _, err := c.do(ctx, http.MethodPost, "auth/logout", nil, nil, "", sess.sid); err != nil {
		c.logger.Debug().Err(err).Msg("Remote logout failed")
	}
}

// ensureSession makes sure a valid session exists, logging in when it is
// absent or expired. Requests are never sent without a session established
// first.
func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.valid(time.Now()) {
		return nil
	}
	return c.loginLocked(ctx)
}

// sid returns the current session token, or "" when unauthenticated.
func (c *Client) sid() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.sid
}

// loginLocked performs the login handshake and, on a fresh session, runs
// version detection once. Callers must hold c.mu, which also collapses
// concurrent re-authentication attempts into one.
func (c *Client) loginLocked(ctx context.Context) error {
	resp, body, err := c.postLogin(ctx)
	if err != nil {
		return &AuthError{Op: "login", Err: err}
	}

	if resp.StatusCode == http.StatusForbidden {
		return &AuthError{Op: "login", Err: ErrBanned}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &AuthError{Op: "login", Err: &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}}
	}
	if strings.TrimSpace(string(body)) == "Fails." {
		return &AuthError{Op: "login", Err: ErrBadCredentials}
	}

	sess, err := sessionFromCookies(resp.Cookies(), time.Now())
	if err != nil {
		return &AuthError{Op: "login", Err: err}
	}
	c.session = sess
	c.logger.Debug().Time("expires", sess.expires).Msg("Session established")

	if c.version == nil {
		if err := c.detectVersionLocked(ctx, sess.sid); err != nil {
			// Version-dependent requests fall back to the pre-5.0 wire
			// vocabulary until a later login detects otherwise.
			c.logger.Warn().Err(err).Msg("Server version detection failed")
		}
	}
	return nil
}

// postLogin issues the credential POST with redirects disabled and returns
// the response with its fully read body. The response body is closed.
func (c *Client) postLogin(ctx context.Context) (*http.Response, []byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	endpoint := joinURL(c.baseURL, apiBase, "auth/login")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// The server rejects login attempts without a matching Referer.
	req.Header.Set("Referer", c.baseURL)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.basicUser != "" {
		req.SetBasicAuth(c.basicUser, c.basicPass)
	}

	// The session cookie is attached to the login response itself, so a
	// redirect must not be followed.
	hc := *c.http
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp, body, nil
}

// sessionFromCookies extracts the session token and its expiry from the
// login response cookies. A cookie named for the session token is required;
// when cookies are present but none carries the token, the response is
// treated as an invalid cookie rather than a missing one.
func sessionFromCookies(cookies []*http.Cookie, now time.Time) (*session, error) {
	if len(cookies) == 0 {
		return nil, ErrNoCookie
	}
	var chosen *http.Cookie
	for _, ck := range cookies {
		if ck.Name == sessionCookie {
			chosen = ck
			break
		}
	}
	if chosen == nil || chosen.Value == "" {
		return nil, ErrInvalidCookie
	}

	expires := chosen.Expires
	if expires.IsZero() {
		if chosen.MaxAge > 0 {
			expires = now.Add(time.Duration(chosen.MaxAge) * time.Second)
		} else {
			expires = now.Add(defaultSessionTTL)
		}
	}
	return &session{sid: chosen.Value, expires: expires}, nil
}

// detectVersionLocked fetches and classifies the server version using a
// freshly issued token. Callers must hold c.mu.
func (c *Client) detectVersionLocked(ctx context.Context, sid string) error {
	data, err := c.do(ctx, http.MethodGet, "app/version", nil, nil, "", sid)
	if err != nil {
		return err
	}
	raw := strings.TrimSpace(string(data))
	clean := trimVersion(raw)
	c.version = &VersionInfo{
		Application: raw,
		AtLeastV5:   clean == baselineVersion || CompareVersions(clean, baselineVersion),
	}
	c.logger.Debug().
		Str("version", raw).
		Bool("at_least_v5", c.version.AtLeastV5).
		Msg("Detected server version")
	return nil
}
