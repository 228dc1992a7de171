package qbittorrent

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

// Client talks to a qBittorrent Web API instance. It owns the session
// cookie, re-authenticates transparently when the session expires, and
// adjusts endpoint names and parameter vocabulary to match the server
// version it is connected to.
//
// A Client is safe for concurrent use.
type Client struct {
	baseURL   string
	username  string
	password  string
	userAgent string
	basicUser string
	basicPass string
	timeout   time.Duration
	http      *http.Client
	logger    zerolog.Logger

	mu      sync.Mutex // guards session and version
	session *session
	version *VersionInfo

	logs *LogStore
}

// VersionInfo is the server version classification detected once per
// authenticated session.
type VersionInfo struct {
	// Application is the raw qBittorrent release string, e.g. "v5.0.1".
	Application string
	// AtLeastV5 reports whether the server speaks the 5.0 wire vocabulary
	// (stop/start endpoints, stopped/running filter tokens).
	AtLeastV5 bool
}

// MainVersion returns the application version without the "v" prefix or any
// build-metadata suffix, e.g. "5.0.1".
func (v VersionInfo) MainVersion() string {
	return trimVersion(v.Application)
}

// NewClient creates a client for the qBittorrent instance at baseURL.
// No network traffic happens here; the first request triggers the login
// handshake. Use TestConnection to verify credentials eagerly.
func NewClient(baseURL, username, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid qBittorrent URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid qBittorrent URL %q: scheme must be http or https", baseURL)
	}

	options := &clientOptions{
		timeout:    defaultTimeout,
		verifyCert: true,
	}
	for _, opt := range opts {
		opt(options)
	}

	hc := options.httpClient
	if hc == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if !options.verifyCert {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		hc = &http.Client{Transport: transport}
	}

	c := &Client{
		baseURL:   strings.TrimSuffix(u.String(), "/"),
		username:  username,
		password:  password,
		userAgent: options.userAgent,
		basicUser: options.basicUser,
		basicPass: options.basicPass,
		timeout:   options.timeout,
		http:      hc,
		logger:    logger.With().Str("component", "qbittorrent").Logger(),
	}
	c.logs = newLogStore(c)
	return c, nil
}

// TestConnection performs the login handshake and returns the detected
// server version. It is the eager counterpart to the lazy authentication
// the rest of the API performs. The returned VersionInfo is the zero value
// when the handshake succeeded but version detection did not.
func (c *Client) TestConnection(ctx context.Context) (VersionInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loginLocked(ctx); err != nil {
		return VersionInfo{}, err
	}
	if c.version == nil {
		return VersionInfo{}, nil
	}
	return *c.version, nil
}

// Logs exposes the incremental log store for this client.
func (c *Client) Logs() *LogStore {
	return c.logs
}

// policy returns the wire policy for the connected server. Before the first
// login there is no version to consult and the legacy vocabulary applies.
func (c *Client) policy() wirePolicy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return policyFor(c.version)
}
