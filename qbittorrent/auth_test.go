package qbittorrent

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	fs := newFakeServer(t, "v5.0.1")
	client := newTestClient(t, fs)

	require.NoError(t, client.Login(context.Background()))

	client.mu.Lock()
	defer client.mu.Unlock()
	require.NotNil(t, client.session)
	assert.Equal(t, testSID, client.session.sid)
	// Cookie carried no expiry attributes, so the default TTL applies.
	assert.WithinDuration(t, time.Now().Add(defaultSessionTTL), client.session.expires, 5*time.Second)
	require.NotNil(t, client.version)
	assert.True(t, client.version.AtLeastV5)
}

func TestLoginBadCredentials(t *testing.T) {
	fs := newFakeServer(t, "v5.0.1")

	client := newTestClient(t, fs)
	client.password = "wrong"

	err := client.Login(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadCredentials)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "login", authErr.Op)
}

func TestLoginBanned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, testUser, testPass, zerolog.Nop())
	require.NoError(t, err)

	assert.ErrorIs(t, client.Login(context.Background()), ErrBanned)
}

func TestLoginCookieErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "no cookie at all",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "Ok.")
			},
			wantErr: ErrNoCookie,
		},
		{
			name: "cookie without session token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.SetCookie(w, &http.Cookie{Name: "TRACKING", Value: "x"})
				fmt.Fprint(w, "Ok.")
			},
			wantErr: ErrInvalidCookie,
		},
		{
			name: "empty session token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.SetCookie(w, &http.Cookie{Name: "SID", Value: ""})
				fmt.Fprint(w, "Ok.")
			},
			wantErr: ErrInvalidCookie,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client, err := NewClient(srv.URL, testUser, testPass, zerolog.Nop())
			require.NoError(t, err)

			assert.ErrorIs(t, client.Login(context.Background()), tt.wantErr)
		})
	}
}

func TestLoginCookieExpiry(t *testing.T) {
	explicit := time.Now().Add(45 * time.Minute).Truncate(time.Second).UTC()

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   time.Time
	}{
		{
			name:   "explicit expires attribute",
			cookie: &http.Cookie{Name: "SID", Value: testSID, Expires: explicit},
			want:   explicit,
		},
		{
			name:   "max-age attribute",
			cookie: &http.Cookie{Name: "SID", Value: testSID, MaxAge: 120},
			want:   time.Now().Add(120 * time.Second),
		},
		{
			name:   "no expiry attributes",
			cookie: &http.Cookie{Name: "SID", Value: testSID},
			want:   time.Now().Add(defaultSessionTTL),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := sessionFromCookies([]*http.Cookie{tt.cookie}, time.Now())
			require.NoError(t, err)
			assert.Equal(t, testSID, sess.sid)
			assert.WithinDuration(t, tt.want, sess.expires, 2*time.Second)
		})
	}
}

func TestLoginPrefersSessionCookie(t *testing.T) {
	cookies := []*http.Cookie{
		{Name: "TRACKING", Value: "junk"},
		{Name: "SID", Value: testSID},
		{Name: "OTHER", Value: "more"},
	}

	sess, err := sessionFromCookies(cookies, time.Now())
	require.NoError(t, err)
	assert.Equal(t, testSID, sess.sid)
}

func TestLoginDoesNotFollowRedirect(t *testing.T) {
	var redirectTargetHit bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/auth/login", func(w http.ResponseWriter, r *http.Request) {
		// The cookie rides on the redirect response itself.
		http.SetCookie(w, &http.Cookie{Name: "SID", Value: testSID})
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	})
	mux.HandleFunc("/elsewhere", func(w http.ResponseWriter, r *http.Request) {
		redirectTargetHit = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(srv.URL, testUser, testPass, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, client.Login(context.Background()))
	assert.False(t, redirectTargetHit, "redirect target must not be fetched")
	assert.Equal(t, testSID, client.sid())
}

func TestLoginSendsReferer(t *testing.T) {
	var referer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
		http.SetCookie(w, &http.Cookie{Name: "SID", Value: testSID})
		fmt.Fprint(w, "Ok.")
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, testUser, testPass, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, client.Login(context.Background()))
	assert.Equal(t, srv.URL, referer)
}

func TestSessionReusedAcrossRequests(t *testing.T) {
	fs := newFakeServer(t, "v5.0.1")
	fs.Mux.HandleFunc("/api/v2/app/webapiVersion", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "2.11.2")
	})
	client := newTestClient(t, fs)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.WebAPIVersion(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), fs.Logins.Load(), "valid session must be reused")
}

func TestExpiredSessionTriggersRelogin(t *testing.T) {
	fs := newFakeServer(t, "v5.0.1")
	fs.Mux.HandleFunc("/api/v2/app/webapiVersion", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "2.11.2")
	})
	client := newTestClient(t, fs)

	ctx := context.Background()
	_, err := client.WebAPIVersion(ctx)
	require.NoError(t, err)

	client.mu.Lock()
	client.session.expires = time.Now().Add(-time.Minute)
	client.mu.Unlock()

	_, err = client.WebAPIVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fs.Logins.Load(), "expired session must re-authenticate")
}

func TestFailedLoginAbortsRequest(t *testing.T) {
	var torrentsHit bool
	fs := newFakeServer(t, "")
	fs.Mux.HandleFunc("/api/v2/torrents/info", func(w http.ResponseWriter, r *http.Request) {
		torrentsHit = true
		fmt.Fprint(w, "[]")
	})

	client := newTestClient(t, fs)
	client.password = "wrong"

	_, err := client.Torrents(context.Background(), TorrentFilterOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadCredentials)
	assert.False(t, torrentsHit, "request must not be sent when login fails")
}

func TestLogoutClearsLocalState(t *testing.T) {
	fs := newFakeServer(t, "v5.0.1")
	var logoutSID string
	fs.Mux.HandleFunc("/api/v2/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("SID"); err == nil {
			logoutSID = ck.Value
		}
	})
	client := newTestClient(t, fs)

	ctx := context.Background()
	require.NoError(t, client.Login(ctx))
	client.Logout(ctx)

	assert.Equal(t, testSID, logoutSID, "logout must replay the session cookie")
	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Nil(t, client.session)
	assert.Nil(t, client.version)
}

func TestLogoutIgnoresRemoteFailure(t *testing.T) {
	fs := newFakeServer(t, "v5.0.1")
	fs.Mux.HandleFunc("/api/v2/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newTestClient(t, fs)

	ctx := context.Background()
	require.NoError(t, client.Login(ctx))
	client.Logout(ctx)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Nil(t, client.session, "local session must be cleared even when the remote call fails")
}

func TestVersionDetectedOncePerSession(t *testing.T) {
	fs := newFakeServer(t, "")
	var versionHits int
	fs.Mux.HandleFunc("/api/v2/app/version", func(w http.ResponseWriter, r *http.Request) {
		versionHits++
		fmt.Fprint(w, "v5.0.1")
	})
	fs.Mux.HandleFunc("/api/v2/app/buildInfo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"qt":"6.4.2"}`)
	})
	client := newTestClient(t, fs)

	ctx := context.Background()
	_, err := client.AppBuildInfo(ctx)
	require.NoError(t, err)
	_, err = client.AppBuildInfo(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, versionHits, "version must be detected once per session")
}

func TestDetectionFailureFallsBackToLegacy(t *testing.T) {
	// No version endpoint registered: detection fails, the session must
	// still be usable and version branches must pick the legacy names.
	fs := newFakeServer(t, "")
	var path string
	fs.Mux.HandleFunc("/api/v2/torrents/pause", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
	})

	client := newTestClient(t, fs)
	require.NoError(t, client.StopTorrents(context.Background(), []string{"abc"}))
	assert.Equal(t, "/api/v2/torrents/pause", path)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Nil(t, client.version)
}
