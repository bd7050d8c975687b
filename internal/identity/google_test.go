package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newGoogleStub(t *testing.T, verified bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(GoogleUserInfo{
			ID:            "1001",
			Email:         "emily@example.com",
			VerifiedEmail: verified,
			GivenName:     "Emily",
			Picture:       "https://img/emily.png",
		})
	})
	return httptest.NewServer(mux)
}

func stubbedAuthenticator(srv *httptest.Server) *GoogleAuthenticator {
	g := NewGoogleAuthenticator("client-id", "client-secret", "http://localhost:8080/")
	g.config.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	g.userInfoURL = srv.URL + "/userinfo"
	return g
}

func TestGoogleExchange(t *testing.T) {
	srv := newGoogleStub(t, true)
	defer srv.Close()
	g := stubbedAuthenticator(srv)

	sub, err := g.ForCode("good-code").Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "google:1001", sub.ID)
	assert.Equal(t, "Emily", sub.Name)
	assert.Equal(t, "emily@example.com", sub.Email)
	assert.Equal(t, "https://img/emily.png", sub.Avatar)

	_, err = g.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestGoogleExchangeRejectsUnverifiedEmail(t *testing.T) {
	srv := newGoogleStub(t, false)
	defer srv.Close()

	_, err := stubbedAuthenticator(srv).Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestAuthCodeURL(t *testing.T) {
	g := NewGoogleAuthenticator("client-id", "secret", "https://blog.example.com/")
	assert.True(t, g.Configured())

	u, err := url.Parse(g.AuthCodeURL("state-123"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://blog.example.com/auth/google/callback", q.Get("redirect_uri"))

	assert.False(t, NewGoogleAuthenticator("", "", "").Configured())
}

func TestGenerateStateToken(t *testing.T) {
	a, err := GenerateStateToken()
	require.NoError(t, err)
	b, err := GenerateStateToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 44)
}
