package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeProviderServer serves a token endpoint and a profile endpoint.
func fakeProviderServer(t *testing.T, profile string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"access-123","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, profile)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testProvider(name model.Provider, srv *httptest.Server) *OAuthProvider {
	return &OAuthProvider{
		Name: name,
		Config: &oauth2.Config{
			ClientID:     "client",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost/callback",
			Endpoint:     oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"},
		},
		ProfileURL: srv.URL + "/me",
	}
}

func TestOAuthProvider_ExchangeGoogle(t *testing.T) {
	srv := fakeProviderServer(t, `{"sub":"g-123","name":"Dr. Google","email":"Doc@Example.com","picture":"https://img/p.png"}`)
	p := testProvider(model.ProviderGoogle, srv)

	profile, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, OAuthProfile{Provider: model.ProviderGoogle, ProviderID: "g-123", Email: "doc@example.com", Name: "Dr. Google", Photo: "https://img/p.png"}, profile)
}

func TestOAuthProvider_ExchangeFacebook(t *testing.T) {
	srv := fakeProviderServer(t, `{"id":"fb-9","name":"Dr. Face","email":"face@example.com","picture":{"data":{"url":"https://img/fb.png"}}}`)
	p := testProvider(model.ProviderFacebook, srv)

	profile, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "fb-9", profile.ProviderID)
	assert.Equal(t, "https://img/fb.png", profile.Photo)
}

func TestOAuthProvider_ExchangeErrors(t *testing.T) {
	srv := fakeProviderServer(t, `{"sub":"g-1","name":"No Mail"}`)
	p := testProvider(model.ProviderGoogle, srv)

	_, err := p.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)

	_, err = p.Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrOAuthNoEmail)
}

func TestOAuthProvider_AuthCodeURL(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "http://localhost:3000/api/auth/google/callback")
	u, err := url.Parse(p.AuthCodeURL("state-1"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.String(), "https://accounts.google.com/"))
	assert.Equal(t, "state-1", u.Query().Get("state"))
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.Contains(t, u.Query().Get("scope"), "email")

	fb := NewFacebookProvider("app", "secret", "http://localhost/cb")
	assert.Equal(t, model.ProviderFacebook, fb.Name)
}

func TestNewOAuthState(t *testing.T) {
	a, err := NewOAuthState()
	require.NoError(t, err)
	b, err := NewOAuthState()
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
