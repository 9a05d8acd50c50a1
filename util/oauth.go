package util

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ariebrainware/docflow-schedule/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

var ErrOAuthNoEmail = errors.New("oauth profile has no email address")

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	facebookMeURL     = "https://graph.facebook.com/me?fields=id,name,email,picture.type(large)"
)

// OAuthProfile is what a provider tells us about the signed-in person.
type OAuthProfile struct {
	Provider   model.Provider
	ProviderID string
	Email      string
	Name       string
	Photo      string
}

// OAuthProvider runs the authorization code flow against one provider and
// reads the resulting profile.
type OAuthProvider struct {
	Name       model.Provider
	Config     *oauth2.Config
	ProfileURL string
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string) *OAuthProvider {
	return &OAuthProvider{
		Name: model.ProviderGoogle,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		ProfileURL: googleUserInfoURL,
	}
}

func NewFacebookProvider(clientID, clientSecret, callbackURL string) *OAuthProvider {
	return &OAuthProvider{
		Name: model.ProviderFacebook,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		ProfileURL: facebookMeURL,
	}
}

// NewOAuthState returns a random value for the state parameter.
func NewOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and fetches the profile.
func (p *OAuthProvider) Exchange(ctx context.Context, code string) (OAuthProfile, error) {
	tok, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return OAuthProfile{}, fmt.Errorf("%s code exchange: %w", p.Name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.ProfileURL, nil)
	if err != nil {
		return OAuthProfile{}, err
	}
	resp, err := p.Config.Client(ctx, tok).Do(req)
	if err != nil {
		return OAuthProfile{}, fmt.Errorf("%s profile request: %w", p.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return OAuthProfile{}, fmt.Errorf("%s profile request: status %d", p.Name, resp.StatusCode)
	}
	return p.decodeProfile(resp.Body)
}

func (p *OAuthProvider) decodeProfile(r io.Reader) (OAuthProfile, error) {
	var raw struct {
		Sub     string          `json:"sub"`
		ID      string          `json:"id"`
		Name    string          `json:"name"`
		Email   string          `json:"email"`
		Picture json.RawMessage `json:"picture"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return OAuthProfile{}, fmt.Errorf("%s profile decode: %w", p.Name, err)
	}

	profile := OAuthProfile{
		Provider:   p.Name,
		ProviderID: raw.ID,
		Email:      NormalizeEmail(raw.Email),
		Name:       strings.TrimSpace(raw.Name),
		Photo:      pictureURL(raw.Picture),
	}
	if p.Name == model.ProviderGoogle {
		profile.ProviderID = raw.Sub
	}
	if profile.ProviderID == "" {
		return OAuthProfile{}, fmt.Errorf("%s profile has no id", p.Name)
	}
	if profile.Email == "" {
		return OAuthProfile{}, ErrOAuthNoEmail
	}
	if profile.Name == "" {
		profile.Name = profile.Email
	}
	return profile, nil
}

// pictureURL reads Google's plain string form and Facebook's
// {"data":{"url":...}} form.
func pictureURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var fb struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &fb); err == nil {
		return fb.Data.URL
	}
	return ""
}
