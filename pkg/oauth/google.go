package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrCodeExchange  = errors.New("authorization code exchange failed")
	ErrUserInfo      = errors.New("could not read Google account info")
	ErrNotConfigured = errors.New("Google sign-in is not configured")
)

const userInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUser is the account payload returned by Google's userinfo endpoint
type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// Config holds the Google sign-in settings for a store deployment
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	// Register frontend pages the callback hands the browser back to
	SuccessURL string
	ErrorURL   string
}

// GoogleService drives the Google sign-in flow for store staff
type GoogleService struct {
	config     *oauth2.Config
	successURL string
	errorURL   string
}

// NewGoogleService creates a Google sign-in service
func NewGoogleService(cfg Config) *GoogleService {
	return &GoogleService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		successURL: cfg.SuccessURL,
		errorURL:   cfg.ErrorURL,
	}
}

// IsConfigured reports whether client credentials are present
func (s *GoogleService) IsConfigured() bool {
	return s.config.ClientID != "" && s.config.ClientSecret != ""
}

// AuthURL returns the consent page URL carrying the CSRF state
func (s *GoogleService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for tokens
func (s *GoogleService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodeExchange, err)
	}
	return token, nil
}

// FetchUser loads the signed-in account from Google's userinfo endpoint
func (s *GoogleService) FetchUser(ctx context.Context, token *oauth2.Token) (*GoogleUser, error) {
	client := s.config.Client(ctx, token)

	resp, err := client.Get(userInfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUserInfo, resp.StatusCode, string(body))
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	return &user, nil
}

// SuccessRedirectURL is the frontend page a successful sign-in lands on
func (s *GoogleService) SuccessRedirectURL() string {
	return s.successURL
}

// ErrorRedirectURL is the frontend page a failed sign-in lands on
func (s *GoogleService) ErrorRedirectURL() string {
	return s.errorURL
}
