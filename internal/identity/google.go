package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"inkwell/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var ErrEmailNotVerified = errors.New("identity: google email not verified")

// GoogleUserInfo Google 用户信息结构
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleAuthenticator signs subjects in through the Google OAuth2 code flow.
type GoogleAuthenticator struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleAuthenticator(clientID, clientSecret, siteURL string) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  strings.TrimSuffix(siteURL, "/") + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// Configured 是否配置了 Google 凭据
func (g *GoogleAuthenticator) Configured() bool {
	return g.config.ClientID != "" && g.config.ClientSecret != ""
}

func (g *GoogleAuthenticator) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ForCode binds an authorization code so the exchange can run as a
// provider's Authenticator.
func (g *GoogleAuthenticator) ForCode(code string) Authenticator {
	return AuthenticatorFunc(func(ctx context.Context) (models.Subject, error) {
		return g.Exchange(ctx, code)
	})
}

// Exchange 用授权码换取 token 并获取用户信息
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (models.Subject, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return models.Subject{}, fmt.Errorf("exchange code: %w", err)
	}

	info, err := g.userInfo(ctx, token)
	if err != nil {
		return models.Subject{}, err
	}
	if !info.VerifiedEmail {
		return models.Subject{}, ErrEmailNotVerified
	}

	name := info.Name
	if name == "" {
		name = info.GivenName
	}
	if name == "" {
		name = strings.Split(info.Email, "@")[0]
	}

	return models.Subject{
		ID:     "google:" + info.ID,
		Name:   name,
		Email:  info.Email,
		Avatar: info.Picture,
	}, nil
}

func (g *GoogleAuthenticator) userInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	resp, err := g.config.Client(ctx, token).Get(g.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info GoogleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &info, nil
}

// GenerateStateToken 生成随机 state token
func GenerateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
