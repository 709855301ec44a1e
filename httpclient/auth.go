package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses Bearer token authentication.
	AuthBearer
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	if a.Type == AuthBearer {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}
}
