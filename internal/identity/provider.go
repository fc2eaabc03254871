package identity

import "context"

// ExternalUser describes an identity as the auth provider reports it.
// Metadata is a free-form mapping; OAuth providers put display-name
// information under varying keys (full_name, name, given_name).
type ExternalUser struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// Session is an authenticated session issued by the provider.
type Session struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	User        *ExternalUser `json:"user"`
}

// Provider is the capability surface we consume from the external identity
// provider. Credential verification, password hashing, OAuth token exchange
// and session storage all live on the other side of this interface; every
// failure it reports is treated as opaque.
type Provider interface {
	// SignUp creates a new identity with email/password credentials.
	SignUp(ctx context.Context, email, password string) (*ExternalUser, error)
	// SignInWithPassword exchanges credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// AuthorizeURL returns the URL a client should be redirected to in order
	// to start an OAuth flow with the named upstream provider.
	AuthorizeURL(provider string) (string, error)
	// ExchangeCode completes an OAuth flow by trading the callback code for a
	// session.
	ExchangeCode(ctx context.Context, code string) (*Session, error)
	// UserFromToken resolves a bearer token to the identity it belongs to.
	UserFromToken(ctx context.Context, token string) (*ExternalUser, error)
	// SignOut invalidates the session behind the given token.
	SignOut(ctx context.Context, token string) error
	// AdminDeleteUser removes the external identity. Callers treat this as
	// best-effort.
	AdminDeleteUser(ctx context.Context, uid string) error
}
