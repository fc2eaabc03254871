package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"userhub/internal/errors"
)

// supported upstream OAuth providers, keyed by the name the auth API expects.
var oauthProviders = map[string]bool{
	"google": true,
	"azure":  true,
}

// SupabaseClient implements Provider against a GoTrue-style auth REST API.
// The anon key authenticates regular calls; the service key is only used for
// the admin delete endpoint.
type SupabaseClient struct {
	baseURL    string
	anonKey    string
	serviceKey string
	redirectTo string
	httpClient *http.Client
}

// NewSupabaseClient creates a client for the auth API at baseURL.
// Timeouts are left to the supplied http.Client defaults.
func NewSupabaseClient(baseURL, anonKey, serviceKey, redirectTo string) *SupabaseClient {
	return &SupabaseClient{
		baseURL:    baseURL,
		anonKey:    anonKey,
		serviceKey: serviceKey,
		redirectTo: redirectTo,
		httpClient: &http.Client{},
	}
}

// SignUp creates a new email/password identity.
func (c *SupabaseClient) SignUp(ctx context.Context, email, password string) (*ExternalUser, error) {
	body := map[string]string{"email": email, "password": password}

	// Depending on confirmation settings the API returns either the bare user
	// object or a session wrapping it. Decode both shapes.
	var resp struct {
		ExternalUser
		User *ExternalUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", c.anonKey, body, &resp); err != nil {
		return nil, err
	}
	if resp.User != nil && resp.User.ID != "" {
		return resp.User, nil
	}
	if resp.ExternalUser.ID == "" {
		return nil, fmt.Errorf("%w: signup returned no user", errors.ErrProvider)
	}
	return &resp.ExternalUser, nil
}

// SignInWithPassword performs the password grant.
func (c *SupabaseClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.anonKey, body, &session); err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("%w: sign-in returned no access token", errors.ErrProvider)
	}
	return &session, nil
}

// AuthorizeURL builds the redirect URL that starts an OAuth flow. The provider
// brokers the whole dance itself, so no network call happens here.
func (c *SupabaseClient) AuthorizeURL(provider string) (string, error) {
	if !oauthProviders[provider] {
		return "", fmt.Errorf("%w: unsupported oauth provider %q", errors.ErrProvider, provider)
	}
	q := url.Values{}
	q.Set("provider", provider)
	if c.redirectTo != "" {
		q.Set("redirect_to", c.redirectTo)
	}
	return c.baseURL + "/auth/v1/authorize?" + q.Encode(), nil
}

// ExchangeCode trades an OAuth callback code for a session.
func (c *SupabaseClient) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	body := map[string]string{"auth_code": code}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=pkce", c.anonKey, body, &session); err != nil {
		return nil, err
	}
	if session.User == nil || session.User.ID == "" {
		return nil, fmt.Errorf("%w: code exchange returned no user", errors.ErrProvider)
	}
	return &session, nil
}

// UserFromToken resolves a bearer token to its identity.
func (c *SupabaseClient) UserFromToken(ctx context.Context, token string) (*ExternalUser, error) {
	var user ExternalUser
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", token, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: token resolved to no user", errors.ErrProvider)
	}
	return &user, nil
}

// SignOut invalidates the session behind token.
func (c *SupabaseClient) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", token, nil, nil)
}

// AdminDeleteUser removes the external identity using the service key.
func (c *SupabaseClient) AdminDeleteUser(ctx context.Context, uid string) error {
	return c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(uid), c.serviceKey, nil, nil)
}

// do performs one JSON round trip. bearer goes into the Authorization header;
// the anon key always rides along in the apikey header. Any non-2xx response
// becomes an opaque provider error carrying the provider's own message.
func (c *SupabaseClient) do(ctx context.Context, method, path, bearer string, reqBody, out any) error {
	var body *bytes.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", errors.ErrProvider, providerMessage(resp))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", errors.ErrProvider, err)
		}
	}
	return nil
}

// providerMessage pulls the human-readable message out of an error response.
// GoTrue uses several field names across endpoints.
func providerMessage(resp *http.Response) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		for _, m := range []string{body.Msg, body.Message, body.ErrorDescription} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("unexpected status %d", resp.StatusCode)
}
