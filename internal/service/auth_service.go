package service

import (
	"context"
	"errors"
	"strings"

	apperrors "userhub/internal/errors"
	"userhub/internal/identity"
	"userhub/internal/model"
	"userhub/internal/repository"
)

// fallbackFirstName is used when no OAuth metadata key yields a usable name.
const fallbackFirstName = "Joe Schmo"

// AuthService brokers between the identity provider and the local user store.
type AuthService interface {
	SignUp(ctx context.Context, email, password, firstName string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*identity.Session, error)
	OAuthURL(provider string) (string, error)
	HandleCallback(ctx context.Context, code string) (*model.User, error)
	Reconcile(ctx context.Context, ext *identity.ExternalUser) (*model.User, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*identity.ExternalUser, error)
}

type authService struct {
	repo     repository.UserRepository
	provider identity.Provider
}

// NewAuthService creates a new authentication service.
func NewAuthService(repo repository.UserRepository, provider identity.Provider) AuthService {
	return &authService{repo: repo, provider: provider}
}

// SignUp registers the identity with the provider, then creates the local
// record keyed by the uid the provider assigned.
func (s *authService) SignUp(ctx context.Context, email, password, firstName string) (*model.User, error) {
	ext, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UID:       ext.ID,
		Email:     email,
		FirstName: firstName,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login exchanges credentials for a session. The broker holds no session
// state; the returned token is the provider's.
func (s *authService) Login(ctx context.Context, email, password string) (*identity.Session, error) {
	return s.provider.SignInWithPassword(ctx, email, password)
}

// OAuthURL returns the redirect URL that starts an OAuth flow.
func (s *authService) OAuthURL(provider string) (string, error) {
	return s.provider.AuthorizeURL(provider)
}

// HandleCallback completes an OAuth flow and reconciles the signed-in
// identity with the local store.
func (s *authService) HandleCallback(ctx context.Context, code string) (*model.User, error) {
	session, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.Reconcile(ctx, session.User)
}

// Reconcile guarantees a local record exists for the given external identity.
// An existing record is returned untouched; nothing from the descriptor is
// ever written over it on a repeat visit. The lookup-then-create sequence is
// not atomic: two near-simultaneous callbacks for a brand-new identity can
// race, in which case the loser surfaces a conflict and the client may retry.
func (s *authService) Reconcile(ctx context.Context, ext *identity.ExternalUser) (*model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, ext.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	user := &model.User{
		UID:       ext.ID,
		Email:     ext.Email,
		FirstName: deriveFirstName(ext.Metadata),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout invalidates the session behind the given token.
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.provider.SignOut(ctx, token)
}

// CurrentUser resolves a bearer token with the provider. Any resolution
// failure is an auth error: token validity and local-record existence are
// distinct failure axes, and a valid token for an identity without a local
// record is a coherent state that is returned without enrichment.
func (s *authService) CurrentUser(ctx context.Context, token string) (*identity.ExternalUser, error) {
	ext, err := s.provider.UserFromToken(ctx, token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return ext, nil
}

// nameExtractor probes one metadata key for a first name, returning "" when
// the key is absent or unusable.
type nameExtractor func(meta map[string]any) string

// firstNameExtractors are tried in order; the first non-empty result wins.
var firstNameExtractors = []nameExtractor{
	firstToken("full_name"),
	firstToken("name"),
	verbatim("given_name"),
}

func deriveFirstName(meta map[string]any) string {
	for _, extract := range firstNameExtractors {
		if name := extract(meta); name != "" {
			return name
		}
	}
	return fallbackFirstName
}

// firstToken extracts the first whitespace-separated token of a string field.
func firstToken(key string) nameExtractor {
	return func(meta map[string]any) string {
		s, _ := meta[key].(string)
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return ""
		}
		return fields[0]
	}
}

// verbatim extracts a string field as-is.
func verbatim(key string) nameExtractor {
	return func(meta map[string]any) string {
		s, _ := meta[key].(string)
		return strings.TrimSpace(s)
	}
}
