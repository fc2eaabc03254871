package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "userhub/internal/errors"
	"userhub/internal/identity"
	"userhub/internal/middleware"
	"userhub/internal/model"
	"userhub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUpRequest represents a user registration request.
type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse represents a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// OAuthURLResponse carries the redirect URL that starts an OAuth flow.
type OAuthURLResponse struct {
	URL string `json:"url"`
}

// UserMessageResponse wraps a user record with a status message.
type UserMessageResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

// MessageResponse is a bare status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignUp godoc
// @Summary Register a new user
// @Description Creates the identity with the auth provider, then the local record.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration data"
// @Success 200 {object} UserMessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Password, req.FirstName)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, UserMessageResponse{
		Message: "User created successfully",
		User:    model.NewPublicUser(user),
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
	})
}

// GoogleSignIn godoc
// @Summary Start a Google OAuth flow
// @Tags auth
// @Produce json
// @Success 200 {object} OAuthURLResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/google-signin [post]
func (h *AuthHandler) GoogleSignIn(c echo.Context) error {
	return h.oauthSignIn(c, "google")
}

// MicrosoftSignIn godoc
// @Summary Start a Microsoft OAuth flow
// @Tags auth
// @Produce json
// @Success 200 {object} OAuthURLResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/microsoft-signin [post]
func (h *AuthHandler) MicrosoftSignIn(c echo.Context) error {
	return h.oauthSignIn(c, "azure")
}

func (h *AuthHandler) oauthSignIn(c echo.Context, provider string) error {
	url, err := h.authService.OAuthURL(provider)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, OAuthURLResponse{URL: url})
}

// Callback godoc
// @Summary Complete an OAuth flow
// @Description Exchanges the code for a session and reconciles the identity with the local store.
// @Tags auth
// @Produce json
// @Param code query string true "OAuth authorization code"
// @Success 200 {object} UserMessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, apperrors.ErrorResponse{
			Detail: "query parameter code is required",
		})
	}

	user, err := h.authService.HandleCallback(c.Request().Context(), code)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, UserMessageResponse{
		Message: "Authentication successful",
		User:    model.NewPublicUser(user),
	})
}

// Logout godoc
// @Summary Log out
// @Description Invalidates the bearer token with the auth provider.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Detail: "missing authorization token",
		})
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Successfully logged out"})
}

// Me godoc
// @Summary Resolve the current user
// @Description Returns the identity the provider resolves the bearer token to. The identity is not enriched with the local record.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} identity.ExternalUser
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	ext, ok := c.Get(middleware.ContextUserKey).(*identity.ExternalUser)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Detail: apperrors.ErrUnauthorized.Error(),
		})
	}
	return c.JSON(http.StatusOK, ext)
}
