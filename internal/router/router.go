package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"userhub/internal/handler"
	"userhub/internal/middleware"
	"userhub/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Liveness check
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Server is running.")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/google-signin", authHandler.GoogleSignIn)
	auth.POST("/microsoft-signin", authHandler.MicrosoftSignIn)
	auth.GET("/callback", authHandler.Callback)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, middleware.RequireToken(authService))

	users := e.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.GET("/", userHandler.ListUsers)
	users.GET("/:uid", userHandler.GetUser)
	users.PUT("/:uid", userHandler.UpdateUser)
	users.DELETE("/:uid", userHandler.DeleteUser)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
