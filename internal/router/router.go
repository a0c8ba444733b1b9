package router

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"authgate/internal/handler"
)

// Register wires routes and middleware.
func Register(e *echo.Echo, userHandler *handler.UserHandler) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	users := e.Group("/users")
	users.GET("/", userHandler.Health)
	users.POST("/signup", userHandler.Signup)
	users.POST("/login", userHandler.Login)
	users.GET("/me", userHandler.Me)
	// Kept unauthenticated to match the original API. Anyone can resolve an
	// email to a profile here; see DESIGN.md before changing.
	users.POST("/email", userHandler.LookupByEmail)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
