package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	errs "authgate/internal/errors"
	"authgate/internal/model"
	"authgate/internal/service"
)

// UserHandler handles the /users endpoints.
type UserHandler struct {
	authService service.AuthService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(authService service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// SignupRequest represents a signup request.
type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EmailLookupRequest represents an email lookup request.
type EmailLookupRequest struct {
	Email string `json:"email" validate:"required"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token string            `json:"token"`
	User  *model.PublicUser `json:"user"`
}

// Health godoc
// @Summary Liveness check
// @Tags users
// @Produce plain
// @Success 200 {string} string
// @Router /users/ [get]
func (h *UserHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Auth service is running")
}

// Signup godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/signup [post]
func (h *UserHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ErrorResponse{Error: err.Error()})
	}

	token, user, err := h.authService.Signup(c.Request().Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "Signup failed")
	}

	return c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login godoc
// @Summary Login with email and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ErrorResponse{Error: err.Error()})
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "Login failed")
	}

	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me godoc
// @Summary Resolve the bearer token to its user
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.authService.WhoAmI(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return respondError(c, err, "Failed to retrieve user")
	}
	return c.JSON(http.StatusOK, user)
}

// LookupByEmail godoc
// @Summary Look up a user profile by email
// @Tags users
// @Accept json
// @Produce json
// @Param request body EmailLookupRequest true "Email to look up"
// @Success 200 {object} model.PublicUser
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/email [post]
func (h *UserHandler) LookupByEmail(c echo.Context) error {
	var req EmailLookupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ErrorResponse{Error: err.Error()})
	}

	user, err := h.authService.LookupByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return respondError(c, err, "Failed to retrieve user")
	}
	return c.JSON(http.StatusOK, user)
}

func respondError(c echo.Context, err error, fallback string) error {
	httpErr := errs.MapToHTTP(err, fallback)
	return c.JSON(httpErr.StatusCode, httpErr.Response())
}
