package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	errs "authgate/internal/errors"
	"authgate/internal/handler"
	"authgate/internal/model"
	"authgate/internal/router"
)

// stubAuthService implements service.AuthService with canned responses.
type stubAuthService struct {
	signup  func(firstName, lastName, email, password string) (string, *model.PublicUser, error)
	login   func(email, password string) (string, *model.PublicUser, error)
	whoAmI  func(authorization string) (*model.PublicUser, error)
	byEmail func(email string) (*model.PublicUser, error)
}

func (s *stubAuthService) Signup(_ context.Context, firstName, lastName, email, password string) (string, *model.PublicUser, error) {
	return s.signup(firstName, lastName, email, password)
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (string, *model.PublicUser, error) {
	return s.login(email, password)
}

func (s *stubAuthService) WhoAmI(_ context.Context, authorization string) (*model.PublicUser, error) {
	return s.whoAmI(authorization)
}

func (s *stubAuthService) LookupByEmail(_ context.Context, email string) (*model.PublicUser, error) {
	return s.byEmail(email)
}

func newServer(svc *stubAuthService) *echo.Echo {
	e := echo.New()
	router.Register(e, handler.NewUserHandler(svc))
	return e
}

func doJSON(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

var annPublic = &model.PublicUser{ID: "user-1", FirstName: "Ann", LastName: "Lee", Email: "ann@x.com"}

func TestHealthRoute(t *testing.T) {
	e := newServer(&stubAuthService{})

	rec := doJSON(e, http.MethodGet, "/users/", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Auth service is running", rec.Body.String())
}

func TestSignupRoute(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		e := newServer(&stubAuthService{
			signup: func(firstName, lastName, email, password string) (string, *model.PublicUser, error) {
				assert.Equal(t, "Ann", firstName)
				assert.Equal(t, "pw123", password)
				return "tok-abc", annPublic, nil
			},
		})

		rec := doJSON(e, http.MethodPost, "/users/signup",
			`{"firstName":"Ann","lastName":"Lee","email":"ann@x.com","password":"pw123"}`, nil)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp handler.AuthResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "tok-abc", resp.Token)
		assert.Equal(t, "ann@x.com", resp.User.Email)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		e := newServer(&stubAuthService{
			signup: func(_, _, _, _ string) (string, *model.PublicUser, error) {
				return "", nil, errs.ErrEmailInUse
			},
		})

		rec := doJSON(e, http.MethodPost, "/users/signup",
			`{"firstName":"Ann","lastName":"Lee","email":"ann@x.com","password":"pw123"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Email already in use"}`, rec.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		e := newServer(&stubAuthService{})

		rec := doJSON(e, http.MethodPost, "/users/signup", `{"email":"ann@x.com"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginRoute(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		e := newServer(&stubAuthService{
			login: func(email, password string) (string, *model.PublicUser, error) {
				return "tok-abc", annPublic, nil
			},
		})

		rec := doJSON(e, http.MethodPost, "/users/login",
			`{"email":"ann@x.com","password":"pw123"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("unknown user", func(t *testing.T) {
		e := newServer(&stubAuthService{
			login: func(_, _ string) (string, *model.PublicUser, error) {
				return "", nil, errs.ErrUserNotFound
			},
		})

		rec := doJSON(e, http.MethodPost, "/users/login",
			`{"email":"nobody@x.com","password":"pw123"}`, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		e := newServer(&stubAuthService{
			login: func(_, _ string) (string, *model.PublicUser, error) {
				return "", nil, errs.ErrInvalidCredentials
			},
		})

		rec := doJSON(e, http.MethodPost, "/users/login",
			`{"email":"ann@x.com","password":"wrong"}`, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMeRoute(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		e := newServer(&stubAuthService{
			whoAmI: func(authorization string) (*model.PublicUser, error) {
				assert.Equal(t, "Bearer tok-abc", authorization)
				return annPublic, nil
			},
		})

		rec := doJSON(e, http.MethodGet, "/users/me", "", map[string]string{
			echo.HeaderAuthorization: "Bearer tok-abc",
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		var user model.PublicUser
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, "user-1", user.ID)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("missing header", func(t *testing.T) {
		e := newServer(&stubAuthService{
			whoAmI: func(authorization string) (*model.PublicUser, error) {
				return nil, errs.ErrMissingToken
			},
		})

		rec := doJSON(e, http.MethodGet, "/users/me", "", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Missing or invalid token"}`, rec.Body.String())
	})

	t.Run("invalid token carries details", func(t *testing.T) {
		e := newServer(&stubAuthService{
			whoAmI: func(authorization string) (*model.PublicUser, error) {
				return nil, errs.TokenInvalid(assert.AnError)
			},
		})

		rec := doJSON(e, http.MethodGet, "/users/me", "", map[string]string{
			echo.HeaderAuthorization: "Bearer bad",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp errs.ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid token", resp.Error)
		assert.Equal(t, assert.AnError.Error(), resp.Details)
	})
}

func TestEmailLookupRoute(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		e := newServer(&stubAuthService{
			byEmail: func(email string) (*model.PublicUser, error) {
				assert.Equal(t, "ann@x.com", email)
				return annPublic, nil
			},
		})

		rec := doJSON(e, http.MethodPost, "/users/email", `{"email":"ann@x.com"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("not found", func(t *testing.T) {
		e := newServer(&stubAuthService{
			byEmail: func(_ string) (*model.PublicUser, error) {
				return nil, errs.ErrUserNotFound
			},
		})

		rec := doJSON(e, http.MethodPost, "/users/email", `{"email":"nobody@x.com"}`, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing email field", func(t *testing.T) {
		e := newServer(&stubAuthService{})

		rec := doJSON(e, http.MethodPost, "/users/email", `{}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
