package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"paintpro/internal/auth"
	"paintpro/internal/errors"
	"paintpro/internal/model"
	"paintpro/internal/service"
)

// AuthHandler handles PIN authentication endpoints.
type AuthHandler struct {
	profileService service.ProfileService
	jwtService     *auth.JWTService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(profileService service.ProfileService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{profileService: profileService, jwtService: jwtService}
}

// LoginRequest represents a PIN login request.
type LoginRequest struct {
	PIN string `json:"pin" validate:"required,numeric,len=6"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	Session     *model.Session `json:"session"`
}

// Login godoc
// @Summary Login with a profile PIN
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.profileService.Login(c.Request().Context(), req.PIN)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	accessToken, err := h.jwtService.GenerateAccessToken(session.ProfileID, session.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to issue token",
			Code:  "TOKEN_FAILED",
		})
	}

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken: accessToken,
		Session:     session,
	})
}

// Logout godoc
// @Summary Logout the active profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.profileService.Logout(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to logout",
			Code:  "LOGOUT_FAILED",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// Session godoc
// @Summary Return the active session, restoring it from the cache if needed
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Session
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	session := h.profileService.CurrentSession()
	if session == nil {
		restored, err := h.profileService.RestoreSession(c.Request().Context())
		if err != nil || restored == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "no active session",
				Code:  "NO_SESSION",
			})
		}
		session = restored
	}
	return c.JSON(http.StatusOK, session)
}

// profileIDFromToken extracts the authenticated profile id from the JWT put
// in the context by the echo-jwt middleware.
func profileIDFromToken(c echo.Context) (int64, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims.ProfileID, nil
}
