package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"paintpro/internal/errors"
	"paintpro/internal/model"
	"paintpro/internal/service"
)

// ProfileHandler handles profile roster endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// CreateProfileRequest represents a new profile submission.
type CreateProfileRequest struct {
	Name   string `json:"name" validate:"required,max=64"`
	PIN    string `json:"pin" validate:"required,numeric,len=6"`
	Avatar string `json:"avatar" validate:"omitempty,max=4"`
	Color  string `json:"color" validate:"omitempty,hexcolor"`
}

// EditProfileRequest represents a profile mutation. PIN is the target's
// current PIN and authorizes the change; NewPIN replaces it when set.
type EditProfileRequest struct {
	PIN    string `json:"pin" validate:"required,numeric,len=6"`
	Name   string `json:"name" validate:"omitempty,max=64"`
	NewPIN string `json:"new_pin" validate:"omitempty,numeric,len=6"`
	Avatar string `json:"avatar" validate:"omitempty,max=4"`
	Color  string `json:"color" validate:"omitempty,hexcolor"`
}

// DeleteProfileRequest authorizes a profile deletion.
type DeleteProfileRequest struct {
	PIN string `json:"pin" validate:"required,numeric,len=6"`
}

// ProfileListResponse is the public roster plus the store that answered.
type ProfileListResponse struct {
	Profiles []model.PublicProfile `json:"profiles"`
	Source   service.Source        `json:"source"`
}

// ProfileResponse is one profile plus the store that accepted the write.
type ProfileResponse struct {
	Profile model.PublicProfile `json:"profile"`
	Source  service.Source      `json:"source"`
}

// ListProfiles godoc
// @Summary List the profile roster without PINs
// @Tags profiles
// @Produce json
// @Success 200 {object} ProfileListResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profiles [get]
func (h *ProfileHandler) ListProfiles(c echo.Context) error {
	profiles, source, err := h.profileService.LoadProfiles(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	public := make([]model.PublicProfile, 0, len(profiles))
	for _, p := range profiles {
		public = append(public, p.Public())
	}
	return c.JSON(http.StatusOK, ProfileListResponse{Profiles: public, Source: source})
}

// CreateProfile godoc
// @Summary Create a profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProfileRequest true "Profile data"
// @Success 201 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /profiles [post]
func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	var req CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, source, err := h.profileService.AddProfile(c.Request().Context(), service.ProfileInput{
		Name:   req.Name,
		PIN:    req.PIN,
		Avatar: req.Avatar,
		Color:  req.Color,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, ProfileResponse{Profile: profile.Public(), Source: source})
}

// UpdateProfile godoc
// @Summary Edit a profile, authorized by its current PIN
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Param request body EditProfileRequest true "Profile changes"
// @Success 200 {object} model.PublicProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /profiles/{id} [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid profile id",
			Code:  "INVALID_ID",
		})
	}

	var req EditProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.profileService.EditProfile(c.Request().Context(), id, req.PIN, service.ProfileInput{
		Name:   req.Name,
		PIN:    req.NewPIN,
		Avatar: req.Avatar,
		Color:  req.Color,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profile.Public())
}

// DeleteProfile godoc
// @Summary Delete a profile and all of its jobs, authorized by its PIN
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Param request body DeleteProfileRequest true "Authorizing PIN"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /profiles/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid profile id",
			Code:  "INVALID_ID",
		})
	}

	var req DeleteProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.profileService.DeleteProfile(c.Request().Context(), id, req.PIN); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "profile deleted",
	})
}
