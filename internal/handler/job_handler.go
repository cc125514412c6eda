package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"paintpro/internal/errors"
	"paintpro/internal/model"
	"paintpro/internal/service"
)

// JobHandler handles job ledger endpoints.
type JobHandler struct {
	jobService service.JobService
}

// NewJobHandler creates a new job handler.
func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// JobRequest represents a job create or update submission. Profit is not
// accepted: it is derived server-side.
type JobRequest struct {
	Date         model.CzechDate `json:"date" validate:"required"`
	EndDate      model.CzechDate `json:"endDate"`
	Category     model.Category  `json:"category" validate:"required,oneof=Adam MVČ Korálek Ostatní"`
	Client       string          `json:"client" validate:"required,max=255"`
	JobNumber    string          `json:"jobNumber" validate:"required,max=64"`
	Address      string          `json:"address" validate:"omitempty,max=512"`
	Telephone    string          `json:"telephone" validate:"omitempty,max=64"`
	Price        decimal.Decimal `json:"price"`
	Fee          decimal.Decimal `json:"fee"`
	FeeOff       decimal.Decimal `json:"feeOff"`
	Material     decimal.Decimal `json:"material"`
	Helper       decimal.Decimal `json:"helper"`
	Fuel         decimal.Decimal `json:"fuel"`
	DurationDays int             `json:"durationDays" validate:"omitempty,min=1"`
	Notes        string          `json:"notes"`
	Color        string          `json:"color" validate:"omitempty,hexcolor"`
	Status       model.JobStatus `json:"status" validate:"omitempty,oneof=incoming completed"`
}

// StatusRequest flips a job between incoming and completed.
type StatusRequest struct {
	Status model.JobStatus `json:"status" validate:"required,oneof=incoming completed"`
}

// JobListResponse is the owner's refreshed job list plus the store that
// answered.
type JobListResponse struct {
	Jobs   []model.Job    `json:"jobs"`
	Source service.Source `json:"source"`
}

func (r JobRequest) toInput() service.JobInput {
	return service.JobInput{
		Date:         r.Date,
		EndDate:      r.EndDate,
		Category:     r.Category,
		Client:       r.Client,
		JobNumber:    r.JobNumber,
		Address:      r.Address,
		Telephone:    r.Telephone,
		Price:        r.Price,
		Fee:          r.Fee,
		FeeOff:       r.FeeOff,
		MaterialCost: r.Material,
		HelperCost:   r.Helper,
		FuelCost:     r.Fuel,
		DurationDays: r.DurationDays,
		Notes:        r.Notes,
		Color:        r.Color,
		Status:       r.Status,
	}
}

// ListJobs godoc
// @Summary List the authenticated profile's jobs, newest first
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} JobListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	jobs, source, err := h.jobService.List(c.Request().Context(), ownerID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, JobListResponse{Jobs: jobs, Source: source})
}

// CreateJob godoc
// @Summary Create a job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body JobRequest true "Job data"
// @Success 201 {object} JobListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	var req JobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	jobs, source, err := h.jobService.Create(c.Request().Context(), ownerID, req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, JobListResponse{Jobs: jobs, Source: source})
}

// UpdateJob godoc
// @Summary Update a job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body JobRequest true "Job data"
// @Success 200 {object} JobListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	jobID, err := parseJobID(c)
	if err != nil {
		return err
	}

	var req JobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	jobs, source, err := h.jobService.Update(c.Request().Context(), ownerID, jobID, req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, JobListResponse{Jobs: jobs, Source: source})
}

// SetJobStatus godoc
// @Summary Set a job's status
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} JobListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id}/status [patch]
func (h *JobHandler) SetJobStatus(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	jobID, err := parseJobID(c)
	if err != nil {
		return err
	}

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	jobs, source, err := h.jobService.SetStatus(c.Request().Context(), ownerID, jobID, req.Status)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, JobListResponse{Jobs: jobs, Source: source})
}

// DeleteJob godoc
// @Summary Delete a job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} JobListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	jobID, err := parseJobID(c)
	if err != nil {
		return err
	}

	jobs, source, err := h.jobService.Delete(c.Request().Context(), ownerID, jobID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, JobListResponse{Jobs: jobs, Source: source})
}

// UploadAttachment godoc
// @Summary Attach a file to a job
// @Tags jobs
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param file formData file true "File to attach (max 5 MB)"
// @Success 200 {object} JobListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Router /jobs/{id}/files [post]
func (h *JobHandler) UploadAttachment(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	jobID, err := parseJobID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "missing file field",
			Code:  "MISSING_FILE",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unreadable file",
			Code:  "INVALID_FILE",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unreadable file",
			Code:  "INVALID_FILE",
		})
	}

	jobs, source, err := h.jobService.AttachFile(c.Request().Context(), ownerID, jobID, service.FileUpload{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, JobListResponse{Jobs: jobs, Source: source})
}

// RemoveAttachment godoc
// @Summary Remove an attachment from a job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param fileId path string true "Attachment ID"
// @Success 200 {object} JobListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id}/files/{fileId} [delete]
func (h *JobHandler) RemoveAttachment(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	jobID, err := parseJobID(c)
	if err != nil {
		return err
	}

	jobs, source, err := h.jobService.RemoveAttachment(c.Request().Context(), ownerID, jobID, c.Param("fileId"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, JobListResponse{Jobs: jobs, Source: source})
}

func parseJobID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid job id",
			Code:  "INVALID_ID",
		})
	}
	return id, nil
}
