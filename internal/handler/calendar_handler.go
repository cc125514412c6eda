package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"paintpro/internal/calendar"
	"paintpro/internal/errors"
	"paintpro/internal/gateway"
	"paintpro/internal/model"
	"paintpro/internal/service"
)

// CalendarHandler serves the calendar projection of the job ledger.
type CalendarHandler struct {
	jobService service.JobService
	gw         gateway.Gateway
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(jobService service.JobService, gw gateway.Gateway) *CalendarHandler {
	return &CalendarHandler{jobService: jobService, gw: gw}
}

// CalendarEventRequest represents the reduced field set captured by the
// calendar's day-click editor.
type CalendarEventRequest struct {
	Client    string          `json:"client" validate:"required,max=255"`
	Address   string          `json:"address" validate:"omitempty,max=512"`
	Telephone string          `json:"telephone" validate:"omitempty,max=64"`
	Price     decimal.Decimal `json:"price"`
	Date      model.CzechDate `json:"date" validate:"required"`
	EndDate   model.CzechDate `json:"endDate"`
	Color     string          `json:"color" validate:"omitempty,hexcolor"`
	Status    model.JobStatus `json:"status" validate:"omitempty,oneof=incoming completed"`
}

// CalendarResponse is the projection plus the store that answered.
type CalendarResponse struct {
	Events  []calendar.Event `json:"events"`
	Summary calendar.Summary `json:"summary"`
	Source  service.Source   `json:"source"`
}

// GetCalendar godoc
// @Summary Project the job ledger into calendar events and financial rollups
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CalendarResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /calendar [get]
func (h *CalendarHandler) GetCalendar(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	jobs, source, err := h.jobService.List(c.Request().Context(), ownerID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	projection := calendar.Project(jobs)
	return c.JSON(http.StatusOK, CalendarResponse{
		Events:  projection.Events,
		Summary: projection.Summary,
		Source:  source,
	})
}

// CreateEvent godoc
// @Summary Create a job from the calendar view
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CalendarEventRequest true "Event data"
// @Success 201 {object} JobListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /calendar/events [post]
func (h *CalendarHandler) CreateEvent(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	var req CalendarEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	jobs, source, err := h.jobService.CreateFromCalendar(c.Request().Context(), ownerID, service.CalendarEventInput{
		Client:    req.Client,
		Address:   req.Address,
		Telephone: req.Telephone,
		Price:     req.Price,
		Date:      req.Date,
		EndDate:   req.EndDate,
		Color:     req.Color,
		Status:    req.Status,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, JobListResponse{Jobs: jobs, Source: source})
}

// StreamCalendar godoc
// @Summary Stream live calendar projections as server-sent events
// @Tags calendar
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "SSE stream of CalendarResponse payloads"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 501 {object} errors.ErrorResponse
// @Router /calendar/stream [get]
func (h *CalendarHandler) StreamCalendar(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	watcher, ok := h.gw.(gateway.Watcher)
	if !ok {
		// Only the document backend pushes snapshots.
		return echo.NewHTTPError(http.StatusNotImplemented, errors.ErrorResponse{
			Error: "live updates not supported by this backend",
			Code:  "STREAM_UNSUPPORTED",
		})
	}

	ctx := c.Request().Context()
	snapshots, cancel, err := watcher.Watch(ctx, ownerID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	for {
		select {
		case <-ctx.Done():
			return nil
		case jobs, open := <-snapshots:
			if !open {
				return nil
			}
			projection := calendar.Project(jobs)
			payload, err := json.Marshal(CalendarResponse{
				Events:  projection.Events,
				Summary: projection.Summary,
				Source:  service.SourceRemote,
			})
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
