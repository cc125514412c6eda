package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"paintpro/internal/calendar"
	"paintpro/internal/errors"
	"paintpro/internal/model"
	"paintpro/internal/report"
	"paintpro/internal/service"
)

// ReportHandler produces the downloadable exports.
type ReportHandler struct {
	jobService     service.JobService
	profileService service.ProfileService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(jobService service.JobService, profileService service.ProfileService) *ReportHandler {
	return &ReportHandler{jobService: jobService, profileService: profileService}
}

// DownloadPDF godoc
// @Summary Download the five-section PDF report
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reports/pdf [get]
func (h *ReportHandler) DownloadPDF(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	jobs, _, err := h.jobService.List(c.Request().Context(), ownerID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	now := time.Now()
	pdfBytes, err := report.BuildPDF(report.ExportData{
		Profile:     h.profileFor(ownerID),
		Jobs:        jobs,
		Projection:  calendar.Project(jobs),
		GeneratedAt: now,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to render report",
			Code:  "EXPORT_FAILED",
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", report.FileName(now)))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

// DownloadXLSX godoc
// @Summary Download the full ledger as an XLSX workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reports/xlsx [get]
func (h *ReportHandler) DownloadXLSX(c echo.Context) error {
	ownerID, err := profileIDFromToken(c)
	if err != nil {
		return err
	}

	jobs, _, err := h.jobService.List(c.Request().Context(), ownerID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	now := time.Now()
	xlsxBytes, err := report.BuildXLSX(jobs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to render export",
			Code:  "EXPORT_FAILED",
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", report.XLSXFileName(now)))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsxBytes)
}

// profileFor resolves the exporting profile from the in-memory roster; the
// export degrades to an anonymous header when the roster has no match.
func (h *ReportHandler) profileFor(ownerID int64) model.PublicProfile {
	for _, p := range h.profileService.Roster() {
		if p.ID == ownerID {
			return p.Public()
		}
	}
	if session := h.profileService.CurrentSession(); session != nil && session.ProfileID == ownerID {
		return model.PublicProfile{
			ID:     session.ProfileID,
			Name:   session.Name,
			Avatar: session.Avatar,
			Color:  session.Color,
		}
	}
	return model.PublicProfile{ID: ownerID}
}
