package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"paintpro/internal/auth"
	"paintpro/internal/config"
	"paintpro/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	jobHandler *handler.JobHandler,
	calendarHandler *handler.CalendarHandler,
	reportHandler *handler.ReportHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded attachments are served straight from the bucket directory.
	e.Static("/files", cfg.StorageDir)

	api := e.Group("/api")

	// Public routes: the roster screen and PIN login come before a token exists.
	api.GET("/profiles", profileHandler.ListProfiles)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	// Session routes
	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/session", authHandler.Session)

	// Profile routes
	secured.POST("/profiles", profileHandler.CreateProfile)
	secured.PUT("/profiles/:id", profileHandler.UpdateProfile)
	secured.DELETE("/profiles/:id", profileHandler.DeleteProfile)

	// Job ledger routes
	secured.GET("/jobs", jobHandler.ListJobs)
	secured.POST("/jobs", jobHandler.CreateJob)
	secured.PUT("/jobs/:id", jobHandler.UpdateJob)
	secured.PATCH("/jobs/:id/status", jobHandler.SetJobStatus)
	secured.DELETE("/jobs/:id", jobHandler.DeleteJob)
	secured.POST("/jobs/:id/files", jobHandler.UploadAttachment)
	secured.DELETE("/jobs/:id/files/:fileId", jobHandler.RemoveAttachment)

	// Calendar routes
	secured.GET("/calendar", calendarHandler.GetCalendar)
	secured.POST("/calendar/events", calendarHandler.CreateEvent)
	secured.GET("/calendar/stream", calendarHandler.StreamCalendar)

	// Report routes
	secured.GET("/reports/pdf", reportHandler.DownloadPDF)
	secured.GET("/reports/xlsx", reportHandler.DownloadXLSX)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
