package echoapi

import (
	"context"
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/analytics"
	"github.com/coursehub/backend/core/assignment"
	"github.com/coursehub/backend/core/course"
	"github.com/coursehub/backend/core/enrollment"
	"github.com/coursehub/backend/core/grading"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/core/submission"
	"github.com/coursehub/backend/core/user"
)

type (
	Options struct {
		Address        string
		ReadTimeout    time.Duration
		WriteTimeout   time.Duration
		Debug          bool
		TestMode       bool
		DisableReqLogs bool
		SecretKey      []byte
		AppName        string
	}

	// Deps are the services exposed as functions.
	Deps struct {
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		DB         core.Pinger

		UserSvc         *user.Service
		CourseSvc       *course.Service
		EnrollmentSvc   *enrollment.Service
		AssignmentSvc   *assignment.Service
		SubmissionSvc   *submission.Service
		GradingSvc      *grading.Service
		AnalyticsSvc    *analytics.Service
		NotificationSvc *notification.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		deps     *Deps
		app      *echo.Echo
		shutdown chan<- struct{}
	}
)

var _ Server = (*server)(nil)

// NewServer builds the API. A shutdown error raised by a handler is reported on shutdown, when not nil.
func NewServer(opts *Options, shutdown chan<- struct{}, deps *Deps) Server {
	s := &server{
		opts:     opts,
		deps:     deps,
		app:      echo.New(),
		shutdown: shutdown,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.opts.Debug
	s.app.Server.ReadTimeout = s.opts.ReadTimeout
	s.app.Server.WriteTimeout = s.opts.WriteTimeout
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Pre(corsMiddleware)
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.opts.Debug || s.opts.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware)

	s.app.GET("/", s.home)
	s.app.GET("/health", s.health)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	fg := s.app.Group("/functions/v1", jwtMiddleware(s.opts.SecretKey), identityMiddleware)
	fg.POST("/user-service", s.serve(s.userFunctions()))
	fg.POST("/course-service", s.serve(s.courseFunctions()))
	fg.POST("/enrollment-service", s.serve(s.enrollmentFunctions()))
	fg.POST("/assignment-service", s.serve(s.assignmentFunctions()))
	fg.POST("/submission-service", s.serve(s.submissionFunctions()))
	fg.POST("/grading-service", s.serve(s.gradingFunctions()))
	fg.POST("/analytics-service", s.serve(s.analyticsFunctions()))
	fg.POST("/notification-service", s.serve(s.notificationFunctions()))
}

func (s *server) signalShutdown() {
	if s.shutdown == nil {
		return
	}
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

// Start blocks until the server stops. A graceful Stop is not an error.
func (s *server) Start() error {
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.AppName+" API!")
}

func (s *server) health(ctx echo.Context) error {
	if err := s.deps.DB.PingContext(ctx.Request().Context()); err != nil {
		s.deps.Logger.Warn("health check failed", err)
		return ctx.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
