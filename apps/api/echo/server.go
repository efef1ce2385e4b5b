package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-extractor/core"
	"github.com/trezcool/masomo-extractor/core/extraction"
	metricsvc "github.com/trezcool/masomo-extractor/services/metrics"
)

type (
	// Extractor is the text-extraction capability the API serves.
	Extractor interface {
		Extract(ctx context.Context, url string) (extraction.Result, error)
	}

	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Extractor  Extractor
		Metrics    *metricsvc.Metrics
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		app      *echo.Echo
		addr     string
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		app:      echo.New(),
		addr:     deps.Conf.Server.Host(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}

	s.app.HideBanner = true
	s.app.Debug = deps.Conf.Debug
	s.app.Server.ReadTimeout = deps.Conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = deps.Conf.Server.WriteTimeout
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger)

	useMiddleware(s.app, deps.Conf)

	s.app.GET("/", home)
	s.app.GET("/health", health)
	s.app.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))

	registerExtractionAPI(s.app, newAuthMiddleware(deps.Conf.Server.JWTSecret), deps)

	return s
}

// Start relays SIGINT and SIGTERM to ShutdownSignal, then blocks until the server stops.
// Failures are sent to Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// Shutdown stops accepting connections and waits for in-flight extractions until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Masomo Extractor API!")
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
