// Package api is the HTTP surface of gophdrive: account routes, the file
// routes behind the session cookie, liveness and metrics.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// UserService is the account side consumed by the handlers.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.Session, error)
	Authenticate(ctx context.Context, token string) (int64, error)
}

// FileService is the per-owner file side consumed by the handlers.
type FileService interface {
	Upload(ctx context.Context, ownerID int64, files []services.UploadFile) (*services.UploadResult, error)
	List(ctx context.Context, ownerID int64) ([]*models.File, error)
	Download(ctx context.Context, ownerID int64, ref services.FileRef) (*services.Download, error)
	Delete(ctx context.Context, ownerID int64, ref services.FileRef) error
}

type Server struct {
	address       string
	users         UserService
	files         FileService
	logger        logging.Logger
	maxUploadSize int64
	cookieSecure  bool
	// serveMetrics mounts /metrics on the API router; false when a separate
	// metrics listener is configured.
	serveMetrics bool
}

func NewServer(c *config.Config, l logging.Logger, us UserService, fs FileService) *Server {
	return &Server{
		address:       c.ListenAddr,
		users:         us,
		files:         fs,
		logger:        l.With("module", "http_server"),
		maxUploadSize: c.MaxUploadSize,
		cookieSecure:  c.CookieSecure,
		serveMetrics:  c.MetricsAddr == "",
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger, middleware.Recoverer, MetricsMiddleware())

	r.Get("/ping", s.handlePing)
	if s.serveMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Post("/logout", s.handleLogout)
		r.Get("/logout", s.handleLogout)
		r.Get("/files", s.handleListFiles)
		r.Post("/upload", s.handleUpload)
		r.Get("/download", s.handleDownload)
		r.Get("/download/*", s.handleDownload)
		r.Delete("/delete", s.handleDelete)
		r.Delete("/delete/*", s.handleDelete)
	})

	return r
}

// Run serves the API on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
	return serve(ctx, s.address, s.Handler(), s.logger)
}

// ServeMetrics exposes /metrics alone on addr until ctx is cancelled.
func ServeMetrics(ctx context.Context, addr string, l logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	l.Info(ctx, "Starting metrics server", "address", addr)
	return serve(ctx, addr, mux, l)
}

func serve(ctx context.Context, addr string, h http.Handler, l logging.Logger) error {
	listen, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		l.Info(ctx, "Stopping HTTP server...", "address", addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error(ctx, "graceful shutdown failed", "error", err)
		}
	}()

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}
