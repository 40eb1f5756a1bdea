package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"kanban/internal/service"
	"kanban/internal/store"
)

const (
	allowRemoteEnvKey = "KANBAN_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second

	sessionPruneInterval = time.Hour

	loginMaxFailures = 5
	loginWindow      = 5 * time.Minute
	loginBlockedFor  = 15 * time.Minute
)

// Options configures a Server.
type Options struct {
	// SessionTTL is the lifetime of tokens issued at login. Zero means 24h.
	SessionTTL time.Duration
	// Tasks tunes lifecycle rules.
	Tasks service.TaskServiceOptions
	// Hasher hashes passwords of users created over the API. Nil means auth.DefaultHasher.
	Hasher service.PasswordHasher
	Logger *slog.Logger
}

// Server wraps HTTP handlers for the kanban API.
type Server struct {
	addr         string
	store        *store.Store
	tasks        *service.TaskService
	users        *service.UserService
	types        *service.TaskTypeService
	reports      *service.ReportService
	authService  *AuthService
	loginLimiter *loginRateLimiter
	logger       *slog.Logger
	now          func() time.Time
}

// New creates a new server instance over an open store.
func New(addr string, st *store.Store, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Tasks.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	taskOpts := opts.Tasks
	taskOpts.Now = now
	taskOpts.Logger = logger

	return &Server{
		addr:         addr,
		store:        st,
		tasks:        service.NewTaskService(st, taskOpts),
		users:        service.NewUserService(st, opts.Hasher, logger),
		types:        service.NewTaskTypeService(st, logger),
		reports:      service.NewReportService(st, now),
		authService:  NewAuthService(st, opts.SessionTTL),
		loginLimiter: newLoginRateLimiter(loginMaxFailures, loginWindow, loginBlockedFor),
		logger:       logger.With("component", "server"),
		now:          now,
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.withRequestLogging(s.withAuth(s.routes()))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.pruneSessionsEvery(janitorCtx, sessionPruneInterval)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// pruneSessionsEvery deletes expired and revoked sessions until ctx ends.
func (s *Server) pruneSessionsEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.authService.PruneSessions(ctx, s.now())
			if err != nil {
				s.log().Warn("session prune failed", "error", err)
				continue
			}
			if removed > 0 {
				s.log().Debug("pruned sessions", "count", removed)
			}
		}
	}
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
