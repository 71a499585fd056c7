// Package web hosts the browser-facing team management service.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/louisbranch/teamdesk/internal/platform/timeouts"
	webapp "github.com/louisbranch/teamdesk/internal/services/web/app"
	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	"github.com/louisbranch/teamdesk/internal/services/web/modules"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/formtoken"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/observability"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/teamdesk/internal/services/web/routepath"
	webstatic "github.com/louisbranch/teamdesk/internal/services/web/static"
	"github.com/louisbranch/teamdesk/internal/services/web/storage"
	"github.com/louisbranch/teamdesk/internal/tenantapi"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr     string
	TenantClient *tenantapi.Client
	Store        storage.Store
	FormTokens   *formtoken.Issuer
	Metrics      *observability.Metrics
	SchemePolicy requestmeta.SchemePolicy
	Logger       *log.Logger
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler from the default module registry.
func NewHandler(cfg Config) (http.Handler, error) {
	principal := newPrincipalResolver(cfg.Store)
	resolvers := modules.ModuleResolvers{
		ResolveViewer:   principal.resolveViewer,
		ResolveUserID:   principal.resolveRequestUserID,
		ResolveToken:    principal.resolveToken,
		ResolveLanguage: principal.resolveRequestLanguage,
	}
	deps := modules.Dependencies{
		FormTokens:   cfg.FormTokens,
		SchemePolicy: cfg.SchemePolicy,
	}
	if cfg.TenantClient != nil {
		deps.LoginClient = cfg.TenantClient
		deps.TeamsClient = cfg.TenantClient
	}
	if cfg.Store != nil {
		deps.Sessions = cfg.Store
		deps.Submissions = cfg.Store
	}
	publicModules := modules.DefaultPublicModules(deps, resolvers)
	protectedModules := modules.DefaultProtectedModules(deps, resolvers)
	h, err := webapp.BuildRootHandler(webapp.Config{
		PublicModules:    publicModules,
		ProtectedModules: protectedModules,
		SchemePolicy:     cfg.SchemePolicy,
	}, principal.authRequired())
	if err != nil {
		return nil, err
	}

	rootMux := http.NewServeMux()
	rootMux.Handle(http.MethodGet+" "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(webstatic.FS))))
	rootMux.Handle(http.MethodGet+" "+routepath.Health, healthHandler(append(publicModules, protectedModules...)))
	if cfg.Metrics != nil {
		rootMux.Handle(http.MethodGet+" "+routepath.Metrics, cfg.Metrics.Handler())
	}
	rootMux.Handle("/", h)

	middleware := []httpx.Middleware{
		httpx.RecoverPanic(),
		httpx.RequestID(),
		withRequestPrincipalState(),
	}
	if cfg.Metrics != nil {
		middleware = append(middleware, cfg.Metrics.Middleware())
	}
	middleware = append(middleware, observability.RequestLogger(cfg.Logger))
	return httpx.Chain(rootMux, middleware...), nil
}

// healthHandler answers 200 when every module reports healthy and 503 naming
// the degraded modules otherwise.
func healthHandler(mods []module.Module) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var degraded []string
		for _, m := range mods {
			if reporter, ok := m.(module.HealthReporter); ok && !reporter.Healthy() {
				degraded = append(degraded, m.ID())
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(degraded) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
			return
		}
		sort.Strings(degraded)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("DEGRADED " + strings.Join(degraded, ",")))
	})
}

func withRequestPrincipalState() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r == nil {
				next.ServeHTTP(w, r)
				return
			}
			state := &requestPrincipalState{}
			ctx := context.WithValue(r.Context(), requestPrincipalStateKey{}, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestPrincipalStateFromRequest(r *http.Request) *requestPrincipalState {
	if r == nil {
		return nil
	}
	state, _ := r.Context().Value(requestPrincipalStateKey{}).(*requestPrincipalState)
	return state
}

// NewServer validates config and constructs a web server.
func NewServer(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
