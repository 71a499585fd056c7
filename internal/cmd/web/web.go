// Package web parses web command flags and launches the team management site.
package web

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/teamdesk/internal/platform/cmd"
	"github.com/louisbranch/teamdesk/internal/platform/timeouts"
	"github.com/louisbranch/teamdesk/internal/services/web"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/formtoken"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/observability"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/teamdesk/internal/services/web/storage"
	"github.com/louisbranch/teamdesk/internal/services/web/storage/sqlite"
	"github.com/louisbranch/teamdesk/internal/tenantapi"
)

const minFormTokenKeyLen = 32

// sessionSweepInterval is how often expired sessions are purged.
const sessionSweepInterval = time.Hour

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"TEAMDESK_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	APIBaseURL          string        `env:"TEAMDESK_WEB_API_BASE_URL" envDefault:"http://localhost:8000"`
	DBPath              string        `env:"TEAMDESK_WEB_DB_PATH" envDefault:"data/teamdesk-web.db"`
	FormTokenKey        string        `env:"TEAMDESK_WEB_FORM_TOKEN_KEY"`
	APITimeout          time.Duration `env:"TEAMDESK_WEB_API_TIMEOUT" envDefault:"10s"`
	TrustForwardedProto bool          `env:"TEAMDESK_WEB_TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Tenant REST API base URL")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite path for sessions and form submissions")
	fs.StringVar(&cfg.FormTokenKey, "form-token-key", cfg.FormTokenKey, "HMAC key for create-team form tokens (at least 32 bytes)")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Timeout for one tenant API call")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto when checking request origin")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("http address is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(c.APIBaseURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("api base url %q must be an absolute http(s) url", c.APIBaseURL)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db path is required")
	}
	if key := c.FormTokenKey; key != "" && len(key) < minFormTokenKeyLen {
		return fmt.Errorf("form token key must be at least %d bytes", minFormTokenKeyLen)
	}
	if c.APITimeout < 0 {
		return errors.New("api timeout must not be negative")
	}
	return nil
}

// formTokenKey returns the configured key or a random one. A random key
// invalidates open create forms on every restart.
func formTokenKey(configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	key := make([]byte, minFormTokenKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate form token key: %w", err)
	}
	log.Printf("web: TEAMDESK_WEB_FORM_TOKEN_KEY not set; using a random key for this process")
	return key, nil
}

// Run starts the web server and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		return serve(ctx, cfg)
	})
}

func serve(ctx context.Context, cfg Config) error {
	key, err := formTokenKey(cfg.FormTokenKey)
	if err != nil {
		return err
	}
	issuer, err := formtoken.NewIssuer(key, timeouts.FormToken)
	if err != nil {
		return fmt.Errorf("init form tokens: %w", err)
	}

	metrics, err := observability.NewMetrics(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	apiTimeout := cfg.APITimeout
	if apiTimeout == 0 {
		apiTimeout = timeouts.APIRequest
	}
	client, err := tenantapi.NewClient(cfg.APIBaseURL,
		tenantapi.WithTimeout(apiTimeout),
		tenantapi.WithObserver(metrics),
	)
	if err != nil {
		return fmt.Errorf("init tenant api client: %w", err)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open web store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("web: close store err=%v", err)
		}
	}()
	go sweepExpiredSessions(ctx, store, sessionSweepInterval)

	server, err := web.NewServer(web.Config{
		HTTPAddr:     cfg.HTTPAddr,
		TenantClient: client,
		Store:        store,
		FormTokens:   issuer,
		Metrics:      metrics,
		SchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		Logger:       log.Default(),
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}
	defer server.Close()

	log.Printf("web: listening addr=%s api=%s", server.Addr(), cfg.APIBaseURL)
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}

// sweepExpiredSessions deletes expired sessions every interval until ctx ends.
func sweepExpiredSessions(ctx context.Context, sessions storage.SessionStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := sessions.DeleteExpiredSessions(ctx, now)
			if err != nil {
				log.Printf("web: session sweep failed err=%v", err)
				continue
			}
			if removed > 0 {
				log.Printf("web: session sweep removed=%d", removed)
			}
		}
	}
}
