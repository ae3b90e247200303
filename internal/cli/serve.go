package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arkproperty/ark/internal/application"
	"github.com/arkproperty/ark/internal/auth"
	"github.com/arkproperty/ark/internal/backend"
	"github.com/arkproperty/ark/internal/config"
	"github.com/arkproperty/ark/internal/contact"
	"github.com/arkproperty/ark/internal/db"
	"github.com/arkproperty/ark/internal/email"
	"github.com/arkproperty/ark/internal/geocode"
	"github.com/arkproperty/ark/internal/logging"
	"github.com/arkproperty/ark/internal/property"
	"github.com/arkproperty/ark/internal/telemetry"
	"github.com/arkproperty/ark/internal/web"
)

// devSecret signs local tokens in dev mode when ARK_JWT_SECRET is unset.
const devSecret = "ark-dev-secret"

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the website",
		Long: `Start the HTTP server for the website and JSON API.

Settings come from ARK_* environment variables. With ARK_BACKEND_URL set the
hosted backend serves data and sign-in; otherwise a local SQLite database does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: $ARK_PORT or 8080)")

	return cmd
}

func runServe(ctx context.Context, port int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logging.Setup(cfg.DevMode)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "ark", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("shutting down tracing", "error", err)
		}
	}()

	b, cleanup, err := newBackends(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	withNotifications(cfg, &b)

	srv, err := web.NewServer(web.Options{
		Properties:    b.props,
		Applications:  application.NewService(b.apps, b.props),
		Contact:       b.contact,
		Auth:          b.auth,
		Geocoder:      geocode.NewClient(cfg.GeocodeURL, cfg.UserAgent, cfg.RequestTimeout),
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Port, "hosted", cfg.Hosted(), "dev", cfg.DevMode)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// backends are the stores and identity provider behind the site.
type backends struct {
	props   property.Store
	apps    application.Store
	contact contact.Store
	auth    auth.Provider
}

// newBackends wires the hosted backend or the local database for cfg. The
// returned cleanup func releases the local database when one was opened.
func newBackends(cfg config.Config) (backends, func(), error) {
	if cfg.Hosted() {
		c := backend.New(cfg.BackendURL, cfg.BackendAnonKey, cfg.RequestTimeout)
		return backends{
			props:   c.Properties(),
			apps:    c.Applications(),
			contact: c.Contact(),
			auth:    c.Identity(),
		}, func() {}, nil
	}

	path, err := dbPath(cfg.DBPath)
	if err != nil {
		return backends{}, nil, err
	}
	database, err := db.Open(path)
	if err != nil {
		return backends{}, nil, err
	}

	secret := cfg.JWTSecret
	if secret == "" {
		slog.Warn("ARK_JWT_SECRET not set, signing tokens with the dev secret")
		secret = devSecret
	}
	provider, err := auth.NewLocalProvider(database, secret)
	if err != nil {
		closeDB(database)
		return backends{}, nil, err
	}

	slog.Info("using local database", "path", path)
	return backends{
		props:   property.NewRepository(database),
		apps:    application.NewRepository(database),
		contact: contact.NewRepository(database),
		auth:    provider,
	}, func() { closeDB(database) }, nil
}

// withNotifications wraps the application and contact stores with email
// notifications when SMTP is configured.
func withNotifications(cfg config.Config, b *backends) {
	smtpCfg := email.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}
	if !smtpCfg.IsConfigured() {
		return
	}

	mailer := email.NewMailer(smtpCfg)
	b.apps = email.NewApplicationStore(b.apps, mailer, cfg.SiteURL)
	if len(cfg.NotifyTo) > 0 {
		b.contact = email.NewContactStore(b.contact, mailer, cfg.NotifyTo)
	}
	slog.Info("email notifications enabled", "smtp_host", cfg.SMTPHost, "notify_to", cfg.NotifyTo)
}

// localSecret returns the signing secret for commands that open the local store directly.
func localSecret() string {
	if v := os.Getenv("ARK_JWT_SECRET"); v != "" {
		return v
	}
	return devSecret
}
