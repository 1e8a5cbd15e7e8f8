package app

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/accredhub/accredhub/internal/invites/http"
	"github.com/accredhub/accredhub/internal/invites/mail"
	"github.com/accredhub/accredhub/internal/invites/service"
	"github.com/accredhub/accredhub/internal/invites/store"
	"github.com/accredhub/accredhub/internal/invites/store/drivers/sqlite"
	"github.com/accredhub/accredhub/pkg/jwtx"
	"github.com/accredhub/accredhub/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the invite service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	verifier jwtx.Verifier
	mailer   *mail.Mailer

	inviteService       *service.InviteService
	campaignService     *service.CampaignService
	campaignSender      *service.CampaignSender
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "invites-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initVerifier(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()
	app.campaignSender.Start()

	app.logger.Info("invites service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down invites service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.campaignSender.Stop()
	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("invites service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initVerifier loads the identity service's Ed25519 public key. Without a
// configured key an ephemeral one is generated so the service starts in
// dev mode, though no externally minted token will verify against it.
func (app *Application) initVerifier() error {
	if app.cfg.VerifyKeyFile != "" {
		pemBytes, err := os.ReadFile(app.cfg.VerifyKeyFile)
		if err != nil {
			return fmt.Errorf("failed to read verify key file: %w", err)
		}
		verifier, err := jwtx.NewEdDSAVerifierFromPEM(pemBytes)
		if err != nil {
			return fmt.Errorf("failed to parse verify key: %w", err)
		}
		app.verifier = verifier
		return nil
	}

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate ephemeral verify key: %w", err)
	}
	app.verifier = jwtx.NewEdDSAVerifier(pub)
	app.logger.Warn("no verify key configured, using ephemeral key; admin endpoints will reject external tokens")
	return nil
}

func (app *Application) initServices() {
	app.mailer = mail.New(mail.Config{
		Provider:     app.cfg.EmailProvider,
		ResendAPIKey: app.cfg.ResendAPIKey,
		SMTPHost:     app.cfg.SMTPHost,
		SMTPPort:     app.cfg.SMTPPort,
		FromAddress:  app.cfg.EmailFromAddress,
		FromName:     app.cfg.EmailFromName,
		BaseURL:      app.cfg.PublicBaseURL,
	}, app.logger)

	app.campaignService = &service.CampaignService{Store: app.db}

	// Campaign recipients track what happens to their linked invites.
	app.inviteService = &service.InviteService{
		Store:  app.db,
		Events: app.campaignService,
	}

	app.campaignSender = service.NewCampaignSender(
		app.db,
		app.mailer,
		app.logger,
		app.cfg.SenderInterval,
		app.cfg.SenderBatchSize,
	)

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.InviteRetention,
	)
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(
		app.verifier,
		app.cfg.Issuer,
		BuildVersion,
		app.db,
		app.logger,
	)
	app.router.InviteService = app.inviteService
	app.router.CampaignService = app.campaignService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
