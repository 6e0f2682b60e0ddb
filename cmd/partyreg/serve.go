package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	_ "partyreg/docs"
	"partyreg/internal/adapters/auth"
	"partyreg/internal/adapters/cache"
	"partyreg/internal/adapters/email"
	"partyreg/internal/adapters/metrics"
	"partyreg/internal/adapters/realtime"
	deliveryhttp "partyreg/internal/delivery/http"
	"partyreg/internal/delivery/http/controllers"
	"partyreg/internal/domain"
	"partyreg/internal/repository/postgres"
	"partyreg/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API and keep the dashboard's registration view in sync with
database change notifications until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply pending migrations before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveMigrate {
		if err := postgres.Migrate(cfg.DBUrl, 0); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	db, err := openDB(cmd.Context(), cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	partyRepo := postgres.NewPartyRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	m := metrics.New(prometheus.DefaultRegisterer)
	jwt := auth.NewJWT(cfg.JWTSecret)
	registrationsCache := cache.NewInMemory[[]*domain.RegistrationDetail]("registrations",
		cache.DefaultExpiration, cache.DefaultCleanupInterval, logger)

	registrationSvc := services.NewRegistrationService(partyRepo, eventRepo, registrationRepo, m, cfg.RequestTimeout)
	dashboardSvc := services.NewDashboardService(partyRepo, eventRepo, registrationRepo, registrationsCache, m, logger,
		cfg.FetchPageSize, cfg.FetchMaxRows, cfg.RequestTimeout)
	authSvc := services.NewAuthService(
		postgres.NewAdminUserRepository(db),
		postgres.NewLoginCodeRepository(db),
		auth.NewBcryptHasher(bcrypt.DefaultCost),
		jwt,
		cfg.JWTExpiry,
		services.NewEmailService(mailer, email.NewTemplateRenderer()),
	)

	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Logger:                 logger,
		Verifier:               jwt,
		CORSOrigins:            cfg.CORSOrigins,
		RegistrationController: controllers.NewRegistrationController(logger, registrationSvc),
		DashboardController:    controllers.NewDashboardController(logger, dashboardSvc),
		AuthController:         controllers.NewAuthController(logger, authSvc),
		HealthController:       controllers.NewHealthController(logger, db),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		listener := realtime.NewListener(cfg.DBUrl, logger)
		return listener.Subscribe(ctx, realtime.RegistrationsChannel, func() {
			dashboardSvc.OnRegistrationsChanged(ctx)
		})
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openDB(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
