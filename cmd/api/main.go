package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"styledeco/internal/config"
	"styledeco/internal/database"
	"styledeco/internal/modules/identity"
	"styledeco/internal/modules/payment"
	"styledeco/internal/pkg/cache"
	"styledeco/internal/pkg/logger"
	"styledeco/internal/pkg/notify"
	"styledeco/internal/repository"
	"styledeco/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		return err
	}
	// Postgres schemas are owned by cmd/migrate.
	if !database.IsPostgres(cfg.DatabaseURL) {
		if err := repository.AutoMigrate(db); err != nil {
			return err
		}
	}

	deps := server.Deps{
		Config: cfg,
		DB:     db,
		Logger: zlog,
	}

	if cfg.FirebaseEnabled() {
		verifier, err := firebaseVerifier(ctx, cfg)
		if err != nil {
			return err
		}
		deps.External = verifier
		zlog.Info("firebase id tokens enabled", zap.String("project", cfg.FirebaseProjectID))
	}

	if cfg.RedisEnabled() {
		rc, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rc.Close()
		deps.Cache = rc
	} else {
		zlog.Warn("REDIS_ADDR not set, using in-process cache")
		deps.Cache = cache.NewMemory()
	}

	if cfg.TwilioEnabled() {
		deps.SMS = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	} else {
		deps.SMS = notify.Noop{}
	}

	if cfg.StripeSecretKey != "" {
		deps.Processor = payment.NewStripeProcessor(payment.StripeConfig{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Currency:      cfg.StripeCurrency,
			ClientURL:     cfg.ClientURL,
		})
	} else {
		zlog.Warn("STRIPE_SECRET_KEY not set, checkout is disabled")
	}

	srv, err := server.New(deps)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("listening", zap.String("addr", httpServer.Addr), zap.String("env", cfg.AppEnv))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func firebaseVerifier(ctx context.Context, cfg *config.Config) (*identity.FirebaseVerifier, error) {
	var opts []option.ClientOption
	if cfg.GoogleApplicationCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleApplicationCredentials))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return identity.NewFirebaseVerifier(client), nil
}
