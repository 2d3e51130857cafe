// Package app assembles the identity service: configuration, stores,
// broker, services, HTTP server, and the shutdown sequence.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/config"
	"github.com/AbrarZaved/EduTutor/internal/domain/repository"
	"github.com/AbrarZaved/EduTutor/internal/events"
	"github.com/AbrarZaved/EduTutor/internal/events/kafka"
	httphandler "github.com/AbrarZaved/EduTutor/internal/handler/http"
	"github.com/AbrarZaved/EduTutor/internal/infrastructure/database"
	"github.com/AbrarZaved/EduTutor/internal/infrastructure/database/postgres"
	redisinfra "github.com/AbrarZaved/EduTutor/internal/infrastructure/redis"
	"github.com/AbrarZaved/EduTutor/internal/infrastructure/security"
	"github.com/AbrarZaved/EduTutor/internal/service"
	"github.com/AbrarZaved/EduTutor/migrations"
)

// App holds every component whose lifecycle the process manages.
type App struct {
	cfg         *config.Config
	logger      *zap.Logger
	dbPool      *pgxpool.Pool
	redisClient *goredis.Client
	producer    *kafka.Producer
	httpServer  *http.Server
	otpRepo     repository.OTPRepository
	refreshRepo repository.RefreshTokenRepository
}

// New wires the whole service together. Construction fails fast: any
// unreachable dependency aborts startup.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.Database.AutoMigrate {
		if err := migrations.Up(cfg.Database.DSN(), cfg.Database.MigrationsPath, logger); err != nil {
			return nil, err
		}
	}

	dbPool, err := postgres.NewDBPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisClient, err := redisinfra.NewClient(ctx, cfg.Redis)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	var producer *kafka.Producer
	var dispatcher events.NotificationDispatcher = events.NopDispatcher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic, cfg.Kafka.EventSource, logger)
		if err != nil {
			dbPool.Close()
			_ = redisClient.Close()
			return nil, err
		}
		dispatcher = producer
	} else {
		logger.Warn("no kafka brokers configured, notifications are discarded")
	}

	passwordService, err := security.NewArgon2idPasswordService(security.Argon2idParams{
		Memory:      cfg.Security.PasswordHash.Memory,
		Iterations:  cfg.Security.PasswordHash.Iterations,
		Parallelism: cfg.Security.PasswordHash.Parallelism,
		SaltLength:  cfg.Security.PasswordHash.SaltLength,
		KeyLength:   cfg.Security.PasswordHash.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	tokenManager, err := security.NewJWTService(security.JWTConfig{
		Issuer:                 cfg.JWT.Issuer,
		Audience:               cfg.JWT.Audience,
		AccessTokenTTL:         cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL:        cfg.JWT.RefreshTokenTTL,
		ResetLinkTTL:           cfg.JWT.ResetLinkTTL,
		PrivateKeyPEM:          cfg.JWT.RSAPrivateKeyPEM,
		PublicKeyPEM:           cfg.JWT.RSAPublicKeyPEM,
		JWKSKeyID:              cfg.JWT.JWKSKeyID,
		RefreshTokenByteLength: cfg.JWT.RefreshTokenByteLength,
	})
	if err != nil {
		return nil, err
	}

	userRepo := database.NewPgxUserRepository(dbPool)
	otpRepo := database.NewPgxOTPRepository(dbPool)
	refreshRepo := database.NewPgxRefreshTokenRepository(dbPool)
	throttle := redisinfra.NewOTPThrottle(redisClient)
	denylist := redisinfra.NewResetLinkDenylist(redisClient)

	tokenService := service.NewTokenService(tokenManager, refreshRepo, userRepo, logger)
	otpService := service.NewOTPService(otpRepo, throttle, dispatcher, cfg.Features, logger)
	authService, err := service.NewAuthService(userRepo, passwordService, tokenService, otpService, cfg.Security, logger)
	if err != nil {
		return nil, err
	}
	pwService := service.NewPasswordService(
		userRepo, passwordService, tokenManager, tokenService, otpService,
		throttle, denylist, dispatcher, cfg.Features, cfg.Security, logger,
	)
	verificationService := service.NewVerificationService(userRepo, otpService, logger)
	userService := service.NewUserService(userRepo, cfg.Features, logger)

	router := httphandler.NewRouter(httphandler.RouterDeps{
		AuthHandler:     httphandler.NewAuthHandler(authService, tokenService, logger),
		MeHandler:       httphandler.NewMeHandler(userService, pwService, verificationService, logger),
		PasswordHandler: httphandler.NewPasswordHandler(pwService, verificationService, logger),
		TokenManager:    tokenManager,
		Logger:          logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		dbPool:      dbPool,
		redisClient: redisClient,
		producer:    producer,
		httpServer:  httpServer,
		otpRepo:     otpRepo,
		refreshRepo: refreshRepo,
	}, nil
}

// runRetention periodically purges expired OTP codes and refresh tokens.
// Expired rows are already unusable; this keeps the tables from growing
// without bound.
func (a *App) runRetention(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Database.RetentionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now()
			if n, err := a.otpRepo.DeleteExpired(ctx, cutoff); err != nil {
				a.logger.Error("failed to purge expired otp codes", zap.Error(err))
			} else if n > 0 {
				a.logger.Info("purged expired otp codes", zap.Int64("count", n))
			}
			if n, err := a.refreshRepo.DeleteExpired(ctx, cutoff); err != nil {
				a.logger.Error("failed to purge expired refresh tokens", zap.Error(err))
			} else if n > 0 {
				a.logger.Info("purged expired refresh tokens", zap.Int64("count", n))
			}
		}
	}
}

// Run serves until SIGINT/SIGTERM, then shuts down within the configured
// timeout.
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	retentionCtx, stopRetention := context.WithCancel(context.Background())
	defer stopRetention()
	if a.cfg.Database.RetentionInterval > 0 {
		go a.runRetention(retentionCtx)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		a.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown failed", zap.Error(err))
	}

	a.close()
	return nil
}

func (a *App) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close failed", zap.Error(err))
		}
	}
	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close failed", zap.Error(err))
	}
	a.dbPool.Close()
	a.logger.Info("shutdown complete")
}
