package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hrdesk/internal/config"
	"hrdesk/internal/db"
	"hrdesk/internal/email"
	apihttp "hrdesk/internal/http"
	"hrdesk/internal/llm"
	"hrdesk/internal/logging"
	"hrdesk/internal/repository"
	"hrdesk/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("server exited")
}

func run(cfg config.RuntimeConfig, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("configuration loaded", zap.Any("config", cfg.Redacted()))

	mongoClient, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Close(closeCtx); err != nil {
			logger.Warn("db disconnect", zap.Error(err))
		}
	}()

	var emailSender email.Sender
	if cfg.AppEnv == "test" {
		emailSender = email.NewDisabledSender("email disabled in test environment")
		logger.Warn("email sending disabled", zap.String("env", cfg.AppEnv))
	} else {
		smtpSender, err := email.NewSMTPSender(cfg)
		if err != nil {
			return fmt.Errorf("email sender: %w", err)
		}
		emailSender = smtpSender
	}

	var (
		mailLimiter service.MailRateLimiter
		tokenStore  service.RefreshTokenStore
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory stores", zap.Error(err))
		} else {
			mailLimiter = service.NewRedisMailRateLimiter(redisClient, cfg.MailRateWindow, cfg.MailRateLimit)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}
	if mailLimiter == nil {
		mailLimiter = service.NewMemoryMailRateLimiter(cfg.MailRateWindow, cfg.MailRateLimit)
	}

	llmClient := llm.NewHTTPClient(cfg.LLMAddr, cfg.LLMTimeout, logger)
	jwtSvc := service.NewJWTServiceWithStore(cfg.SecretKey, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, tokenStore)
	mailLog := repository.NewMongoMailLogRepository(mongoClient.Database())
	mailSvc := service.NewMailService(logger, emailSender, mailLimiter, cfg.SenderEmail, mailLog)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := apihttp.NewRouter(
		logger,
		jwtSvc,
		apihttp.NewHealthHandler(logger, mongoClient, llmClient),
		apihttp.NewAuthHandler(logger, jwtSvc),
		apihttp.NewAdminHandler(logger, mailSvc, llmClient),
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
