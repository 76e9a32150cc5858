package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-agent/internal/audit"
	"booking-agent/internal/config"
	"booking-agent/internal/delegate"
	"booking-agent/internal/session"
	"booking-agent/internal/telephony"
	"booking-agent/internal/voice"
	"booking-agent/pkg/logger"
	"booking-agent/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	auditSvc, closeAudit, err := buildAuditService(rootCtx, cfg)
	if err != nil {
		log.Error("audit sink init failed", "err", err)
		os.Exit(1)
	}
	defer closeAudit()

	twilioClient, err := telephony.NewClient(telephony.ClientConfig{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		FromNumber: cfg.Twilio.FromNumber,
	})
	if err != nil {
		log.Error("twilio client init failed", "err", err)
		os.Exit(1)
	}

	dlg := delegate.NewOpenAI(delegate.OpenAIConfig{
		APIKey: cfg.OpenAI.APIKey,
		Model:  cfg.OpenAI.Model,
	})

	svc := voice.NewService(session.NewRegistry(), dlg, twilioClient, auditSvc, cfg.App.PublicBaseURL)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, cfg, voice.Handlers{Svc: svc})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}

// buildAuditService picks the call-event sink by configuration: Postgres when
// DB_HOST is set, Redis when REDIS_HOST is set, in-memory otherwise. The
// returned closer releases whichever backend was opened.
func buildAuditService(ctx context.Context, cfg config.Config) (*audit.Service, func(), error) {
	switch {
	case cfg.AuditDBEnabled():
		db, err := utils.OpenPostgres(ctx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			return nil, nil, err
		}
		return audit.NewService(audit.NewPostgresRepo(db)), func() { _ = db.Close() }, nil
	case cfg.AuditRedisEnabled():
		rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			return nil, nil, err
		}
		return audit.NewService(audit.NewRedisRepo(rdb)), func() { _ = rdb.Close() }, nil
	default:
		return audit.NewService(audit.NewMemoryRepo()), func() {}, nil
	}
}
