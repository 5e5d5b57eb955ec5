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

	"unmute/internal/artifact"
	"unmute/internal/auth"
	"unmute/internal/config"
	"unmute/internal/history"
	"unmute/internal/httpapi"
	"unmute/internal/realtime"
	"unmute/internal/session"
	"unmute/internal/speech"
	"unmute/internal/telephony"
	"unmute/pkg/logger"
	"unmute/pkg/utils"

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

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis is optional; without it the per-user call cap is disabled.
	var callCap *session.CallCap
	if addr := cfg.RedisAddr(); addr != "" {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		callCap = session.NewCallCap(rdb, cfg.Media.MaxActiveCalls)
	} else {
		log.Warn("redis not configured, active-call cap disabled")
	}

	provider := telephony.NewTwilioProvider(cfg.Twilio, "", nil)
	if !provider.Configured() {
		log.Warn("twilio credentials missing, call placement will be refused")
	}
	openai := speech.NewOpenAIClient(cfg.OpenAI, nil)
	if !openai.Configured() {
		log.Warn("openai credentials missing, synthesis and transcription will be refused")
	}

	artifacts, err := artifact.NewStore("", cfg.Media.ArtifactTTL, log)
	if err != nil {
		log.Error("artifact store init failed", "err", err)
		os.Exit(1)
	}
	go artifacts.Run(rootCtx)

	store := session.NewStore(cfg.Media.SessionRetention, log)
	go store.Run(rootCtx)

	hub := realtime.NewHub(log)
	repo := history.NewPostgresRepository(db)

	svc := session.NewService(session.Deps{
		Store:       store,
		Provider:    provider,
		Synthesizer: openai,
		Transcriber: openai,
		Completer:   openai,
		Artifacts:   artifacts,
		Hub:         hub,
		Repo:        repo,
		Cap:         callCap,
		App:         cfg.App,
		FromNumber:  cfg.Twilio.FromNumber,
		Log:         log,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, registerDeps{
		auth:      authManager,
		handlers:  httpapi.Handlers{Auth: authManager, Calls: svc, History: repo},
		calls:     svc,
		artifacts: artifacts,
		hub:       hub,
		db:        db,
	})

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
}
