package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Osuolale-Olalekan/CBT-app/internal/config"
	"github.com/Osuolale-Olalekan/CBT-app/internal/database"
	"github.com/Osuolale-Olalekan/CBT-app/internal/handler"
	"github.com/Osuolale-Olalekan/CBT-app/internal/logger"
	"github.com/Osuolale-Olalekan/CBT-app/internal/middleware"
	"github.com/Osuolale-Olalekan/CBT-app/internal/repository"
	"github.com/Osuolale-Olalekan/CBT-app/internal/router"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
	"github.com/Osuolale-Olalekan/CBT-app/internal/validator"
	"github.com/Osuolale-Olalekan/CBT-app/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// Repositories.
	userRepo := repository.NewUserRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// Services.
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.BcryptCost, log)
	userSvc := service.NewUserService(userRepo, cfg.BcryptCost, log)
	questionSvc := service.NewQuestionService(questionRepo, log)
	examSvc := service.NewExamService(examRepo, questionRepo, rdb, log)
	sessionSvc := service.NewSessionService(sessionRepo, examRepo, resultRepo, log)
	submissionSvc := service.NewSubmissionService(sessionRepo, examRepo, questionRepo, resultRepo, rdb, log)
	resultSvc := service.NewResultService(resultRepo, log)
	reportSvc := service.NewReportService(examRepo, resultRepo, sessionRepo, dashboardRepo, rdb, log)

	// HTTP surface.
	authMW := middleware.NewAuthMiddleware(authSvc, cfg.CookieName)
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, cfg),
		Session:    handler.NewSessionHandler(sessionSvc),
		Submission: handler.NewSubmissionHandler(submissionSvc),
		Result:     handler.NewResultHandler(resultSvc),
		Exam:       handler.NewExamHandler(examSvc),
		Question:   handler.NewQuestionHandler(questionSvc),
		Report:     handler.NewReportHandler(reportSvc),
		User:       handler.NewUserHandler(userSvc),
		Monitor:    handler.NewMonitorHandler(reportSvc, rdb, cfg.AllowedOrigins, log),
	}

	statsWorker := worker.NewStatsWorker(rdb, reportSvc, log)
	statsWorker.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router.Setup(cfg, handlers, authMW),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	statsWorker.Shutdown(shutdownCtx)
	log.Info().Msg("shutdown complete")
}
