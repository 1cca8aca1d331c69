package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/config"
	"jobboard/internal/database"
	apphttp "jobboard/internal/http"
	"jobboard/internal/http/handlers"
	"jobboard/internal/http/metrics"
	httpmw "jobboard/internal/http/middleware"
	"jobboard/internal/http/response"
	"jobboard/internal/observability"
	"jobboard/internal/repository/postgres"
	"jobboard/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	jobRepo := postgres.NewJobRepository(db)
	userRepo := postgres.NewUserRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)

	jobService := app.NewJobService(jobRepo, userRepo)
	applicationService := app.NewApplicationService(jobRepo)

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if redisClient := database.NewRedis(cfg.RedisURL); redisClient != nil {
		defer redisClient.Close()
		limiter = httpmw.NewRedisLimiter(redisClient)
	}

	jobHandler := handlers.NewJobHandler(jobService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, limiter)
	authMiddleware := httpmw.NewAuthMiddleware(jwtProvider)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		JobHandler:         jobHandler,
		ApplicationHandler: applicationHandler,
		AuthMiddleware:     authMiddleware,
		Metrics:            collector,
		Logger:             logger,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
