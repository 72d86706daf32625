package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/clipstream/api/internal/adapters/handler/http"
	"github.com/clipstream/api/internal/adapters/media"
	"github.com/clipstream/api/internal/adapters/repository/postgres"
	"github.com/clipstream/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	setupLogging()

	db, err := postgres.Open(dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)
	videoRepo := postgres.NewVideoRepository(db)
	watchRepo := postgres.NewWatchHistoryRepository(db)

	mediaStore := media.NewUploader(os.Getenv("MEDIA_UPLOAD_URL"), os.Getenv("MEDIA_API_KEY"))

	accessTTL := envDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	refreshTTL := envDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)

	tokenSvc := services.NewTokenService(sessionRepo, services.TokenConfig{
		AccessSecret:  secret("JWT_ACCESS_SECRET"),
		RefreshSecret: secret("JWT_REFRESH_SECRET"),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	})
	authSvc := services.NewAuthService(userRepo, sessionRepo, tokenSvc)
	registrationSvc := services.NewRegistrationService(userRepo, mediaStore)
	userSvc := services.NewUserService(userRepo, mediaStore)
	channelSvc := services.NewChannelService(userRepo, subRepo, watchRepo, videoRepo)

	userHandler := http.NewUserHandler(registrationSvc, userSvc, channelSvc, os.Getenv("UPLOAD_TEMP_DIR"))
	authHandler := http.NewAuthHandler(authSvc, os.Getenv("COOKIE_DOMAIN"), int(accessTTL.Seconds()), int(refreshTTL.Seconds()))
	channelHandler := http.NewChannelHandler(channelSvc)

	handler := http.NewHandler(userHandler, authHandler, channelHandler, tokenSvc)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	server := &stdhttp.Server{Addr: addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func setupLogging() {
	var writer io.Writer = os.Stderr
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		writer = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})))
}

func secret(name string) []byte {
	value := os.Getenv(name)
	if value == "" {
		slog.Warn("secret not set", "name", name)
	}
	return []byte(value)
}

func envDuration(name string, fallback time.Duration) time.Duration {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return fallback
}

func dbConnString() string {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr
	}

	dbName := os.Getenv("POSTGRES_DB")
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}
