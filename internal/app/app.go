package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-booking/internal/config"
	"hospital-booking/internal/database"
	"hospital-booking/internal/handler"
	"hospital-booking/internal/middleware"
	"hospital-booking/internal/repository"
	"hospital-booking/internal/router"
	"hospital-booking/internal/service"
	"hospital-booking/internal/session"
	"hospital-booking/internal/token"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	doctorProfileRepo := repository.NewDoctorProfileRepository(pool)
	patientProfileRepo := repository.NewPatientProfileRepository(pool)
	slog.Info("database ready")

	codec := token.NewCodec(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	cookies := session.NewCookies(codec, cfg.Production())
	gate := middleware.NewSessionGate(codec, cookies)

	authService := service.NewAuthService(userRepo, patientProfileRepo, codec)
	appointmentService := service.NewAppointmentService(appointmentRepo, userRepo)
	profileService := service.NewProfileService(userRepo, doctorProfileRepo, patientProfileRepo)
	adminService := service.NewAdminService(userRepo, doctorProfileRepo, appointmentRepo)

	authHandler := handler.NewAuthHandler(authService, cookies)
	pageHandler := handler.NewPageHandler()
	patientHandler := handler.NewPatientHandler(appointmentService, profileService)
	doctorHandler := handler.NewDoctorHandler(appointmentService, profileService)
	adminHandler := handler.NewAdminHandler(adminService)

	appRouter := router.New(cfg, gate, authHandler, pageHandler, patientHandler, doctorHandler, adminHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
