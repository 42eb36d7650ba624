// Package server wires the application together: router, middleware,
// services, background workers, and graceful shutdown.
//
// This is the composition root — every dependency is constructed and
// connected here (and in main), nowhere else. Handlers never see the
// database; services never see HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/juicebox/internal/auth"
	"github.com/sakif/juicebox/internal/handler"
	"github.com/sakif/juicebox/internal/jobs"
	"github.com/sakif/juicebox/internal/middleware"
	sqliteRepo "github.com/sakif/juicebox/internal/repository/sqlite"
	"github.com/sakif/juicebox/internal/service"
	"github.com/sakif/juicebox/internal/weather"
)

// jobPollInterval is how often the worker checks for pending jobs.
const jobPollInterval = time.Second

// weatherRefreshInterval drives the scheduled upstream refresh.
const weatherRefreshInterval = time.Hour

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port           int
	DBPath         string
	Env            string // "production" suppresses upstream error detail
	WeatherBaseURL string
	WeatherAPIKey  string
	WeatherTimeout time.Duration
}

// Server owns the router, the database, and the background workers. All of
// them are shut down together in Start's shutdown path.
type Server struct {
	router    *chi.Mux
	config    Config
	logger    *slog.Logger
	db        *sqliteRepo.DB
	worker    *jobs.Worker
	scheduler *jobs.Scheduler
}

// New builds the full dependency graph:
//
//	sqlite.DB → stores → services → handlers → routes
//	         ↘ job queue → worker (welcome emails)
//	weather client → weather service → handler + refresh scheduler
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	users := db.Users()
	posts := db.Posts()

	tokens := auth.NewTokenService(db.Tokens())
	passwords := auth.NewPasswordService()
	queue := jobs.NewQueue(db.Jobs())

	postService := service.NewPostService(posts, logger)
	userService := service.NewUserService(users, tokens, passwords, queue, logger)

	weatherClient := weather.NewClient(weather.Config{
		BaseURL: cfg.WeatherBaseURL,
		APIKey:  cfg.WeatherAPIKey,
		Timeout: cfg.WeatherTimeout,
	}, logger)
	weatherService := service.NewWeatherService(weatherClient, cfg.Env, logger)

	worker := jobs.NewWorker(db.Jobs(), jobPollInterval, logger)
	worker.Register(jobs.KindWelcomeEmail,
		jobs.NewWelcomeHandler(users, jobs.NewLogMailer(logger), logger))

	scheduler := jobs.NewScheduler(weatherService, service.DefaultLocation, weatherRefreshInterval, logger)

	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		db:        db,
		worker:    worker,
		scheduler: scheduler,
	}

	s.setupRoutes(
		handler.NewPostHandler(postService, logger),
		handler.NewUserHandler(userService, logger),
		handler.NewWeatherHandler(weatherService, logger),
		tokens,
	)

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// Protected routes live in their own group behind RequireAuth, so the
// order is always authenticate → authorize (in the service) → execute.
func (s *Server) setupRoutes(
	posts *handler.PostHandler,
	users *handler.UserHandler,
	weatherH *handler.WeatherHandler,
	tokens *auth.TokenService,
) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/posts", posts.HandleList)
		r.Get("/posts/{id}", posts.HandleGet)
		r.Get("/users", users.HandleList)
		r.Get("/users/{id}", users.HandleGet)
		r.Post("/register", users.HandleRegister)
		r.Post("/login", users.HandleLogin)
		r.Get("/weather", weatherH.HandleGet)

		// Bearer-protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/posts", posts.HandleCreate)
			r.Patch("/posts/{id}", posts.HandleUpdate)
			r.Delete("/posts/{id}", posts.HandleDelete)
			r.Post("/logout", users.HandleLogout)
		})
	})
}

// Start runs the HTTP server, the job worker, and the refresh scheduler
// until a shutdown signal arrives, then stops them in order: no new HTTP
// requests, drain in-flight requests, stop background work, close the
// database.
func (s *Server) Start() error {
	defer s.db.Close()

	s.worker.Start()
	s.scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("env", s.config.Env),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		s.stopBackground()
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.stopBackground()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		s.stopBackground()
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) stopBackground() {
	s.scheduler.Stop()
	s.worker.Stop()
}
