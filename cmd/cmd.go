package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medscan-backend/internal/analyzer"
	"medscan-backend/internal/config"
	"medscan-backend/internal/handlers"
	"medscan-backend/internal/middleware"
	"medscan-backend/internal/repository"
	"medscan-backend/internal/services"
	"medscan-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database. The store mode is decided here, once, for the
	// lifetime of the process: if the database is unreachable the server
	// comes up in degraded mode instead of exiting.
	mode := services.ModeNormal
	var db *pgxpool.Pool
	if pool, err := connectDatabase(cfg); err != nil {
		log.Warn().Err(err).Msg("Database unreachable, starting in degraded mode")
		mode = services.ModeDegraded
	} else {
		db = pool
		defer db.Close()
		log.Info().Msg("Database connection established")
	}

	// Initialize token service. A missing signing key is fatal.
	tokenService, err := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token service")
	}

	// Initialize repositories and services
	var userRepo services.UserRepository
	var analysisRepo services.AnalysisRepository
	if mode == services.ModeNormal {
		userRepo = repository.NewUserRepository(db)
		analysisRepo = repository.NewAnalysisRepository(db)
	}

	blobs, err := newBlobStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create blob store")
	}

	userService := services.NewUserService(userRepo, tokenService, mode)
	analysisService := services.NewAnalysisService(analysisRepo, blobs, analyzer.DefaultRegistry(), mode)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(mode)
	authHandler := handlers.NewAuthHandler(userService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	userHandler := handlers.NewUserHandler(userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", healthHandler.Health)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokenService, userService))
			r.Post("/analyze/{modality}", analysisHandler.Submit)
			r.Get("/user/history", analysisHandler.History)
			r.Get("/analysis/{analysis_id}", analysisHandler.GetByID)
			r.Get("/user/profile", userHandler.GetProfile)
			r.Put("/user/profile", userHandler.UpdateProfile)
		})
	})

	// Locally stored uploads are served directly
	if cfg.AWS.S3Bucket == "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir))))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("mode", mode.String()).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// connectDatabase opens the pool and pings it so that "unreachable" is
// detected now rather than on the first request.
func connectDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// newBlobStore picks S3 when a bucket is configured, local disk otherwise.
func newBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.AWS.S3Bucket != "" {
		return storage.NewS3Store(
			context.Background(),
			cfg.AWS.Region,
			cfg.AWS.S3Bucket,
			cfg.AWS.AccessKey,
			cfg.AWS.SecretKey,
			cfg.AWS.Endpoint,
		)
	}
	return storage.NewLocalStore(cfg.Uploads.Dir)
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
