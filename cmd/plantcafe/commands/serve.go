package commands

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atinyakov/plantcafe/internal/cache"
	"github.com/atinyakov/plantcafe/internal/catalog"
	"github.com/atinyakov/plantcafe/internal/db"
	"github.com/atinyakov/plantcafe/internal/middleware"
	"github.com/atinyakov/plantcafe/internal/repository"
	"github.com/atinyakov/plantcafe/internal/server/handler/http"
	"github.com/atinyakov/plantcafe/internal/service"
	"github.com/atinyakov/plantcafe/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	sessionTTL      = 7 * 24 * time.Hour
	cleanupInterval = time.Hour
	shutdownTimeout = 10 * time.Second
)

var (
	migrateOnStart bool
	secureCookies  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := options.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, log.Log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "Apply pending migrations before serving")
	serveCmd.Flags().BoolVar(&secureCookies, "secure-cookies", false, "Mark the session cookie Secure")
}

func serve(ctx context.Context, zapLogger *zap.Logger) (err error) {
	zapLogger.Info("starting plantcafe",
		zap.String("version", buildVersion),
		zap.String("addr", options.Port),
	)

	if migrateOnStart {
		if err := db.MigrateUp(options.DatabaseDSN); err != nil {
			return err
		}
	}

	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("cannot init database: %w", err)
	}
	defer func() { err = multierr.Append(err, postgresDB.Close()) }()

	db.StartPlantCacheCleaner(ctx, postgresDB.DB, cleanupInterval, options.PlantRetention, zapLogger)

	// Search results are cached only when Redis is configured.
	var (
		searchCache catalog.Cache
		cacheTTL    time.Duration
	)
	if options.RedisAddr != "" {
		redisClient := cache.New(options.RedisAddr, options.RedisPassword, options.RedisDB)
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
		if pingErr := redisClient.Ping(ctx); pingErr != nil {
			zapLogger.Warn("redis unreachable, searches will not be cached", zap.Error(pingErr))
		}
		searchCache, cacheTTL = redisClient, options.CatalogCacheTTL
	}

	catalogClient := catalog.NewClient(catalog.ClientConfig{
		BaseURL: options.CatalogBaseURL,
		APIKey:  options.CatalogAPIKey,
		Timeout: options.CatalogTimeout,
	})
	searcher := catalog.NewCachedSearcher(catalogClient, searchCache, cacheTTL)

	userRepo := repository.NewPostgresUserRepository(postgresDB)
	plantRepo := repository.NewPostgresPlantRepository(postgresDB)
	cafeRepo := repository.NewPostgresCafeRepository(postgresDB)
	likeRepo := repository.NewPostgresLikeRepository(postgresDB)

	authService := service.NewAuthService(userRepo)
	plantService := service.NewPlantService(searcher, plantRepo, zapLogger)
	cafeService := service.NewCafeService(cafeRepo)
	likeService := service.NewLikeService(likeRepo, plantRepo, cafeRepo)

	renderer, err := http.NewRenderer(zapLogger)
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(2, 5, zapLogger)
	limiter.StartCleanup(ctx, 5*time.Minute)

	router := http.NewRouter(http.Handlers{
		Auth:    &http.AuthHandler{AuthService: authService, Render: renderer},
		Profile: &http.ProfileHandler{AuthService: authService, LikeService: likeService, Render: renderer},
		Plants:  &http.PlantHandler{PlantService: plantService, Render: renderer, Log: zapLogger},
		Cafes:   &http.CafeHandler{CafeService: cafeService, Render: renderer},
		Likes:   &http.LikeHandler{LikeService: likeService, Log: zapLogger},
		Render:  renderer,
	}, http.RouterDeps{
		Sessions:      session.NewManager(options.SecretKey, sessionTTL, secureCookies),
		Users:         authService,
		SearchLimiter: limiter,
		DB:            postgresDB,
		Logger:        zapLogger,
		TrustProxy:    options.TrustProxy,
	})

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
