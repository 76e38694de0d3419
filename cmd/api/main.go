package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	adminhttp "github.com/cineshelf/cineshelf/internal/admin/delivery/http"
	adminrepo "github.com/cineshelf/cineshelf/internal/admin/repository"
	adminquery "github.com/cineshelf/cineshelf/internal/admin/usecase/query"
	"github.com/cineshelf/cineshelf/internal/config"
	mdhttp "github.com/cineshelf/cineshelf/internal/masterdata/delivery/http"
	mddomain "github.com/cineshelf/cineshelf/internal/masterdata/domain"
	mdrepo "github.com/cineshelf/cineshelf/internal/masterdata/repository"
	mdservice "github.com/cineshelf/cineshelf/internal/masterdata/service"
	"github.com/cineshelf/cineshelf/internal/middleware"
	moviehttp "github.com/cineshelf/cineshelf/internal/movie/delivery/http"
	moviedomain "github.com/cineshelf/cineshelf/internal/movie/domain"
	movierepo "github.com/cineshelf/cineshelf/internal/movie/repository"
	"github.com/cineshelf/cineshelf/internal/movie/resolver"
	moviecommand "github.com/cineshelf/cineshelf/internal/movie/usecase/command"
	moviequery "github.com/cineshelf/cineshelf/internal/movie/usecase/query"
	reviewhttp "github.com/cineshelf/cineshelf/internal/review/delivery/http"
	reviewdomain "github.com/cineshelf/cineshelf/internal/review/domain"
	reviewrepo "github.com/cineshelf/cineshelf/internal/review/repository"
	reviewcommand "github.com/cineshelf/cineshelf/internal/review/usecase/command"
	reviewquery "github.com/cineshelf/cineshelf/internal/review/usecase/query"
	userhttp "github.com/cineshelf/cineshelf/internal/user/delivery/http"
	userrepo "github.com/cineshelf/cineshelf/internal/user/repository"
	usercommand "github.com/cineshelf/cineshelf/internal/user/usecase/command"
	userquery "github.com/cineshelf/cineshelf/internal/user/usecase/query"
	"github.com/cineshelf/cineshelf/pkg/auth"
	"github.com/cineshelf/cineshelf/pkg/cache"
	"github.com/cineshelf/cineshelf/pkg/database"
	"github.com/cineshelf/cineshelf/pkg/events"
	"github.com/cineshelf/cineshelf/pkg/logger"
	"github.com/cineshelf/cineshelf/pkg/metrics"
	"github.com/cineshelf/cineshelf/pkg/response"
	"github.com/cineshelf/cineshelf/pkg/tracing"
)

const serviceName = "cineshelf-api"

// contentPurger removes a deleted user's movies and reviews. It spans
// the movie and review repositories, which the user domain must not
// import directly.
type contentPurger struct {
	movies  moviedomain.MovieRepository
	reviews reviewdomain.ReviewRepository
}

func (p contentPurger) DeleteMoviesByOwner(userID uint) ([]uint, error) {
	return p.movies.DeleteByOwner(userID)
}

func (p contentPurger) DeleteReviewsByMovie(movieID uint) error {
	return p.reviews.DeleteByMovie(movieID)
}

func (p contentPurger) DeleteReviewsByUser(userID uint) ([]uint, error) {
	return p.reviews.DeleteByUser(userID)
}

func (p contentPurger) RecomputeMovieRating(movieID uint) error {
	return p.reviews.RecomputeMovieRating(movieID)
}

func main() {
	cfg := config.Load()

	logger.Init(serviceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	tp, err := tracing.InitTracer(serviceName, cfg.JaegerURL)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("tracing disabled")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Warn().Err(err).Msg("failed to shut down tracer")
			}
		}()
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to get database instance")
	}
	defer sqlDB.Close()

	// Repositories
	userRepo := userrepo.NewGormUserRepository(db)
	movieRepo := movierepo.NewGormMovieRepository(db)
	reviewRepo := reviewrepo.NewGormReviewRepository(db)
	actorRepo := mdrepo.NewCRUD[mddomain.Actor](db, mddomain.ActorConfig)
	directorRepo := mdrepo.NewCRUD[mddomain.Director](db, mddomain.DirectorConfig)
	writerRepo := mdrepo.NewCRUD[mddomain.Writer](db, mddomain.WriterConfig)
	genreRepo := mdrepo.NewCRUD[mddomain.Genre](db, mddomain.GenreConfig)
	statsRepo := adminrepo.NewGormStatsRepository(db)

	for _, migrate := range []func() error{
		userRepo.AutoMigrate,
		actorRepo.AutoMigrate,
		directorRepo.AutoMigrate,
		writerRepo.AutoMigrate,
		genreRepo.AutoMigrate,
		movieRepo.AutoMigrate,
		reviewRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Services
	actorSvc := mdservice.NewCRUDService[mddomain.Actor](actorRepo)
	directorSvc := mdservice.NewCRUDService[mddomain.Director](directorRepo)
	writerSvc := mdservice.NewCRUDService[mddomain.Writer](writerRepo)
	genreSvc := mdservice.NewCRUDService[mddomain.Genre](genreRepo)
	refResolver := resolver.NewResolver(directorSvc, writerSvc, actorSvc, genreSvc)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenLifetime)
	authn := middleware.NewAuthenticator(tokens, userRepo)

	// Optional infrastructure: both degrade to no-ops when unset.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	purger := contentPurger{movies: movieRepo, reviews: reviewRepo}

	// User handlers
	userHandler := userhttp.NewHandler(
		usercommand.NewRegisterUserHandler(userRepo),
		usercommand.NewLoginUserHandler(userRepo, tokens),
		usercommand.NewUpdateUserHandler(userRepo),
		usercommand.NewDeleteUserHandler(userRepo, purger),
		usercommand.NewChangeRoleHandler(userRepo),
		usercommand.NewToggleActiveHandler(userRepo),
		usercommand.NewFavoritesHandler(userRepo, movieRepo),
		userquery.NewGetUserHandler(userRepo),
		userquery.NewListUsersHandler(userRepo),
		moviequery.NewFavoritesHandler(movieRepo),
		tokens,
		authn,
		publisher,
	)

	// Movie handlers
	movieHandler := moviehttp.NewHandler(
		moviecommand.NewCreateMovieHandler(movieRepo, refResolver),
		moviecommand.NewUpdateMovieHandler(movieRepo, refResolver),
		moviecommand.NewDeleteMovieHandler(movieRepo, reviewRepo),
		moviequery.NewListMoviesHandler(movieRepo),
		moviequery.NewGetMovieHandler(movieRepo),
		moviequery.NewMoviesByActorHandler(movieRepo, actorSvc),
		authn,
		publisher,
	)

	// Review handlers
	reviewHandler := reviewhttp.NewHandler(
		reviewcommand.NewCreateReviewHandler(reviewRepo, movieRepo),
		reviewcommand.NewUpdateReviewHandler(reviewRepo),
		reviewcommand.NewDeleteReviewHandler(reviewRepo),
		reviewcommand.NewLikeReviewHandler(reviewRepo),
		reviewcommand.NewReportReviewHandler(reviewRepo),
		reviewquery.NewReviewsByMovieHandler(reviewRepo),
		reviewquery.NewReviewsByUserHandler(reviewRepo),
		reviewquery.NewModerateReviewsHandler(reviewRepo),
		authn,
		publisher,
	)

	// Master-data handlers
	actorHandler := mdhttp.NewHandler(actorSvc, authn)
	directorHandler := mdhttp.NewHandler(directorSvc, authn)
	writerHandler := mdhttp.NewHandler(writerSvc, authn)
	genreHandler := mdhttp.NewHandler(genreSvc, authn)

	// Admin dashboard
	adminHandler := adminhttp.NewHandler(
		adminquery.NewStatsHandler(userRepo, movieRepo, reviewRepo,
			actorRepo, directorRepo, writerRepo, genreRepo, statsRepo),
		authn,
	)

	cacheWrap := func(next http.HandlerFunc) http.HandlerFunc {
		return cache.Middleware(redisClient, cache.DefaultConfig(), next)
	}

	router := mux.NewRouter()
	router.Use(metrics.NewHTTPMetrics("cineshelf").RouterMiddleware())

	userHandler.RegisterRoutes(router)
	movieHandler.RegisterRoutes(router, cacheWrap)
	reviewHandler.RegisterRoutes(router)
	actorHandler.RegisterRoutes(router, cacheWrap)
	directorHandler.RegisterRoutes(router, cacheWrap)
	writerHandler.RegisterRoutes(router, cacheWrap)
	genreHandler.RegisterRoutes(router, cacheWrap)
	adminHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := sqlDB.PingContext(r.Context()); err != nil {
			response.Fail(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		response.JSON(w, http.StatusOK, "OK", map[string]string{"status": "healthy"})
	}).Methods("GET")
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "Route not found")
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := otelhttp.NewHandler(
		corsHandler.Handler(middleware.Recover(router)),
		serviceName,
	)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info().Str("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("forced shutdown")
	}
}
