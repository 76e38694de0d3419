//go:build wireinject
// +build wireinject

package movie

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/cineshelf/cineshelf/internal/middleware"
	"github.com/cineshelf/cineshelf/internal/movie/delivery/http"
	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/internal/movie/repository"
	"github.com/cineshelf/cineshelf/internal/movie/resolver"
	"github.com/cineshelf/cineshelf/internal/movie/usecase/command"
	"github.com/cineshelf/cineshelf/internal/movie/usecase/query"
	"github.com/cineshelf/cineshelf/pkg/events"
)

// ProvideMovieRepository provides the movie repository
func ProvideMovieRepository(db *gorm.DB) domain.MovieRepository {
	return repository.NewGormMovieRepository(db)
}

// Command Handlers Providers
func ProvideCreateMovieHandler(repo domain.MovieRepository, res *resolver.Resolver) *command.CreateMovieHandler {
	return command.NewCreateMovieHandler(repo, res)
}

func ProvideUpdateMovieHandler(repo domain.MovieRepository, res *resolver.Resolver) *command.UpdateMovieHandler {
	return command.NewUpdateMovieHandler(repo, res)
}

func ProvideDeleteMovieHandler(repo domain.MovieRepository, reviews command.ReviewPurger) *command.DeleteMovieHandler {
	return command.NewDeleteMovieHandler(repo, reviews)
}

// Query Handlers Providers
func ProvideListMoviesHandler(repo domain.MovieRepository) *query.ListMoviesHandler {
	return query.NewListMoviesHandler(repo)
}

func ProvideGetMovieHandler(repo domain.MovieRepository) *query.GetMovieHandler {
	return query.NewGetMovieHandler(repo)
}

func ProvideMoviesByActorHandler(repo domain.MovieRepository, actors query.ActorChecker) *query.MoviesByActorHandler {
	return query.NewMoviesByActorHandler(repo, actors)
}

func ProvideFavoritesHandler(repo domain.MovieRepository) *query.FavoritesHandler {
	return query.NewFavoritesHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideMovieRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateMovieHandler,
	ProvideUpdateMovieHandler,
	ProvideDeleteMovieHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideListMoviesHandler,
	ProvideGetMovieHandler,
	ProvideMoviesByActorHandler,
	ProvideFavoritesHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes the movie HTTP handler with all
// dependencies. Cross-domain collaborators come in as arguments.
func InitializeHTTPHandler(
	db *gorm.DB,
	res *resolver.Resolver,
	reviews command.ReviewPurger,
	actors query.ActorChecker,
	authn *middleware.Authenticator,
	publisher *events.Publisher,
) (*http.Handler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewHandler,
	)
	return nil, nil
}
