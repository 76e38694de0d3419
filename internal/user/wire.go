//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/cineshelf/cineshelf/internal/middleware"
	moviequery "github.com/cineshelf/cineshelf/internal/movie/usecase/query"
	"github.com/cineshelf/cineshelf/internal/user/delivery/http"
	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/internal/user/repository"
	"github.com/cineshelf/cineshelf/internal/user/usecase/command"
	"github.com/cineshelf/cineshelf/internal/user/usecase/query"
	"github.com/cineshelf/cineshelf/pkg/auth"
	"github.com/cineshelf/cineshelf/pkg/events"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

// Command Handlers Providers
func ProvideRegisterUserHandler(repo domain.UserRepository) *command.RegisterUserHandler {
	return command.NewRegisterUserHandler(repo)
}

func ProvideLoginUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *command.LoginUserHandler {
	return command.NewLoginUserHandler(repo, tokens)
}

func ProvideUpdateUserHandler(repo domain.UserRepository) *command.UpdateUserHandler {
	return command.NewUpdateUserHandler(repo)
}

func ProvideDeleteUserHandler(repo domain.UserRepository, purger command.OwnedContentPurger) *command.DeleteUserHandler {
	return command.NewDeleteUserHandler(repo, purger)
}

func ProvideChangeRoleHandler(repo domain.UserRepository) *command.ChangeRoleHandler {
	return command.NewChangeRoleHandler(repo)
}

func ProvideToggleActiveHandler(repo domain.UserRepository) *command.ToggleActiveHandler {
	return command.NewToggleActiveHandler(repo)
}

func ProvideFavoritesHandler(repo domain.UserRepository, movies command.MovieChecker) *command.FavoritesHandler {
	return command.NewFavoritesHandler(repo, movies)
}

// Query Handlers Providers
func ProvideGetUserHandler(repo domain.UserRepository) *query.GetUserHandler {
	return query.NewGetUserHandler(repo)
}

func ProvideListUsersHandler(repo domain.UserRepository) *query.ListUsersHandler {
	return query.NewListUsersHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideRegisterUserHandler,
	ProvideLoginUserHandler,
	ProvideUpdateUserHandler,
	ProvideDeleteUserHandler,
	ProvideChangeRoleHandler,
	ProvideToggleActiveHandler,
	ProvideFavoritesHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetUserHandler,
	ProvideListUsersHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes the user HTTP handler with all
// dependencies. Cross-domain collaborators come in as arguments.
func InitializeHTTPHandler(
	db *gorm.DB,
	movies command.MovieChecker,
	purger command.OwnedContentPurger,
	favoritesQuery *moviequery.FavoritesHandler,
	tokens *auth.TokenManager,
	authn *middleware.Authenticator,
	publisher *events.Publisher,
) (*http.Handler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewHandler,
	)
	return nil, nil
}
