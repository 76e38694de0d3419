//go:build wireinject
// +build wireinject

package review

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/cineshelf/cineshelf/internal/middleware"
	"github.com/cineshelf/cineshelf/internal/review/delivery/http"
	"github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/internal/review/repository"
	"github.com/cineshelf/cineshelf/internal/review/usecase/command"
	"github.com/cineshelf/cineshelf/internal/review/usecase/query"
	"github.com/cineshelf/cineshelf/pkg/events"
)

// ProvideReviewRepository provides the review repository
func ProvideReviewRepository(db *gorm.DB) domain.ReviewRepository {
	return repository.NewGormReviewRepository(db)
}

// Command Handlers Providers
func ProvideCreateReviewHandler(repo domain.ReviewRepository, movies command.MovieChecker) *command.CreateReviewHandler {
	return command.NewCreateReviewHandler(repo, movies)
}

func ProvideUpdateReviewHandler(repo domain.ReviewRepository) *command.UpdateReviewHandler {
	return command.NewUpdateReviewHandler(repo)
}

func ProvideDeleteReviewHandler(repo domain.ReviewRepository) *command.DeleteReviewHandler {
	return command.NewDeleteReviewHandler(repo)
}

func ProvideLikeReviewHandler(repo domain.ReviewRepository) *command.LikeReviewHandler {
	return command.NewLikeReviewHandler(repo)
}

func ProvideReportReviewHandler(repo domain.ReviewRepository) *command.ReportReviewHandler {
	return command.NewReportReviewHandler(repo)
}

// Query Handlers Providers
func ProvideReviewsByMovieHandler(repo domain.ReviewRepository) *query.ReviewsByMovieHandler {
	return query.NewReviewsByMovieHandler(repo)
}

func ProvideReviewsByUserHandler(repo domain.ReviewRepository) *query.ReviewsByUserHandler {
	return query.NewReviewsByUserHandler(repo)
}

func ProvideModerateReviewsHandler(repo domain.ReviewRepository) *query.ModerateReviewsHandler {
	return query.NewModerateReviewsHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideReviewRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateReviewHandler,
	ProvideUpdateReviewHandler,
	ProvideDeleteReviewHandler,
	ProvideLikeReviewHandler,
	ProvideReportReviewHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideReviewsByMovieHandler,
	ProvideReviewsByUserHandler,
	ProvideModerateReviewsHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes the review HTTP handler with all
// dependencies. Cross-domain collaborators come in as arguments.
func InitializeHTTPHandler(
	db *gorm.DB,
	movies command.MovieChecker,
	authn *middleware.Authenticator,
	publisher *events.Publisher,
) (*http.Handler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewHandler,
	)
	return nil, nil
}
