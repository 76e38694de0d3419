package query

import (
	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// DefaultPageSize is the movie listing default window size.
const DefaultPageSize = 24

// ListMoviesQuery represents the movie listing/search query.
type ListMoviesQuery struct {
	Params domain.ListParams
}

// ListMoviesResult carries resolved movie views plus the total count.
// Total is zero-valued in random mode, which has no pagination.
type ListMoviesResult struct {
	Movies []domain.MovieView
	Total  int64
	Random bool
}

// ListMoviesHandler handles movie listing query
type ListMoviesHandler struct {
	repo domain.MovieRepository
}

// NewListMoviesHandler creates a new list movies handler
func NewListMoviesHandler(repo domain.MovieRepository) *ListMoviesHandler {
	return &ListMoviesHandler{repo: repo}
}

// Handle executes the list movies query. Random mode bypasses sort and
// skip and samples up to limit movies from the filtered set.
func (h *ListMoviesHandler) Handle(q ListMoviesQuery) (*ListMoviesResult, error) {
	params := q.Params
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = DefaultPageSize
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	if params.Random {
		movies, err := h.repo.Sample(params, params.Limit)
		if err != nil {
			return nil, apperror.Internal(err, "failed to sample movies")
		}
		views, err := h.repo.Populate(movies)
		if err != nil {
			return nil, apperror.Internal(err, "failed to resolve movie references")
		}
		return &ListMoviesResult{Movies: views, Random: true}, nil
	}

	movies, total, err := h.repo.List(params)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list movies")
	}
	views, err := h.repo.Populate(movies)
	if err != nil {
		return nil, apperror.Internal(err, "failed to resolve movie references")
	}
	return &ListMoviesResult{Movies: views, Total: total}, nil
}
