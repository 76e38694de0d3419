package query

import (
	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// FavoritesQuery lists the requesting user's favorited movies with
// resolved reference names.
type FavoritesQuery struct {
	FavoriteIDs []int64
	Params      domain.FavoriteParams
}

// FavoritesHandler handles the favorites listing query
type FavoritesHandler struct {
	repo domain.MovieRepository
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(repo domain.MovieRepository) *FavoritesHandler {
	return &FavoritesHandler{repo: repo}
}

// Handle executes the favorites listing query
func (h *FavoritesHandler) Handle(q FavoritesQuery) (*ListMoviesResult, error) {
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

	movies, total, err := h.repo.FindFavorites(q.FavoriteIDs, params)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list favorites")
	}
	views, err := h.repo.Populate(movies)
	if err != nil {
		return nil, apperror.Internal(err, "failed to resolve movie references")
	}
	return &ListMoviesResult{Movies: views, Total: total}, nil
}
