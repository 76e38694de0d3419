package query

import (
	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// GetMovieQuery represents the query to get one movie with resolved
// references.
type GetMovieQuery struct {
	ID      uint
	OwnerID uint // non-zero scopes the lookup to the owner
}

// GetMovieHandler handles get movie query
type GetMovieHandler struct {
	repo domain.MovieRepository
}

// NewGetMovieHandler creates a new get movie handler
func NewGetMovieHandler(repo domain.MovieRepository) *GetMovieHandler {
	return &GetMovieHandler{repo: repo}
}

// Handle executes the get movie query
func (h *GetMovieHandler) Handle(q GetMovieQuery) (*domain.MovieView, error) {
	movie, err := h.repo.FindByID(q.ID, q.OwnerID)
	if err != nil {
		return nil, err
	}

	views, err := h.repo.Populate([]domain.Movie{*movie})
	if err != nil {
		return nil, apperror.Internal(err, "failed to resolve movie references")
	}
	return &views[0], nil
}
