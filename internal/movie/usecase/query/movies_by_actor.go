package query

import (
	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// ActorChecker verifies actor existence before listing their movies.
type ActorChecker interface {
	Exists(id uint) (bool, error)
}

// MoviesByActorQuery lists movies whose cast contains the actor.
type MoviesByActorQuery struct {
	ActorID uint
	Page    int
	Limit   int
}

// MoviesByActorHandler handles movies-by-actor query
type MoviesByActorHandler struct {
	repo   domain.MovieRepository
	actors ActorChecker
}

// NewMoviesByActorHandler creates a new movies by actor handler
func NewMoviesByActorHandler(repo domain.MovieRepository, actors ActorChecker) *MoviesByActorHandler {
	return &MoviesByActorHandler{repo: repo, actors: actors}
}

// Handle executes the movies-by-actor query
func (h *MoviesByActorHandler) Handle(q MoviesByActorQuery) (*ListMoviesResult, error) {
	exists, err := h.actors.Exists(q.ActorID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to check actor")
	}
	if !exists {
		return nil, apperror.NotFound("actor not found")
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	movies, total, err := h.repo.FindByActor(q.ActorID, q.Page, q.Limit)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list movies by actor")
	}
	views, err := h.repo.Populate(movies)
	if err != nil {
		return nil, apperror.Internal(err, "failed to resolve movie references")
	}
	return &ListMoviesResult{Movies: views, Total: total}, nil
}
