package command

import (
	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// ReviewPurger removes the reviews attached to a deleted movie.
type ReviewPurger interface {
	DeleteByMovie(movieID uint) error
}

// DeleteMovieCommand represents the command to delete a movie. OwnerID
// zero is admin scope.
type DeleteMovieCommand struct {
	ID      uint
	OwnerID uint
}

// DeleteMovieHandler handles movie deletion command
type DeleteMovieHandler struct {
	repo    domain.MovieRepository
	reviews ReviewPurger
}

// NewDeleteMovieHandler creates a new delete movie handler
func NewDeleteMovieHandler(repo domain.MovieRepository, reviews ReviewPurger) *DeleteMovieHandler {
	return &DeleteMovieHandler{repo: repo, reviews: reviews}
}

// Handle executes the delete movie command, cascading to the movie's
// reviews.
func (h *DeleteMovieHandler) Handle(cmd DeleteMovieCommand) error {
	if err := h.repo.Delete(cmd.ID, cmd.OwnerID); err != nil {
		return err
	}
	if err := h.reviews.DeleteByMovie(cmd.ID); err != nil {
		return apperror.Internal(err, "failed to delete movie reviews")
	}
	return nil
}
