package command

import (
	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// OwnedContentPurger removes a user's movies and reviews when the user
// is deleted. Implemented by the movie and review repositories.
type OwnedContentPurger interface {
	// DeleteMoviesByOwner removes all movies owned by the user and
	// returns their ids.
	DeleteMoviesByOwner(userID uint) ([]uint, error)
	// DeleteReviewsByMovie removes every review on a movie, whoever
	// wrote it.
	DeleteReviewsByMovie(movieID uint) error
	// DeleteReviewsByUser removes all reviews authored by the user and
	// returns the ids of the movies that lost a review.
	DeleteReviewsByUser(userID uint) ([]uint, error)
	// RecomputeMovieRating refreshes the cached rating of a movie.
	RecomputeMovieRating(movieID uint) error
}

// DeleteUserCommand represents the command to delete a user (admin only)
type DeleteUserCommand struct {
	ID uint
}

// DeleteUserHandler handles user deletion with content cascade
type DeleteUserHandler struct {
	repo   domain.UserRepository
	purger OwnedContentPurger
}

// NewDeleteUserHandler creates a new delete user handler
func NewDeleteUserHandler(repo domain.UserRepository, purger OwnedContentPurger) *DeleteUserHandler {
	return &DeleteUserHandler{repo: repo, purger: purger}
}

// Handle executes the delete user command. The user's reviews and movies
// are removed first; affected movies get their cached ratings refreshed.
// The last remaining admin cannot be deleted.
func (h *DeleteUserHandler) Handle(cmd DeleteUserCommand) error {
	if cmd.ID == 0 {
		return apperror.Validation("invalid user id")
	}

	user, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return apperror.NotFound("user not found")
	}

	if user.IsAdmin() {
		admins, err := h.repo.CountByRole(domain.RoleAdmin)
		if err != nil {
			return apperror.Internal(err, "failed to count admins")
		}
		if admins <= 1 {
			return apperror.Validation("cannot delete the last admin account")
		}
	}

	deletedMovies, err := h.purger.DeleteMoviesByOwner(user.ID)
	if err != nil {
		return apperror.Internal(err, "failed to delete user's movies")
	}
	deletedFrom := make(map[uint]bool, len(deletedMovies))
	for _, id := range deletedMovies {
		// A deleted movie takes every review with it, including
		// reviews written by other users.
		if err := h.purger.DeleteReviewsByMovie(id); err != nil {
			return apperror.Internal(err, "failed to delete movie reviews")
		}
		deletedFrom[id] = true
	}

	affected, err := h.purger.DeleteReviewsByUser(user.ID)
	if err != nil {
		return apperror.Internal(err, "failed to delete user's reviews")
	}
	for _, movieID := range affected {
		if deletedFrom[movieID] {
			continue
		}
		if err := h.purger.RecomputeMovieRating(movieID); err != nil {
			return apperror.Internal(err, "failed to refresh movie rating")
		}
	}

	if err := h.repo.Delete(user.ID); err != nil {
		return apperror.Internal(err, "failed to delete user")
	}
	return nil
}
