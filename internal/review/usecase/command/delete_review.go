package command

import (
	"github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// DeleteReviewCommand represents the command to delete a review.
// Admin deletes moderation-style: UserID 0 skips the author check.
type DeleteReviewCommand struct {
	ID     uint
	UserID uint
}

// DeleteReviewHandler handles review deletion
type DeleteReviewHandler struct {
	repo domain.ReviewRepository
}

// NewDeleteReviewHandler creates a new delete review handler
func NewDeleteReviewHandler(repo domain.ReviewRepository) *DeleteReviewHandler {
	return &DeleteReviewHandler{repo: repo}
}

// Handle executes the delete review command and refreshes the movie's
// cached rating.
func (h *DeleteReviewHandler) Handle(cmd DeleteReviewCommand) error {
	review, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return err
	}
	if cmd.UserID != 0 && review.UserID != cmd.UserID {
		return apperror.Forbidden("you can only delete your own reviews")
	}

	if err := h.repo.Delete(cmd.ID); err != nil {
		return err
	}
	if err := h.repo.RecomputeMovieRating(review.MovieID); err != nil {
		return apperror.Internal(err, "failed to update movie rating")
	}
	return nil
}
