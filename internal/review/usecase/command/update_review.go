package command

import (
	"time"

	"github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// UpdateReviewCommand represents the command to update a review.
// Nil fields are left unchanged.
type UpdateReviewCommand struct {
	ID      uint    `json:"-"`
	UserID  uint    `json:"-"`
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// UpdateReviewHandler handles review updates
type UpdateReviewHandler struct {
	repo domain.ReviewRepository
}

// NewUpdateReviewHandler creates a new update review handler
func NewUpdateReviewHandler(repo domain.ReviewRepository) *UpdateReviewHandler {
	return &UpdateReviewHandler{repo: repo}
}

// Handle executes the update review command. Only the author may edit;
// an edit stamps the review and refreshes the movie's cached rating.
func (h *UpdateReviewHandler) Handle(cmd UpdateReviewCommand) (*domain.Review, error) {
	review, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, err
	}
	if review.UserID != cmd.UserID {
		return nil, apperror.Forbidden("you can only edit your own reviews")
	}

	if cmd.Rating != nil {
		review.Rating = *cmd.Rating
	}
	if cmd.Comment != nil {
		review.Comment = *cmd.Comment
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	review.IsEdited = true
	review.EditedAt = &now

	if err := h.repo.Update(review); err != nil {
		return nil, apperror.Internal(err, "failed to update review")
	}
	if err := h.repo.RecomputeMovieRating(review.MovieID); err != nil {
		return nil, apperror.Internal(err, "failed to update movie rating")
	}
	return review, nil
}
