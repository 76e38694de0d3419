package command

import (
	"github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// MovieChecker verifies movie existence before a review is created.
type MovieChecker interface {
	Exists(id uint) (bool, error)
}

// CreateReviewCommand represents the command to create a review.
type CreateReviewCommand struct {
	MovieID uint   `json:"movie"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	UserID  uint   `json:"-"`
}

// CreateReviewHandler handles review creation
type CreateReviewHandler struct {
	repo   domain.ReviewRepository
	movies MovieChecker
}

// NewCreateReviewHandler creates a new create review handler
func NewCreateReviewHandler(repo domain.ReviewRepository, movies MovieChecker) *CreateReviewHandler {
	return &CreateReviewHandler{repo: repo, movies: movies}
}

// Handle executes the create review command. One review per user per
// movie; the movie's cached rating is refreshed after the insert.
func (h *CreateReviewHandler) Handle(cmd CreateReviewCommand) (*domain.Review, error) {
	review := &domain.Review{
		MovieID: cmd.MovieID,
		UserID:  cmd.UserID,
		Rating:  cmd.Rating,
		Comment: cmd.Comment,
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	exists, err := h.movies.Exists(cmd.MovieID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to check movie")
	}
	if !exists {
		return nil, apperror.NotFound("movie not found")
	}

	if _, err := h.repo.FindByMovieAndUser(cmd.MovieID, cmd.UserID); err == nil {
		return nil, apperror.Conflict("you have already reviewed this movie")
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, apperror.Internal(err, "failed to check existing review")
	}

	if err := h.repo.Create(review); err != nil {
		return nil, err
	}
	if err := h.repo.RecomputeMovieRating(cmd.MovieID); err != nil {
		return nil, apperror.Internal(err, "failed to update movie rating")
	}
	return review, nil
}
