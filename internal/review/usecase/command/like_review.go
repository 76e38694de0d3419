package command

import (
	"github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// LikeReviewCommand toggles the user's like on a review.
type LikeReviewCommand struct {
	ReviewID uint
	UserID   uint
}

// LikeResult reports the state after the toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// LikeReviewHandler handles review like toggling
type LikeReviewHandler struct {
	repo domain.ReviewRepository
}

// NewLikeReviewHandler creates a new like review handler
func NewLikeReviewHandler(repo domain.ReviewRepository) *LikeReviewHandler {
	return &LikeReviewHandler{repo: repo}
}

// Handle toggles the like: present removes it, absent adds it.
func (h *LikeReviewHandler) Handle(cmd LikeReviewCommand) (*LikeResult, error) {
	review, err := h.repo.FindByID(cmd.ReviewID)
	if err != nil {
		return nil, err
	}

	userID := int64(cmd.UserID)
	liked := false
	filtered := review.Likes[:0:0]
	for _, id := range review.Likes {
		if id == userID {
			liked = true
			continue
		}
		filtered = append(filtered, id)
	}
	if liked {
		review.Likes = filtered
	} else {
		review.Likes = append(review.Likes, userID)
	}

	if err := h.repo.Update(review); err != nil {
		return nil, apperror.Internal(err, "failed to update review")
	}
	return &LikeResult{Liked: !liked, Likes: len(review.Likes)}, nil
}
