package query

import (
	"github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// DefaultPageSize is the review page size when none is requested.
const DefaultPageSize = 10

// ReviewsByMovieQuery lists a movie's reviews with resolved authors.
type ReviewsByMovieQuery struct {
	MovieID uint
	Page    int
	Limit   int
}

// ListReviewsResult carries one page of reviews with the total count.
type ListReviewsResult struct {
	Reviews []domain.ReviewView
	Total   int64
}

// ReviewsByMovieHandler handles the reviews by movie query
type ReviewsByMovieHandler struct {
	repo domain.ReviewRepository
}

// NewReviewsByMovieHandler creates a new reviews by movie handler
func NewReviewsByMovieHandler(repo domain.ReviewRepository) *ReviewsByMovieHandler {
	return &ReviewsByMovieHandler{repo: repo}
}

// Handle executes the reviews by movie query
func (h *ReviewsByMovieHandler) Handle(q ReviewsByMovieQuery) (*ListReviewsResult, error) {
	page, limit := clamp(q.Page, q.Limit)
	reviews, total, err := h.repo.FindByMovie(q.MovieID, page, limit)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list reviews")
	}
	views, err := h.repo.PopulateUsers(reviews)
	if err != nil {
		return nil, apperror.Internal(err, "failed to resolve reviewers")
	}
	return &ListReviewsResult{Reviews: views, Total: total}, nil
}

// ReviewsByUserQuery lists reviews the user has written.
type ReviewsByUserQuery struct {
	UserID uint
	Page   int
	Limit  int
}

// ReviewsByUserHandler handles the reviews by user query
type ReviewsByUserHandler struct {
	repo domain.ReviewRepository
}

// NewReviewsByUserHandler creates a new reviews by user handler
func NewReviewsByUserHandler(repo domain.ReviewRepository) *ReviewsByUserHandler {
	return &ReviewsByUserHandler{repo: repo}
}

// Handle executes the reviews by user query
func (h *ReviewsByUserHandler) Handle(q ReviewsByUserQuery) (*ListReviewsResult, error) {
	page, limit := clamp(q.Page, q.Limit)
	reviews, total, err := h.repo.FindByUser(q.UserID, page, limit)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list reviews")
	}
	views, err := h.repo.PopulateUsers(reviews)
	if err != nil {
		return nil, apperror.Internal(err, "failed to resolve reviewers")
	}
	return &ListReviewsResult{Reviews: views, Total: total}, nil
}

func clamp(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
