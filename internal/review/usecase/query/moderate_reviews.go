package query

import (
	"github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// ModeratedReview is a review with its author and report entries, as
// shown in the moderation queue.
type ModeratedReview struct {
	domain.ReviewView
	Reports []domain.Report `json:"reports,omitempty"`
}

// ModerateReviewsQuery lists reviews for moderation.
type ModerateReviewsQuery struct {
	ReportedOnly bool
	Page         int
	Limit        int
}

// ModerateReviewsResult carries one moderation page with the total.
type ModerateReviewsResult struct {
	Reviews []ModeratedReview
	Total   int64
}

// ModerateReviewsHandler handles the moderation listing query
type ModerateReviewsHandler struct {
	repo domain.ReviewRepository
}

// NewModerateReviewsHandler creates a new moderate reviews handler
func NewModerateReviewsHandler(repo domain.ReviewRepository) *ModerateReviewsHandler {
	return &ModerateReviewsHandler{repo: repo}
}

// Handle executes the moderation listing query. Reported reviews carry
// their full report history.
func (h *ModerateReviewsHandler) Handle(q ModerateReviewsQuery) (*ModerateReviewsResult, error) {
	page, limit := clamp(q.Page, q.Limit)
	reviews, total, err := h.repo.FindAll(domain.ListParams{
		ReportedOnly: q.ReportedOnly,
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return nil, apperror.Internal(err, "failed to list reviews")
	}
	views, err := h.repo.PopulateUsers(reviews)
	if err != nil {
		return nil, apperror.Internal(err, "failed to resolve reviewers")
	}

	moderated := make([]ModeratedReview, len(views))
	for i, view := range views {
		moderated[i] = ModeratedReview{ReviewView: view}
		if view.IsReported {
			reports, err := h.repo.FindReports(view.ID)
			if err != nil {
				return nil, apperror.Internal(err, "failed to load reports")
			}
			moderated[i].Reports = reports
		}
	}
	return &ModerateReviewsResult{Reviews: moderated, Total: total}, nil
}
