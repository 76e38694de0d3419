package command

import (
	"time"

	"github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// ReportReviewCommand flags a review for moderation.
type ReportReviewCommand struct {
	ReviewID   uint   `json:"-"`
	ReporterID uint   `json:"-"`
	Reason     string `json:"reason"`
}

// ReportReviewHandler handles review reporting
type ReportReviewHandler struct {
	repo domain.ReviewRepository
}

// NewReportReviewHandler creates a new report review handler
func NewReportReviewHandler(repo domain.ReviewRepository) *ReportReviewHandler {
	return &ReportReviewHandler{repo: repo}
}

// Handle executes the report review command. Authors cannot report
// their own reviews and each user reports a review at most once. The
// first report's reason becomes the headline shown to moderators.
func (h *ReportReviewHandler) Handle(cmd ReportReviewCommand) (*domain.Review, error) {
	if cmd.Reason == "" {
		return nil, apperror.ValidationFields("reason is required", "reason")
	}

	review, err := h.repo.FindByID(cmd.ReviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID == cmd.ReporterID {
		return nil, apperror.Validation("you cannot report your own review")
	}

	reported, err := h.repo.HasReport(cmd.ReviewID, cmd.ReporterID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to check report")
	}
	if reported {
		return nil, apperror.Conflict("you have already reported this review")
	}

	if err := h.repo.AddReport(&domain.Report{
		ReviewID:   cmd.ReviewID,
		ReporterID: cmd.ReporterID,
		Reason:     cmd.Reason,
		ReportedAt: time.Now(),
	}); err != nil {
		return nil, err
	}

	if !review.IsReported {
		review.IsReported = true
		review.ReportReason = cmd.Reason
		if err := h.repo.Update(review); err != nil {
			return nil, apperror.Internal(err, "failed to flag review")
		}
	}
	return review, nil
}
