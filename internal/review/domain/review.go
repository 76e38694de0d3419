package domain

import (
	"time"

	"github.com/lib/pq"

	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// Review represents a user's review of a movie. The (movie, user) pair
// is unique: the composite index is what wins concurrent duplicate
// creates.
type Review struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	MovieID      uint          `json:"movie" gorm:"not null;uniqueIndex:idx_reviews_movie_user"`
	UserID       uint          `json:"user" gorm:"not null;uniqueIndex:idx_reviews_movie_user"`
	Rating       int           `json:"rating" gorm:"not null"`
	Comment      string        `json:"comment"`
	Likes        pq.Int64Array `json:"likes" gorm:"type:bigint[]"`
	IsEdited     bool          `json:"isEdited"`
	EditedAt     *time.Time    `json:"editedAt,omitempty"`
	IsReported   bool          `json:"isReported"`
	ReportReason string        `json:"reportReason,omitempty"` // headline reason from the first report
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// TableName specifies the table name
func (Review) TableName() string {
	return "reviews"
}

// Validate checks the review field constraints.
func (r *Review) Validate() error {
	if r.MovieID == 0 {
		return apperror.ValidationFields("movie is required", "movie")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return apperror.ValidationFields("rating must be between 1 and 5", "rating")
	}
	if len(r.Comment) > 500 {
		return apperror.ValidationFields("comment must be at most 500 characters", "comment")
	}
	return nil
}

// Report is one reporter's entry on a review. At most one entry per
// reporter, enforced at the application level and by the index.
type Report struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	ReviewID   uint      `json:"-" gorm:"not null;uniqueIndex:idx_review_reports_reporter"`
	ReporterID uint      `json:"user" gorm:"not null;uniqueIndex:idx_review_reports_reporter"`
	Reason     string    `json:"reason"`
	ReportedAt time.Time `json:"reportedAt"`
}

// TableName specifies the table name
func (Report) TableName() string {
	return "review_reports"
}

// Reviewer is the resolved review author in API responses.
type Reviewer struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// ReviewView is a review with its author resolved.
type ReviewView struct {
	Review
	Reviewer *Reviewer `json:"reviewer,omitempty"`
}

// ListParams controls admin review listing.
type ListParams struct {
	ReportedOnly bool
	Page         int
	Limit        int
}

// RatingStats is the system-wide review aggregate.
type RatingStats struct {
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int64   `json:"totalRatings"`
}

// ReviewRepository defines the contract for review data access.
type ReviewRepository interface {
	Create(review *Review) error
	FindByID(id uint) (*Review, error)
	FindByMovieAndUser(movieID, userID uint) (*Review, error)
	FindByMovie(movieID uint, page, limit int) ([]Review, int64, error)
	FindByUser(userID uint, page, limit int) ([]Review, int64, error)
	FindAll(params ListParams) ([]Review, int64, error)
	Update(review *Review) error
	Delete(id uint) error
	DeleteByMovie(movieID uint) error
	// DeleteByUser removes the user's reviews and returns the ids of
	// the movies that lost one.
	DeleteByUser(userID uint) ([]uint, error)
	// RecomputeMovieRating refreshes the movie's cached averageRating
	// (mean rounded to one decimal) and totalReviews from the reviews
	// table; both reset to zero when no reviews remain.
	RecomputeMovieRating(movieID uint) error
	// PopulateUsers resolves review authors for responses.
	PopulateUsers(reviews []Review) ([]ReviewView, error)
	AddReport(report *Report) error
	HasReport(reviewID, reporterID uint) (bool, error)
	FindReports(reviewID uint) ([]Report, error)
	Count() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
	Stats() (*RatingStats, error)
}
