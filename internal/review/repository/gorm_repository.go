package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// GormReviewRepository implements ReviewRepository using GORM.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GORM review repository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create inserts a new review. The composite (movie, user) unique index
// turns concurrent duplicates into a conflict.
func (r *GormReviewRepository) Create(review *domain.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("you have already reviewed this movie")
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// FindByID retrieves a review by ID
func (r *GormReviewRepository) FindByID(id uint) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review not found")
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

// FindByMovieAndUser retrieves the review a user wrote for a movie.
func (r *GormReviewRepository) FindByMovieAndUser(movieID, userID uint) (*domain.Review, error) {
	var review domain.Review
	err := r.db.Where("movie_id = ? AND user_id = ?", movieID, userID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review not found")
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

// FindByMovie lists a movie's reviews, newest first.
func (r *GormReviewRepository) FindByMovie(movieID uint, page, limit int) ([]domain.Review, int64, error) {
	query := r.db.Model(&domain.Review{}).Where("movie_id = ?", movieID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []domain.Review
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// FindByUser lists a user's reviews, newest first.
func (r *GormReviewRepository) FindByUser(userID uint, page, limit int) ([]domain.Review, int64, error) {
	query := r.db.Model(&domain.Review{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []domain.Review
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// FindAll lists reviews for moderation, optionally reported-only.
func (r *GormReviewRepository) FindAll(params domain.ListParams) ([]domain.Review, int64, error) {
	query := r.db.Model(&domain.Review{})
	if params.ReportedOnly {
		query = query.Where("is_reported = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []domain.Review
	err := query.Order("created_at DESC").
		Limit(params.Limit).
		Offset((params.Page - 1) * params.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// Update saves a review
func (r *GormReviewRepository) Update(review *domain.Review) error {
	if err := r.db.Save(review).Error; err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return nil
}

// Delete removes a review and its reports.
func (r *GormReviewRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("review not found")
	}
	if err := r.db.Where("review_id = ?", id).Delete(&domain.Report{}).Error; err != nil {
		return fmt.Errorf("failed to delete review reports: %w", err)
	}
	return nil
}

// DeleteByMovie removes every review of a movie. Used by the movie
// deletion cascade.
func (r *GormReviewRepository) DeleteByMovie(movieID uint) error {
	var ids []uint
	if err := r.db.Model(&domain.Review{}).Where("movie_id = ?", movieID).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to find reviews by movie: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Where("movie_id = ?", movieID).Delete(&domain.Review{}).Error; err != nil {
		return fmt.Errorf("failed to delete reviews by movie: %w", err)
	}
	if err := r.db.Where("review_id IN ?", ids).Delete(&domain.Report{}).Error; err != nil {
		return fmt.Errorf("failed to delete review reports: %w", err)
	}
	return nil
}

// DeleteByUser removes every review authored by the user, returning
// the distinct movie ids that lost a review. Used by the user deletion
// cascade.
func (r *GormReviewRepository) DeleteByUser(userID uint) ([]uint, error) {
	var reviews []domain.Review
	if err := r.db.Select("id", "movie_id").Where("user_id = ?", userID).Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to find reviews by user: %w", err)
	}
	if len(reviews) == 0 {
		return nil, nil
	}

	ids := make([]uint, len(reviews))
	movieSet := map[uint]bool{}
	var movieIDs []uint
	for i, review := range reviews {
		ids[i] = review.ID
		if !movieSet[review.MovieID] {
			movieSet[review.MovieID] = true
			movieIDs = append(movieIDs, review.MovieID)
		}
	}

	if err := r.db.Where("user_id = ?", userID).Delete(&domain.Review{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete reviews by user: %w", err)
	}
	if err := r.db.Where("review_id IN ?", ids).Delete(&domain.Report{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete review reports: %w", err)
	}
	return movieIDs, nil
}

// RecomputeMovieRating refreshes the movie's cached rating fields from
// the reviews table in one grouped update. The mean is rounded to one
// decimal; both fields reset to zero when no reviews remain.
func (r *GormReviewRepository) RecomputeMovieRating(movieID uint) error {
	err := r.db.Exec(`
		UPDATE movies SET
			average_rating = COALESCE(s.avg_rating, 0),
			total_reviews = COALESCE(s.review_count, 0)
		FROM (
			SELECT ROUND(AVG(rating)::numeric, 1) AS avg_rating, COUNT(*) AS review_count
			FROM reviews WHERE movie_id = ?
		) s
		WHERE movies.id = ?`, movieID, movieID).Error
	if err != nil {
		return fmt.Errorf("failed to recompute movie rating: %w", err)
	}
	return nil
}

// PopulateUsers resolves review authors in one batched lookup.
func (r *GormReviewRepository) PopulateUsers(reviews []domain.Review) ([]domain.ReviewView, error) {
	userSet := map[uint]bool{}
	var userIDs []int64
	for _, review := range reviews {
		if !userSet[review.UserID] {
			userSet[review.UserID] = true
			userIDs = append(userIDs, int64(review.UserID))
		}
	}

	reviewers := map[uint]domain.Reviewer{}
	if len(userIDs) > 0 {
		var rows []domain.Reviewer
		err := r.db.Raw("SELECT id, username, profile_pic FROM users WHERE id = ANY(?)", pq.Int64Array(userIDs)).Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load reviewers: %w", err)
		}
		for _, row := range rows {
			reviewers[row.ID] = row
		}
	}

	views := make([]domain.ReviewView, len(reviews))
	for i, review := range reviews {
		views[i] = domain.ReviewView{Review: review}
		if reviewer, ok := reviewers[review.UserID]; ok {
			reviewer := reviewer
			views[i].Reviewer = &reviewer
		}
	}
	return views, nil
}

// AddReport stores one reporter's entry.
func (r *GormReviewRepository) AddReport(report *domain.Report) error {
	if err := r.db.Create(report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("you have already reported this review")
		}
		return fmt.Errorf("failed to add report: %w", err)
	}
	return nil
}

// HasReport reports whether the user already reported the review.
func (r *GormReviewRepository) HasReport(reviewID, reporterID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Report{}).
		Where("review_id = ? AND reporter_id = ?", reviewID, reporterID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check report: %w", err)
	}
	return count > 0, nil
}

// FindReports lists a review's report entries, oldest first.
func (r *GormReviewRepository) FindReports(reviewID uint) ([]domain.Report, error) {
	var reports []domain.Report
	err := r.db.Where("review_id = ?", reviewID).Order("reported_at ASC").Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// Count returns the total number of reviews
func (r *GormReviewRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Review{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// CountCreatedSince returns the number of reviews created after the given time
func (r *GormReviewRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Review{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recent reviews: %w", err)
	}
	return count, nil
}

// Stats returns the system-wide mean rating and rating count.
func (r *GormReviewRepository) Stats() (*domain.RatingStats, error) {
	var stats domain.RatingStats
	err := r.db.Raw(`
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0) AS average_rating, COUNT(*) AS total_ratings
		FROM reviews`).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute rating stats: %w", err)
	}
	return &stats, nil
}

// AutoMigrate runs database migrations
func (r *GormReviewRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Review{}, &domain.Report{})
}
