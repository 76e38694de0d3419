package query

import (
	"time"

	"github.com/cineshelf/cineshelf/internal/admin/repository"
	reviewdomain "github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// recentWindow is how far back the "recent activity" counters look.
const recentWindow = 30 * 24 * time.Hour

// topN is the size of the top genre/director/actor lists.
const topN = 5

// UserCounter exposes the user aggregates the dashboard needs.
type UserCounter interface {
	Count() (int64, error)
	CountByRole(role string) (int64, error)
	CountActive() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
}

// MovieCounter exposes the movie aggregates the dashboard needs.
type MovieCounter interface {
	Count() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
}

// ReviewCounter exposes the review aggregates the dashboard needs.
type ReviewCounter interface {
	Count() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
	Stats() (*reviewdomain.RatingStats, error)
}

// CatalogCounter counts one master-data table.
type CatalogCounter interface {
	Count() (int64, error)
}

// TopAggregator answers the top-N reference aggregations.
type TopAggregator interface {
	TopGenres(n int) ([]repository.TopEntry, error)
	TopDirectors(n int) ([]repository.TopEntry, error)
	TopActors(n int) ([]repository.TopEntry, error)
}

// Overview is the headline counter block.
type Overview struct {
	TotalUsers     int64 `json:"totalUsers"`
	ActiveUsers    int64 `json:"activeUsers"`
	AdminUsers     int64 `json:"adminUsers"`
	TotalMovies    int64 `json:"totalMovies"`
	TotalReviews   int64 `json:"totalReviews"`
	TotalActors    int64 `json:"totalActors"`
	TotalDirectors int64 `json:"totalDirectors"`
	TotalWriters   int64 `json:"totalWriters"`
	TotalGenres    int64 `json:"totalGenres"`
}

// Recent counts activity inside the recent window.
type Recent struct {
	Days       int   `json:"days"`
	NewUsers   int64 `json:"newUsers"`
	NewMovies  int64 `json:"newMovies"`
	NewReviews int64 `json:"newReviews"`
}

// Stats is the full dashboard payload.
type Stats struct {
	Overview     Overview                  `json:"overview"`
	Recent       Recent                    `json:"recent"`
	TopGenres    []repository.TopEntry     `json:"topGenres"`
	TopDirectors []repository.TopEntry     `json:"topDirectors"`
	TopActors    []repository.TopEntry     `json:"topActors"`
	Ratings      *reviewdomain.RatingStats `json:"ratings"`
}

// StatsHandler assembles the admin dashboard stats.
type StatsHandler struct {
	users     UserCounter
	movies    MovieCounter
	reviews   ReviewCounter
	actors    CatalogCounter
	directors CatalogCounter
	writers   CatalogCounter
	genres    CatalogCounter
	top       TopAggregator
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(
	users UserCounter,
	movies MovieCounter,
	reviews ReviewCounter,
	actors, directors, writers, genres CatalogCounter,
	top TopAggregator,
) *StatsHandler {
	return &StatsHandler{
		users:     users,
		movies:    movies,
		reviews:   reviews,
		actors:    actors,
		directors: directors,
		writers:   writers,
		genres:    genres,
		top:       top,
	}
}

// Handle assembles the dashboard. Any failing aggregate fails the whole
// query; partial dashboards are worse than no dashboard.
func (h *StatsHandler) Handle() (*Stats, error) {
	stats := &Stats{Recent: Recent{Days: int(recentWindow.Hours() / 24)}}
	since := time.Now().Add(-recentWindow)
	var err error

	if stats.Overview.TotalUsers, err = h.users.Count(); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.Overview.ActiveUsers, err = h.users.CountActive(); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.Overview.AdminUsers, err = h.users.CountByRole("admin"); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.Overview.TotalMovies, err = h.movies.Count(); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.Overview.TotalReviews, err = h.reviews.Count(); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.Overview.TotalActors, err = h.actors.Count(); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.Overview.TotalDirectors, err = h.directors.Count(); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.Overview.TotalWriters, err = h.writers.Count(); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.Overview.TotalGenres, err = h.genres.Count(); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}

	if stats.Recent.NewUsers, err = h.users.CountCreatedSince(since); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.Recent.NewMovies, err = h.movies.CountCreatedSince(since); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.Recent.NewReviews, err = h.reviews.CountCreatedSince(since); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}

	if stats.TopGenres, err = h.top.TopGenres(topN); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.TopDirectors, err = h.top.TopDirectors(topN); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	if stats.TopActors, err = h.top.TopActors(topN); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}

	if stats.Ratings, err = h.reviews.Stats(); err != nil {
		return nil, apperror.Internal(err, "failed to compute stats")
	}
	return stats, nil
}
