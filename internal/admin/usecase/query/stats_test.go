package query

import (
	"errors"
	"testing"
	"time"

	"github.com/cineshelf/cineshelf/internal/admin/repository"
	reviewdomain "github.com/cineshelf/cineshelf/internal/review/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

type fakeUserCounter struct{ total, active, admins, recent int64 }

func (f fakeUserCounter) Count() (int64, error)             { return f.total, nil }
func (f fakeUserCounter) CountActive() (int64, error)       { return f.active, nil }
func (f fakeUserCounter) CountByRole(string) (int64, error) { return f.admins, nil }
func (f fakeUserCounter) CountCreatedSince(time.Time) (int64, error) {
	return f.recent, nil
}

type fakeCounter struct {
	total, recent int64
	err           error
}

func (f fakeCounter) Count() (int64, error) { return f.total, f.err }
func (f fakeCounter) CountCreatedSince(time.Time) (int64, error) {
	return f.recent, f.err
}

type fakeReviewCounter struct {
	fakeCounter
	stats reviewdomain.RatingStats
}

func (f fakeReviewCounter) Stats() (*reviewdomain.RatingStats, error) {
	return &f.stats, f.err
}

type fakeTop struct{ entries []repository.TopEntry }

func (f fakeTop) TopGenres(n int) ([]repository.TopEntry, error) { return f.entries, nil }
func (f fakeTop) TopDirectors(n int) ([]repository.TopEntry, error) { return f.entries, nil }
func (f fakeTop) TopActors(n int) ([]repository.TopEntry, error) { return f.entries, nil }

func TestStatsHandler(t *testing.T) {
	t.Run("assembles the dashboard", func(t *testing.T) {
		handler := NewStatsHandler(
			fakeUserCounter{total: 10, active: 8, admins: 2, recent: 3},
			fakeCounter{total: 40, recent: 5},
			fakeReviewCounter{
				fakeCounter: fakeCounter{total: 120, recent: 11},
				stats:       reviewdomain.RatingStats{AverageRating: 3.7, TotalRatings: 120},
			},
			fakeCounter{total: 50},
			fakeCounter{total: 20},
			fakeCounter{total: 15},
			fakeCounter{total: 12},
			fakeTop{entries: []repository.TopEntry{{ID: 1, Name: "drama", Count: 9}}},
		)

		stats, err := handler.Handle()
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if stats.Overview.TotalUsers != 10 || stats.Overview.ActiveUsers != 8 {
			t.Errorf("overview = %+v", stats.Overview)
		}
		if stats.Overview.TotalGenres != 12 {
			t.Errorf("totalGenres = %d, want 12", stats.Overview.TotalGenres)
		}
		if stats.Recent.Days != 30 || stats.Recent.NewReviews != 11 {
			t.Errorf("recent = %+v", stats.Recent)
		}
		if len(stats.TopGenres) != 1 || stats.TopGenres[0].Name != "drama" {
			t.Errorf("topGenres = %+v", stats.TopGenres)
		}
		if stats.Ratings.AverageRating != 3.7 {
			t.Errorf("averageRating = %v, want 3.7", stats.Ratings.AverageRating)
		}
	})

	t.Run("any failing aggregate fails the query", func(t *testing.T) {
		handler := NewStatsHandler(
			fakeUserCounter{},
			fakeCounter{err: errors.New("db gone")},
			fakeReviewCounter{},
			fakeCounter{}, fakeCounter{}, fakeCounter{}, fakeCounter{},
			fakeTop{},
		)

		_, err := handler.Handle()
		if !apperror.Is(err, apperror.KindInternal) {
			t.Errorf("error kind = %v, want internal", apperror.KindOf(err))
		}
	})
}
