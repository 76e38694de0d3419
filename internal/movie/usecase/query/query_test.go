package query

import (
	"testing"
	"time"

	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// fakeMovieRepository records the params passed to List/Sample and
// serves a fixed movie set.
type fakeMovieRepository struct {
	movies     []domain.Movie
	listParams *domain.ListParams
	sampled    *int
}

func (f *fakeMovieRepository) Create(movie *domain.Movie) error { return nil }

func (f *fakeMovieRepository) FindByID(id, ownerID uint) (*domain.Movie, error) {
	for _, movie := range f.movies {
		if movie.ID == id && (ownerID == 0 || movie.UserID == ownerID) {
			copy := movie
			return &copy, nil
		}
	}
	return nil, apperror.NotFound("movie not found")
}

func (f *fakeMovieRepository) Update(movie *domain.Movie) error { return nil }

func (f *fakeMovieRepository) Delete(id, ownerID uint) error { return nil }

func (f *fakeMovieRepository) List(params domain.ListParams) ([]domain.Movie, int64, error) {
	f.listParams = &params
	return f.movies, int64(len(f.movies)), nil
}

func (f *fakeMovieRepository) Sample(params domain.ListParams, limit int) ([]domain.Movie, error) {
	f.sampled = &limit
	if limit > len(f.movies) {
		limit = len(f.movies)
	}
	return f.movies[:limit], nil
}

func (f *fakeMovieRepository) FindByActor(actorID uint, page, limit int) ([]domain.Movie, int64, error) {
	return f.movies, int64(len(f.movies)), nil
}

func (f *fakeMovieRepository) FindFavorites(favoriteIDs []int64, params domain.FavoriteParams) ([]domain.Movie, int64, error) {
	set := make(map[int64]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		set[id] = true
	}
	var out []domain.Movie
	for _, movie := range f.movies {
		if set[int64(movie.ID)] {
			out = append(out, movie)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeMovieRepository) Populate(movies []domain.Movie) ([]domain.MovieView, error) {
	views := make([]domain.MovieView, len(movies))
	for i, movie := range movies {
		views[i] = domain.MovieView{Movie: movie}
	}
	return views, nil
}

func (f *fakeMovieRepository) Exists(id uint) (bool, error) {
	for _, movie := range f.movies {
		if movie.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMovieRepository) DeleteByOwner(userID uint) ([]uint, error) { return nil, nil }

func (f *fakeMovieRepository) Count() (int64, error) { return int64(len(f.movies)), nil }

func (f *fakeMovieRepository) CountCreatedSince(since time.Time) (int64, error) { return 0, nil }

// fakeActorChecker answers actor existence from a fixed set.
type fakeActorChecker map[uint]bool

func (f fakeActorChecker) Exists(id uint) (bool, error) { return f[id], nil }

func TestListMovies(t *testing.T) {
	t.Run("clamps page and limit", func(t *testing.T) {
		repo := &fakeMovieRepository{}
		handler := NewListMoviesHandler(repo)

		if _, err := handler.Handle(ListMoviesQuery{Params: domain.ListParams{Page: -1, Limit: 5000}}); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if repo.listParams.Page != 1 {
			t.Errorf("page = %d, want 1", repo.listParams.Page)
		}
		if repo.listParams.Limit != 100 {
			t.Errorf("limit = %d, want 100", repo.listParams.Limit)
		}
	})

	t.Run("defaults the window size", func(t *testing.T) {
		repo := &fakeMovieRepository{}
		handler := NewListMoviesHandler(repo)

		if _, err := handler.Handle(ListMoviesQuery{}); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if repo.listParams.Limit != DefaultPageSize {
			t.Errorf("limit = %d, want %d", repo.listParams.Limit, DefaultPageSize)
		}
	})

	t.Run("random mode samples instead of listing", func(t *testing.T) {
		repo := &fakeMovieRepository{movies: []domain.Movie{{ID: 1}, {ID: 2}, {ID: 3}}}
		handler := NewListMoviesHandler(repo)

		result, err := handler.Handle(ListMoviesQuery{Params: domain.ListParams{Random: true, Limit: 2}})
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if !result.Random {
			t.Error("result not marked random")
		}
		if repo.sampled == nil || *repo.sampled != 2 {
			t.Error("Sample not called with requested limit")
		}
		if repo.listParams != nil {
			t.Error("List called in random mode")
		}
		if len(result.Movies) != 2 {
			t.Errorf("movies = %d, want 2", len(result.Movies))
		}
	})
}

func TestGetMovie(t *testing.T) {
	repo := &fakeMovieRepository{movies: []domain.Movie{{ID: 1, UserID: 7, Title: "Arrival"}}}
	handler := NewGetMovieHandler(repo)

	t.Run("found", func(t *testing.T) {
		view, err := handler.Handle(GetMovieQuery{ID: 1})
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if view.Title != "Arrival" {
			t.Errorf("title = %q, want Arrival", view.Title)
		}
	})

	t.Run("owner scope hides foreign movies", func(t *testing.T) {
		_, err := handler.Handle(GetMovieQuery{ID: 1, OwnerID: 8})
		if !apperror.Is(err, apperror.KindNotFound) {
			t.Errorf("error kind = %v, want not found", apperror.KindOf(err))
		}
	})
}

func TestMoviesByActor(t *testing.T) {
	repo := &fakeMovieRepository{movies: []domain.Movie{{ID: 1}}}

	t.Run("unknown actor is a 404", func(t *testing.T) {
		handler := NewMoviesByActorHandler(repo, fakeActorChecker{})
		_, err := handler.Handle(MoviesByActorQuery{ActorID: 9})
		if !apperror.Is(err, apperror.KindNotFound) {
			t.Errorf("error kind = %v, want not found", apperror.KindOf(err))
		}
	})

	t.Run("known actor lists movies", func(t *testing.T) {
		handler := NewMoviesByActorHandler(repo, fakeActorChecker{9: true})
		result, err := handler.Handle(MoviesByActorQuery{ActorID: 9})
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if len(result.Movies) != 1 {
			t.Errorf("movies = %d, want 1", len(result.Movies))
		}
	})
}

func TestFavoritesQuery(t *testing.T) {
	repo := &fakeMovieRepository{movies: []domain.Movie{{ID: 1}, {ID: 2}, {ID: 3}}}
	handler := NewFavoritesHandler(repo)

	result, err := handler.Handle(FavoritesQuery{FavoriteIDs: []int64{1, 3}})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if result.Total != 2 {
		t.Errorf("total = %d, want 2", result.Total)
	}
}
