package service

import (
	"testing"

	"github.com/cineshelf/cineshelf/internal/masterdata/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// fakeGenreRepository keeps genres keyed by normalized name. When race
// is set, the next Create lands a competing row first and reports the
// uniqueness violation, like a concurrent insert on the unique index.
type fakeGenreRepository struct {
	rows   map[string]*domain.Genre
	nextID uint
	race   bool
}

func newFakeGenreRepository() *fakeGenreRepository {
	return &fakeGenreRepository{rows: map[string]*domain.Genre{}}
}

func (f *fakeGenreRepository) Config() domain.Config { return domain.GenreConfig }

func (f *fakeGenreRepository) List(params domain.ListParams, ownerID uint) ([]domain.Genre, int64, error) {
	return nil, 0, nil
}

func (f *fakeGenreRepository) FindByID(id, ownerID uint) (*domain.Genre, error) {
	for _, genre := range f.rows {
		if genre.ID == id {
			return genre, nil
		}
	}
	return nil, apperror.NotFound("genre not found")
}

func (f *fakeGenreRepository) FindByName(name string) (*domain.Genre, error) {
	if genre, ok := f.rows[name]; ok {
		return genre, nil
	}
	return nil, apperror.NotFound("genre not found")
}

func (f *fakeGenreRepository) Create(item *domain.Genre) error {
	if f.race {
		f.race = false
		f.nextID++
		f.rows[item.Name] = &domain.Genre{ID: f.nextID, Name: item.Name, CreatedByID: 99}
		return apperror.Conflict("genre with this name already exists")
	}
	if _, ok := f.rows[item.Name]; ok {
		return apperror.Conflict("genre with this name already exists")
	}
	f.nextID++
	item.ID = f.nextID
	f.rows[item.Name] = item
	return nil
}

func (f *fakeGenreRepository) Update(item *domain.Genre) error { return nil }

func (f *fakeGenreRepository) Delete(id, ownerID uint) error { return nil }

func (f *fakeGenreRepository) MovieRefCount(id uint) (int64, error) { return 0, nil }

func TestFindOrCreateByName(t *testing.T) {
	t.Run("reuses an existing record", func(t *testing.T) {
		repo := newFakeGenreRepository()
		repo.rows["drama"] = &domain.Genre{ID: 7, Name: "drama", CreatedByID: 1}
		svc := NewCRUDService[domain.Genre](repo)

		genre, err := svc.FindOrCreateByName(&domain.Genre{Name: " Drama "}, 2)
		if err != nil {
			t.Fatalf("FindOrCreateByName() error = %v", err)
		}
		if genre.ID != 7 {
			t.Errorf("id = %d, want the existing record 7", genre.ID)
		}
	})

	t.Run("creates when missing", func(t *testing.T) {
		repo := newFakeGenreRepository()
		svc := NewCRUDService[domain.Genre](repo)

		genre, err := svc.FindOrCreateByName(&domain.Genre{Name: "Thriller"}, 2)
		if err != nil {
			t.Fatalf("FindOrCreateByName() error = %v", err)
		}
		if genre.Name != "thriller" {
			t.Errorf("name = %q, want normalized thriller", genre.Name)
		}
		if genre.CreatedByID != 2 {
			t.Errorf("creator = %d, want 2", genre.CreatedByID)
		}
	})

	t.Run("reuses the winner after losing a create race", func(t *testing.T) {
		repo := newFakeGenreRepository()
		repo.race = true
		svc := NewCRUDService[domain.Genre](repo)

		genre, err := svc.FindOrCreateByName(&domain.Genre{Name: "horror"}, 2)
		if err != nil {
			t.Fatalf("FindOrCreateByName() error = %v", err)
		}
		if genre.CreatedByID != 99 {
			t.Errorf("creator = %d, want the competing row's 99", genre.CreatedByID)
		}
	})
}
