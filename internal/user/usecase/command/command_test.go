package command

import (
	"testing"
	"time"

	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
	"github.com/cineshelf/cineshelf/pkg/auth"
)

// fakeUserRepository is an in-memory UserRepository.
type fakeUserRepository struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[uint]*domain.User{}}
}

func (f *fakeUserRepository) add(user domain.User) *domain.User {
	f.nextID++
	user.ID = f.nextID
	user.Email = domain.NormalizeEmail(user.Email)
	stored := user
	f.users[user.ID] = &stored
	return &stored
}

func (f *fakeUserRepository) Create(user *domain.User) error {
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepository) FindByID(id uint) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	copy := *user
	return &copy, nil
}

func (f *fakeUserRepository) FindByUsername(username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copy := *user
			return &copy, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (f *fakeUserRepository) FindByEmail(email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (f *fakeUserRepository) FindAll(params domain.ListParams) ([]domain.User, int64, error) {
	var out []domain.User
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepository) Update(user *domain.User) error {
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepository) Delete(id uint) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepository) Count() (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepository) CountByRole(role string) (int64, error) {
	var n int64
	for _, user := range f.users {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepository) CountActive() (int64, error) {
	var n int64
	for _, user := range f.users {
		if user.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepository) CountCreatedSince(since time.Time) (int64, error) {
	return 0, nil
}

// fakeMovieChecker answers movie existence from a fixed set.
type fakeMovieChecker map[uint]bool

func (f fakeMovieChecker) Exists(movieID uint) (bool, error) {
	return f[movieID], nil
}

func TestRegisterUser(t *testing.T) {
	t.Run("creates active user with default avatar", func(t *testing.T) {
		repo := newFakeUserRepository()
		handler := NewRegisterUserHandler(repo)

		user, err := handler.Handle(RegisterUserCommand{
			Username: "alice",
			Email:    "Alice@Example.com",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("email = %q, want lowercased", user.Email)
		}
		if !user.IsActive {
			t.Error("new user not active")
		}
		if user.Role != domain.RoleUser {
			t.Errorf("role = %q, want %q", user.Role, domain.RoleUser)
		}
		if user.ProfilePic == "" {
			t.Error("profile pic not defaulted")
		}
		if user.Password == "secret123" {
			t.Error("password stored in plaintext")
		}
	})

	t.Run("rejects duplicate email case-insensitively", func(t *testing.T) {
		repo := newFakeUserRepository()
		repo.add(domain.User{Username: "alice", Email: "alice@example.com"})
		handler := NewRegisterUserHandler(repo)

		_, err := handler.Handle(RegisterUserCommand{
			Username: "alice2",
			Email:    "ALICE@example.com",
			Password: "secret123",
		})
		if !apperror.Is(err, apperror.KindConflict) {
			t.Errorf("error kind = %v, want conflict", apperror.KindOf(err))
		}
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		repo := newFakeUserRepository()
		repo.add(domain.User{Username: "alice", Email: "alice@example.com"})
		handler := NewRegisterUserHandler(repo)

		_, err := handler.Handle(RegisterUserCommand{
			Username: "alice",
			Email:    "other@example.com",
			Password: "secret123",
		})
		if !apperror.Is(err, apperror.KindConflict) {
			t.Errorf("error kind = %v, want conflict", apperror.KindOf(err))
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		repo := newFakeUserRepository()
		handler := NewRegisterUserHandler(repo)

		_, err := handler.Handle(RegisterUserCommand{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "123",
		})
		if !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("error kind = %v, want validation", apperror.KindOf(err))
		}
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		repo := newFakeUserRepository()
		handler := NewRegisterUserHandler(repo)

		_, err := handler.Handle(RegisterUserCommand{
			Username: "bob",
			Email:    "not-an-email",
			Password: "secret123",
		})
		if !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("error kind = %v, want validation", apperror.KindOf(err))
		}
	})
}

func TestLoginUser(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	hash, _ := auth.HashPassword("secret123")

	setup := func() *fakeUserRepository {
		repo := newFakeUserRepository()
		repo.add(domain.User{
			Username: "alice",
			Email:    "alice@example.com",
			Password: hash,
			IsActive: true,
		})
		return repo
	}

	t.Run("succeeds with mixed-case email", func(t *testing.T) {
		repo := setup()
		handler := NewLoginUserHandler(repo, tokens)

		result, err := handler.Handle(LoginUserCommand{Email: "Alice@Example.COM", Password: "secret123"})
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if result.Token == "" {
			t.Error("empty token")
		}
		if result.User.LastLogin == nil {
			t.Error("last login not recorded")
		}
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		repo := setup()
		handler := NewLoginUserHandler(repo, tokens)

		_, err := handler.Handle(LoginUserCommand{Email: "alice@example.com", Password: "wrong"})
		if !apperror.Is(err, apperror.KindUnauthorized) {
			t.Errorf("error kind = %v, want unauthorized", apperror.KindOf(err))
		}
	})

	t.Run("rejects unknown email with the same error", func(t *testing.T) {
		repo := setup()
		handler := NewLoginUserHandler(repo, tokens)

		_, err := handler.Handle(LoginUserCommand{Email: "ghost@example.com", Password: "secret123"})
		if !apperror.Is(err, apperror.KindUnauthorized) {
			t.Errorf("error kind = %v, want unauthorized", apperror.KindOf(err))
		}
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		repo := newFakeUserRepository()
		repo.add(domain.User{
			Username: "bob",
			Email:    "bob@example.com",
			Password: hash,
			IsActive: false,
		})
		handler := NewLoginUserHandler(repo, tokens)

		_, err := handler.Handle(LoginUserCommand{Email: "bob@example.com", Password: "secret123"})
		if !apperror.Is(err, apperror.KindForbidden) {
			t.Errorf("error kind = %v, want forbidden", apperror.KindOf(err))
		}
	})
}

func TestFavorites(t *testing.T) {
	t.Run("add keeps order and duplicates", func(t *testing.T) {
		repo := newFakeUserRepository()
		user := repo.add(domain.User{Username: "alice", Email: "a@b.c", IsActive: true})
		handler := NewFavoritesHandler(repo, fakeMovieChecker{10: true, 20: true})

		for _, movieID := range []uint{10, 20, 10} {
			if _, err := handler.HandleAdd(AddFavoriteCommand{UserID: user.ID, MovieID: movieID}); err != nil {
				t.Fatalf("HandleAdd(%d) error = %v", movieID, err)
			}
		}

		stored, _ := repo.FindByID(user.ID)
		want := []int64{10, 20, 10}
		if len(stored.Favorites) != len(want) {
			t.Fatalf("favorites = %v, want %v", stored.Favorites, want)
		}
		for i := range want {
			if stored.Favorites[i] != want[i] {
				t.Errorf("favorites[%d] = %d, want %d", i, stored.Favorites[i], want[i])
			}
		}
	})

	t.Run("add rejects unknown movie", func(t *testing.T) {
		repo := newFakeUserRepository()
		user := repo.add(domain.User{Username: "alice", Email: "a@b.c"})
		handler := NewFavoritesHandler(repo, fakeMovieChecker{})

		_, err := handler.HandleAdd(AddFavoriteCommand{UserID: user.ID, MovieID: 99})
		if !apperror.Is(err, apperror.KindNotFound) {
			t.Errorf("error kind = %v, want not found", apperror.KindOf(err))
		}
	})

	t.Run("remove drops every occurrence", func(t *testing.T) {
		repo := newFakeUserRepository()
		user := repo.add(domain.User{
			Username:  "alice",
			Email:     "a@b.c",
			Favorites: []int64{10, 20, 10},
		})
		handler := NewFavoritesHandler(repo, fakeMovieChecker{})

		updated, err := handler.HandleRemove(RemoveFavoriteCommand{UserID: user.ID, MovieID: 10})
		if err != nil {
			t.Fatalf("HandleRemove() error = %v", err)
		}
		if len(updated.Favorites) != 1 || updated.Favorites[0] != 20 {
			t.Errorf("favorites = %v, want [20]", updated.Favorites)
		}
	})
}

// fakePurger records cascade calls.
type fakePurger struct {
	deletedMovies  []uint
	reviewedMovies []uint
	purged         []uint
	recomputed     []uint
}

func (f *fakePurger) DeleteMoviesByOwner(userID uint) ([]uint, error) {
	return f.deletedMovies, nil
}

func (f *fakePurger) DeleteReviewsByMovie(movieID uint) error {
	f.purged = append(f.purged, movieID)
	return nil
}

func (f *fakePurger) DeleteReviewsByUser(userID uint) ([]uint, error) {
	return f.reviewedMovies, nil
}

func (f *fakePurger) RecomputeMovieRating(movieID uint) error {
	f.recomputed = append(f.recomputed, movieID)
	return nil
}

func TestDeleteUser(t *testing.T) {
	t.Run("refuses to delete the last admin", func(t *testing.T) {
		repo := newFakeUserRepository()
		admin := repo.add(domain.User{Username: "root", Email: "root@x.y", Role: domain.RoleAdmin})
		handler := NewDeleteUserHandler(repo, &fakePurger{})

		err := handler.Handle(DeleteUserCommand{ID: admin.ID})
		if !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("error kind = %v, want validation", apperror.KindOf(err))
		}
		if _, err := repo.FindByID(admin.ID); err != nil {
			t.Error("last admin was deleted")
		}
	})

	t.Run("deletes an admin when another remains", func(t *testing.T) {
		repo := newFakeUserRepository()
		repo.add(domain.User{Username: "root", Email: "root@x.y", Role: domain.RoleAdmin})
		second := repo.add(domain.User{Username: "root2", Email: "root2@x.y", Role: domain.RoleAdmin})
		handler := NewDeleteUserHandler(repo, &fakePurger{})

		if err := handler.Handle(DeleteUserCommand{ID: second.ID}); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if _, err := repo.FindByID(second.ID); err == nil {
			t.Error("admin still present after delete")
		}
	})

	t.Run("recomputes ratings only for surviving movies", func(t *testing.T) {
		repo := newFakeUserRepository()
		user := repo.add(domain.User{Username: "alice", Email: "a@b.c"})
		purger := &fakePurger{
			deletedMovies:  []uint{1, 2},      // the user's own movies, removed outright
			reviewedMovies: []uint{2, 3},      // movies that lost one of the user's reviews
		}
		handler := NewDeleteUserHandler(repo, purger)

		if err := handler.Handle(DeleteUserCommand{ID: user.ID}); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if len(purger.recomputed) != 1 || purger.recomputed[0] != 3 {
			t.Errorf("recomputed = %v, want [3]", purger.recomputed)
		}
	})

	t.Run("purges every review on the deleted user's movies", func(t *testing.T) {
		repo := newFakeUserRepository()
		user := repo.add(domain.User{Username: "alice", Email: "a@b.c"})
		// Movie 10 is owned by the deleted user and carries a review
		// written by someone else; that review must go with the movie.
		purger := &fakePurger{deletedMovies: []uint{10, 11}}
		handler := NewDeleteUserHandler(repo, purger)

		if err := handler.Handle(DeleteUserCommand{ID: user.ID}); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if len(purger.purged) != 2 || purger.purged[0] != 10 || purger.purged[1] != 11 {
			t.Errorf("reviews purged for movies %v, want [10 11]", purger.purged)
		}
	})
}

func TestChangeRole(t *testing.T) {
	t.Run("refuses to demote the last admin", func(t *testing.T) {
		repo := newFakeUserRepository()
		admin := repo.add(domain.User{Username: "root", Email: "root@x.y", Role: domain.RoleAdmin})
		handler := NewChangeRoleHandler(repo)

		_, err := handler.Handle(ChangeRoleCommand{UserID: admin.ID, Role: domain.RoleUser})
		if !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("error kind = %v, want validation", apperror.KindOf(err))
		}
	})

	t.Run("promotes a user", func(t *testing.T) {
		repo := newFakeUserRepository()
		user := repo.add(domain.User{Username: "alice", Email: "a@b.c", Role: domain.RoleUser})
		handler := NewChangeRoleHandler(repo)

		updated, err := handler.Handle(ChangeRoleCommand{UserID: user.ID, Role: domain.RoleAdmin})
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if updated.Role != domain.RoleAdmin {
			t.Errorf("role = %q, want admin", updated.Role)
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		repo := newFakeUserRepository()
		user := repo.add(domain.User{Username: "alice", Email: "a@b.c"})
		handler := NewChangeRoleHandler(repo)

		_, err := handler.Handle(ChangeRoleCommand{UserID: user.ID, Role: "superuser"})
		if !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("error kind = %v, want validation", apperror.KindOf(err))
		}
	})
}
