package command

import (
	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// MovieChecker verifies that a movie exists before it can be favorited.
type MovieChecker interface {
	Exists(movieID uint) (bool, error)
}

// AddFavoriteCommand appends a movie to the user's favorites list.
type AddFavoriteCommand struct {
	UserID  uint
	MovieID uint
}

// RemoveFavoriteCommand removes every occurrence of a movie from the
// user's favorites list.
type RemoveFavoriteCommand struct {
	UserID  uint
	MovieID uint
}

// FavoritesHandler handles favorite add/remove commands
type FavoritesHandler struct {
	repo   domain.UserRepository
	movies MovieChecker
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(repo domain.UserRepository, movies MovieChecker) *FavoritesHandler {
	return &FavoritesHandler{repo: repo, movies: movies}
}

// HandleAdd executes the add favorite command. The favorites list is
// ordered and append-only; duplicates are not rejected.
func (h *FavoritesHandler) HandleAdd(cmd AddFavoriteCommand) (*domain.User, error) {
	exists, err := h.movies.Exists(cmd.MovieID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to check movie")
	}
	if !exists {
		return nil, apperror.NotFound("movie not found")
	}

	user, err := h.repo.FindByID(cmd.UserID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}

	user.Favorites = append(user.Favorites, int64(cmd.MovieID))
	if err := h.repo.Update(user); err != nil {
		return nil, apperror.Internal(err, "failed to update favorites")
	}
	return user, nil
}

// HandleRemove executes the remove favorite command.
func (h *FavoritesHandler) HandleRemove(cmd RemoveFavoriteCommand) (*domain.User, error) {
	user, err := h.repo.FindByID(cmd.UserID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}

	kept := user.Favorites[:0]
	for _, id := range user.Favorites {
		if id != int64(cmd.MovieID) {
			kept = append(kept, id)
		}
	}
	user.Favorites = kept

	if err := h.repo.Update(user); err != nil {
		return nil, apperror.Internal(err, "failed to update favorites")
	}
	return user, nil
}
