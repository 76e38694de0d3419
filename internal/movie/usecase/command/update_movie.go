package command

import (
	"github.com/lib/pq"

	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/internal/movie/resolver"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// UpdateMovieCommand represents the command to update a movie. Nil
// reference slices mean "leave unchanged"; OwnerID zero is admin scope.
type UpdateMovieCommand struct {
	ID          uint
	Title       *string
	Year        *int
	Duration    *string
	Poster      *string
	HeroImage   *string
	Trailer     *string
	Gallery     []string
	Description *string
	ImdbRating  *float64
	Director    *resolver.RefInput
	Writers     []resolver.RefInput
	Cast        []resolver.RefInput
	Genres      []resolver.RefInput
	OwnerID     uint
	ActorID     uint // acting user, attribution target for created refs
}

// UpdateMovieHandler handles movie update command
type UpdateMovieHandler struct {
	repo     domain.MovieRepository
	resolver *resolver.Resolver
}

// NewUpdateMovieHandler creates a new update movie handler
func NewUpdateMovieHandler(repo domain.MovieRepository, res *resolver.Resolver) *UpdateMovieHandler {
	return &UpdateMovieHandler{repo: repo, resolver: res}
}

// Handle executes the update movie command
func (h *UpdateMovieHandler) Handle(cmd UpdateMovieCommand) (*domain.Movie, error) {
	movie, err := h.repo.FindByID(cmd.ID, cmd.OwnerID)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		movie.Title = *cmd.Title
	}
	if cmd.Year != nil {
		movie.Year = *cmd.Year
	}
	if cmd.Duration != nil {
		movie.Duration = *cmd.Duration
	}
	if cmd.Poster != nil {
		movie.Poster = *cmd.Poster
	}
	if cmd.HeroImage != nil {
		movie.HeroImage = *cmd.HeroImage
	}
	if cmd.Trailer != nil {
		movie.Trailer = *cmd.Trailer
	}
	if cmd.Gallery != nil {
		movie.Gallery = pq.StringArray(cmd.Gallery)
	}
	if cmd.Description != nil {
		movie.Description = *cmd.Description
	}
	if cmd.ImdbRating != nil {
		movie.ImdbRating = *cmd.ImdbRating
	}

	if cmd.Director != nil {
		directorID, err := h.resolver.ResolveDirector(*cmd.Director, cmd.ActorID)
		if err != nil {
			return nil, err
		}
		movie.DirectorID = directorID
	}
	if cmd.Writers != nil {
		writerIDs, err := h.resolver.ResolveWriters(cmd.Writers, cmd.ActorID)
		if err != nil {
			return nil, err
		}
		movie.WriterIDs = writerIDs
	}
	if cmd.Cast != nil {
		castIDs, err := h.resolver.ResolveCast(cmd.Cast, cmd.ActorID)
		if err != nil {
			return nil, err
		}
		movie.CastIDs = castIDs
	}
	if cmd.Genres != nil {
		genreIDs, err := h.resolver.ResolveGenres(cmd.Genres, cmd.ActorID)
		if err != nil {
			return nil, err
		}
		movie.GenreIDs = genreIDs
	}

	if err := movie.Validate(); err != nil {
		return nil, err
	}

	if err := h.repo.Update(movie); err != nil {
		return nil, apperror.Internal(err, "failed to update movie")
	}
	return movie, nil
}
