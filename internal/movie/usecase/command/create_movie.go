package command

import (
	"github.com/lib/pq"

	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/internal/movie/resolver"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// CreateMovieCommand represents the command to create a movie.
// Reference fields accept an existing id or an inline create-by-name
// object; the resolver turns both into persisted ids.
type CreateMovieCommand struct {
	Title       string
	Year        int
	Duration    string
	Poster      string
	HeroImage   string
	Trailer     string
	Gallery     []string
	Description string
	ImdbRating  float64
	Director    resolver.RefInput
	Writers     []resolver.RefInput
	Cast        []resolver.RefInput
	Genres      []resolver.RefInput
	OwnerID     uint
}

// CreateMovieHandler handles movie creation command
type CreateMovieHandler struct {
	repo     domain.MovieRepository
	resolver *resolver.Resolver
}

// NewCreateMovieHandler creates a new create movie handler
func NewCreateMovieHandler(repo domain.MovieRepository, res *resolver.Resolver) *CreateMovieHandler {
	return &CreateMovieHandler{repo: repo, resolver: res}
}

// Handle executes the create movie command
func (h *CreateMovieHandler) Handle(cmd CreateMovieCommand) (*domain.Movie, error) {
	directorID, err := h.resolver.ResolveDirector(cmd.Director, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	writerIDs, err := h.resolver.ResolveWriters(cmd.Writers, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	castIDs, err := h.resolver.ResolveCast(cmd.Cast, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	genreIDs, err := h.resolver.ResolveGenres(cmd.Genres, cmd.OwnerID)
	if err != nil {
		return nil, err
	}

	movie := &domain.Movie{
		Title:       cmd.Title,
		Year:        cmd.Year,
		Duration:    cmd.Duration,
		Poster:      cmd.Poster,
		HeroImage:   cmd.HeroImage,
		Trailer:     cmd.Trailer,
		Gallery:     pq.StringArray(cmd.Gallery),
		Description: cmd.Description,
		ImdbRating:  cmd.ImdbRating,
		DirectorID:  directorID,
		WriterIDs:   writerIDs,
		CastIDs:     castIDs,
		GenreIDs:    genreIDs,
		UserID:      cmd.OwnerID,
	}

	if err := movie.Validate(); err != nil {
		return nil, err
	}

	if err := h.repo.Create(movie); err != nil {
		return nil, apperror.Internal(err, "failed to create movie")
	}
	return movie, nil
}
