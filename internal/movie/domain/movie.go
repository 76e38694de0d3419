package domain

import (
	"time"

	"github.com/lib/pq"

	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// Movie represents the movie entity (domain model). Reference lists are
// stored as ordered id arrays; order is the order the owner submitted
// and duplicates are kept as submitted.
type Movie struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Title         string         `json:"title" gorm:"not null;index"`
	Year          int            `json:"year" gorm:"index"`
	Duration      string         `json:"duration"`
	Poster        string         `json:"poster" gorm:"not null"`
	HeroImage     string         `json:"heroImage"`
	Trailer       string         `json:"trailer"`
	Gallery       pq.StringArray `json:"gallery" gorm:"type:text[]"`
	Description   string         `json:"description"`
	DirectorID    uint           `json:"director" gorm:"not null;index"`
	WriterIDs     pq.Int64Array  `json:"writers" gorm:"type:bigint[]"`
	CastIDs       pq.Int64Array  `json:"cast" gorm:"type:bigint[]"`
	GenreIDs      pq.Int64Array  `json:"genres" gorm:"type:bigint[]"`
	UserID        uint           `json:"user" gorm:"not null;index"`
	ImdbRating    float64        `json:"imdbRating"`
	AverageRating float64        `json:"averageRating"` // derived from reviews, cached
	TotalReviews  int            `json:"totalReviews"`  // derived from reviews, cached
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// TableName specifies the table name
func (Movie) TableName() string {
	return "movies"
}

// Validate checks the movie field constraints.
func (m *Movie) Validate() error {
	currentYear := time.Now().Year()
	if m.Title == "" {
		return apperror.ValidationFields("title is required", "title")
	}
	if m.Year < 1900 || m.Year > currentYear+5 {
		return apperror.ValidationFields("year must be between 1900 and the near future", "year")
	}
	if m.Poster == "" {
		return apperror.ValidationFields("poster is required", "poster")
	}
	if m.DirectorID == 0 {
		return apperror.ValidationFields("director is required", "director")
	}
	return nil
}

// Ref is a resolved master-data reference in an API response.
type Ref struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// OwnerRef is the resolved owning user in an API response.
type OwnerRef struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// MovieView is a movie with its references resolved for responses.
// Director and user flatten to a scalar (or absent when dangling).
type MovieView struct {
	Movie
	Director *Ref      `json:"directorInfo,omitempty"`
	Writers  []Ref     `json:"writersInfo"`
	Cast     []Ref     `json:"castInfo"`
	Genres   []Ref     `json:"genresInfo"`
	Owner    *OwnerRef `json:"owner,omitempty"`
}

// ListParams controls movie listing and search.
type ListParams struct {
	Search   string // title/description substring, OR'd with actor-name matches
	Year     int
	Genre    string // genre name, resolved to id
	Director string // director name, resolved to id
	OwnerID  uint   // owner filter; zero means all owners
	Random   bool
	Sort     string
	Order    string
	Page     int
	Limit    int
}

// FavoriteParams controls the per-user favorites listing.
type FavoriteParams struct {
	Genre string
	Year  int
	Sort  string // title, year, rating, createdAt
	Order string
	Page  int
	Limit int
}

// MovieRepository defines the contract for movie data access.
type MovieRepository interface {
	Create(movie *Movie) error
	// FindByID scopes the lookup to ownerID when non-zero; a movie
	// owned by someone else reads as not found.
	FindByID(id, ownerID uint) (*Movie, error)
	Update(movie *Movie) error
	Delete(id, ownerID uint) error
	List(params ListParams) ([]Movie, int64, error)
	// Sample returns up to limit random movies from the filtered set.
	Sample(params ListParams, limit int) ([]Movie, error)
	FindByActor(actorID uint, page, limit int) ([]Movie, int64, error)
	// FindFavorites filters and windows the given favorite ids in a
	// single count-plus-window query.
	FindFavorites(favoriteIDs []int64, params FavoriteParams) ([]Movie, int64, error)
	// Populate resolves director/writers/cast/genres/user references.
	Populate(movies []Movie) ([]MovieView, error)
	Exists(id uint) (bool, error)
	DeleteByOwner(userID uint) ([]uint, error)
	Count() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
}
