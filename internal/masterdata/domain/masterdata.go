package domain

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// Entity is the contract the generic CRUD layer needs from every
// master-data type.
type Entity interface {
	EntityID() uint
	EntityName() string
	CreatorID() uint
	SetCreator(id uint)
	Normalize()
	Validate() error
	// ApplyUpdate copies the non-zero updatable fields of src onto the
	// receiver.
	ApplyUpdate(src Entity)
}

// Person holds the shared shape of Actor, Director and Writer.
type Person struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"uniqueIndex;not null"`
	Bio         string     `json:"bio"`
	Photo       string     `json:"photo"`
	PhotoURL    string     `json:"photoUrl" gorm:"-"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Nationality string     `json:"nationality"`
	CreatedByID uint       `json:"createdBy" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (p *Person) EntityID() uint     { return p.ID }
func (p *Person) EntityName() string { return p.Name }
func (p *Person) CreatorID() uint    { return p.CreatedByID }
func (p *Person) SetCreator(id uint) { p.CreatedByID = id }

// Normalize trims whitespace from the name.
func (p *Person) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
}

// Validate checks the per-entity constraints.
func (p *Person) Validate() error {
	if p.Name == "" {
		return apperror.ValidationFields("name is required", "name")
	}
	if len(p.Bio) > 1000 {
		return apperror.ValidationFields("bio must be at most 1000 characters", "bio")
	}
	return nil
}

// ApplyUpdate copies non-zero updatable fields from src.
func (p *Person) ApplyUpdate(src Entity) {
	s, ok := src.(interface{ base() *Person })
	if !ok {
		return
	}
	sp := s.base()
	if sp.Name != "" {
		p.Name = sp.Name
	}
	if sp.Bio != "" {
		p.Bio = sp.Bio
	}
	if sp.Photo != "" {
		p.Photo = sp.Photo
	}
	if sp.DateOfBirth != nil {
		p.DateOfBirth = sp.DateOfBirth
	}
	if sp.Nationality != "" {
		p.Nationality = sp.Nationality
	}
}

func (p *Person) base() *Person { return p }

// PhotoURL returns the stored photo, or a generated avatar for the
// name when no photo was uploaded.
func PhotoURL(name, photo string) string {
	if photo != "" {
		return photo
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", strings.ReplaceAll(name, " ", "+"))
}

// AfterFind derives the photo url, falling back to a generated avatar.
func (p *Person) AfterFind(*gorm.DB) error {
	p.PhotoURL = PhotoURL(p.Name, p.Photo)
	return nil
}

// Actor is a cast member referenced by movies.
type Actor struct {
	Person `gorm:"embedded"`
}

func (Actor) TableName() string { return "actors" }

// Director is the single required movie reference.
type Director struct {
	Person `gorm:"embedded"`
}

func (Director) TableName() string { return "directors" }

// Writer is an optional movie reference.
type Writer struct {
	Person `gorm:"embedded"`
}

func (Writer) TableName() string { return "writers" }

// Genre is a movie category. Names are normalized to lowercase.
type Genre struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedByID uint      `json:"createdBy" gorm:"not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Genre) TableName() string { return "genres" }

func (g *Genre) EntityID() uint     { return g.ID }
func (g *Genre) EntityName() string { return g.Name }
func (g *Genre) CreatorID() uint    { return g.CreatedByID }
func (g *Genre) SetCreator(id uint) { g.CreatedByID = id }

// Normalize lowercases the genre name.
func (g *Genre) Normalize() {
	g.Name = strings.ToLower(strings.TrimSpace(g.Name))
}

// Validate checks the per-entity constraints.
func (g *Genre) Validate() error {
	if g.Name == "" {
		return apperror.ValidationFields("name is required", "name")
	}
	if len(g.Description) > 500 {
		return apperror.ValidationFields("description must be at most 500 characters", "description")
	}
	return nil
}

// ApplyUpdate copies non-zero updatable fields from src.
func (g *Genre) ApplyUpdate(src Entity) {
	sg, ok := src.(*Genre)
	if !ok {
		return
	}
	if sg.Name != "" {
		g.Name = sg.Name
	}
	if sg.Description != "" {
		g.Description = sg.Description
	}
}

// Config declares the static CRUD metadata for one entity type:
// display names, searchable columns, the sortable-field whitelist and
// the movies column that references it.
type Config struct {
	Singular     string
	Plural       string
	SearchFields []string
	SortFields   map[string]string
	MovieColumn  string
	MovieArray   bool
}

// ListParams controls master-data listing.
type ListParams struct {
	Search string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

// Entity configurations, declared once at startup.
var (
	personSort = map[string]string{
		"name":      "name",
		"createdAt": "created_at",
	}

	ActorConfig = Config{
		Singular:     "actor",
		Plural:       "actors",
		SearchFields: []string{"name", "nationality"},
		SortFields:   personSort,
		MovieColumn:  "cast_ids",
		MovieArray:   true,
	}

	DirectorConfig = Config{
		Singular:     "director",
		Plural:       "directors",
		SearchFields: []string{"name", "nationality"},
		SortFields:   personSort,
		MovieColumn:  "director_id",
	}

	WriterConfig = Config{
		Singular:     "writer",
		Plural:       "writers",
		SearchFields: []string{"name", "nationality"},
		SortFields:   personSort,
		MovieColumn:  "writer_ids",
		MovieArray:   true,
	}

	GenreConfig = Config{
		Singular:     "genre",
		Plural:       "genres",
		SearchFields: []string{"name", "description"},
		SortFields:   personSort,
		MovieColumn:  "genre_ids",
		MovieArray:   true,
	}
)
