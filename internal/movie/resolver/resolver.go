package resolver

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/lib/pq"

	mddomain "github.com/cineshelf/cineshelf/internal/masterdata/domain"
	"github.com/cineshelf/cineshelf/internal/masterdata/service"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// RefInput is the heterogeneous reference input accepted on movie
// create/update: either an existing id, or an inline object carrying at
// least a name, which creates the record if no name match exists.
type RefInput struct {
	ID          uint
	Name        string
	Bio         string
	Photo       string
	DateOfBirth *time.Time
	Nationality string
	Description string
}

// UnmarshalJSON accepts a number, a numeric string, or an object.
func (in *RefInput) UnmarshalJSON(data []byte) error {
	var id uint
	if err := json.Unmarshal(data, &id); err == nil {
		in.ID = id
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return apperror.Validation("invalid reference %q", s)
		}
		in.ID = uint(parsed)
		return nil
	}

	var obj struct {
		ID          uint       `json:"id"`
		Name        string     `json:"name"`
		Bio         string     `json:"bio"`
		Photo       string     `json:"photo"`
		DateOfBirth *time.Time `json:"dateOfBirth"`
		Nationality string     `json:"nationality"`
		Description string     `json:"description"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*in = RefInput(obj)
	return nil
}

// Source abstracts one master-data type for resolution.
type Source interface {
	Exists(id uint) (bool, error)
	FindOrCreate(in RefInput, userID uint) (uint, error)
}

// Resolver translates reference inputs into persisted ids for the four
// movie reference fields.
type Resolver struct {
	Directors Source
	Writers   Source
	Actors    Source
	Genres    Source
}

// NewResolver wires the resolver over the master-data services.
func NewResolver(
	directors *service.CRUDService[mddomain.Director, *mddomain.Director],
	writers *service.CRUDService[mddomain.Writer, *mddomain.Writer],
	actors *service.CRUDService[mddomain.Actor, *mddomain.Actor],
	genres *service.CRUDService[mddomain.Genre, *mddomain.Genre],
) *Resolver {
	return &Resolver{
		Directors: personSource[mddomain.Director]{svc: directors, build: func(p mddomain.Person) *mddomain.Director {
			return &mddomain.Director{Person: p}
		}},
		Writers: personSource[mddomain.Writer]{svc: writers, build: func(p mddomain.Person) *mddomain.Writer {
			return &mddomain.Writer{Person: p}
		}},
		Actors: personSource[mddomain.Actor]{svc: actors, build: func(p mddomain.Person) *mddomain.Actor {
			return &mddomain.Actor{Person: p}
		}},
		Genres: genreSource{svc: genres},
	}
}

// ResolveDirector resolves the single required director reference.
func (r *Resolver) ResolveDirector(in RefInput, userID uint) (uint, error) {
	return ResolveOne(r.Directors, "director", in, userID)
}

// ResolveWriters resolves the writers list.
func (r *Resolver) ResolveWriters(ins []RefInput, userID uint) (pq.Int64Array, error) {
	return ResolveMany(r.Writers, "writers", ins, userID)
}

// ResolveCast resolves the cast list.
func (r *Resolver) ResolveCast(ins []RefInput, userID uint) (pq.Int64Array, error) {
	return ResolveMany(r.Actors, "cast", ins, userID)
}

// ResolveGenres resolves the genres list.
func (r *Resolver) ResolveGenres(ins []RefInput, userID uint) (pq.Int64Array, error) {
	return ResolveMany(r.Genres, "genres", ins, userID)
}

// ResolveOne resolves a single reference input. A well-formed id that
// matches no record is a validation error naming the field, never a
// silent drop.
func ResolveOne(src Source, field string, in RefInput, userID uint) (uint, error) {
	if in.ID != 0 {
		exists, err := src.Exists(in.ID)
		if err != nil {
			return 0, apperror.Internal(err, "failed to resolve %s", field)
		}
		if !exists {
			return 0, apperror.ValidationFields("referenced "+field+" does not exist", field)
		}
		return in.ID, nil
	}

	if in.Name != "" {
		id, err := src.FindOrCreate(in, userID)
		if err != nil {
			return 0, err
		}
		return id, nil
	}

	return 0, apperror.ValidationFields(field+" reference requires an id or a name", field)
}

// ResolveMany resolves a reference list, preserving input order.
// Repeated entries are kept as submitted.
func ResolveMany(src Source, field string, ins []RefInput, userID uint) (pq.Int64Array, error) {
	ids := make(pq.Int64Array, 0, len(ins))
	for _, in := range ins {
		id, err := ResolveOne(src, field, in, userID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, int64(id))
	}
	return ids, nil
}

// personSource adapts a person-shaped CRUD service to the Source
// interface.
type personSource[T any] struct {
	svc interface {
		Exists(id uint) (bool, error)
		FindOrCreateByName(item *T, actorID uint) (*T, error)
	}
	build func(mddomain.Person) *T
}

func (s personSource[T]) Exists(id uint) (bool, error) {
	return s.svc.Exists(id)
}

func (s personSource[T]) FindOrCreate(in RefInput, userID uint) (uint, error) {
	item := s.build(mddomain.Person{
		Name:        in.Name,
		Bio:         in.Bio,
		Photo:       in.Photo,
		DateOfBirth: in.DateOfBirth,
		Nationality: in.Nationality,
	})
	created, err := s.svc.FindOrCreateByName(item, userID)
	if err != nil {
		return 0, err
	}
	var entity mddomain.Entity = any(created).(mddomain.Entity)
	return entity.EntityID(), nil
}

// genreSource adapts the genre CRUD service to the Source interface.
type genreSource struct {
	svc *service.CRUDService[mddomain.Genre, *mddomain.Genre]
}

func (s genreSource) Exists(id uint) (bool, error) {
	return s.svc.Exists(id)
}

func (s genreSource) FindOrCreate(in RefInput, userID uint) (uint, error) {
	created, err := s.svc.FindOrCreateByName(&mddomain.Genre{
		Name:        in.Name,
		Description: in.Description,
	}, userID)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}
