package service

import (
	"github.com/cineshelf/cineshelf/internal/masterdata/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// Repository is the persistence surface the service needs. Implemented
// by repository.CRUD.
type Repository[T any, PT interface {
	*T
	domain.Entity
}] interface {
	Config() domain.Config
	List(params domain.ListParams, ownerID uint) ([]T, int64, error)
	FindByID(id, ownerID uint) (PT, error)
	FindByName(name string) (PT, error)
	Create(item PT) error
	Update(item PT) error
	Delete(id, ownerID uint) error
	MovieRefCount(id uint) (int64, error)
}

// CRUDService implements the ownership-scoped CRUD operations for one
// master-data entity type. ownerID == 0 is admin (global) scope; any
// other value scopes every operation to that creator's records.
type CRUDService[T any, PT interface {
	*T
	domain.Entity
}] struct {
	repo Repository[T, PT]
}

// NewCRUDService creates a service for one entity type.
func NewCRUDService[T any, PT interface {
	*T
	domain.Entity
}](repo Repository[T, PT]) *CRUDService[T, PT] {
	return &CRUDService[T, PT]{repo: repo}
}

// Config returns the entity configuration.
func (s *CRUDService[T, PT]) Config() domain.Config {
	return s.repo.Config()
}

// ListResult carries a window of records plus the total match count.
type ListResult[T any] struct {
	Items []T
	Total int64
}

// List returns a paginated window. Page and limit arrive pre-parsed but
// are clamped again here so the contract holds for every caller.
func (s *CRUDService[T, PT]) List(params domain.ListParams, ownerID uint) (*ListResult[T], error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	items, total, err := s.repo.List(params, ownerID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list %s", s.Config().Plural)
	}
	return &ListResult[T]{Items: items, Total: total}, nil
}

// Get retrieves one record within the caller's scope.
func (s *CRUDService[T, PT]) Get(id, ownerID uint) (PT, error) {
	return s.repo.FindByID(id, ownerID)
}

// Create validates, normalizes and persists a new record attributed to
// the acting user (or acting admin).
func (s *CRUDService[T, PT]) Create(item PT, actorID uint) (PT, error) {
	item.Normalize()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if existing, _ := s.repo.FindByName(item.EntityName()); existing != nil {
		return nil, apperror.Conflict("%s with this name already exists", s.Config().Singular)
	}

	item.SetCreator(actorID)
	if err := s.repo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update loads the record within scope, applies the non-zero fields of
// the update payload and saves.
func (s *CRUDService[T, PT]) Update(id, ownerID uint, update PT) (PT, error) {
	existing, err := s.repo.FindByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	update.Normalize()
	previousName := existing.EntityName()
	existing.ApplyUpdate(update)
	if err := existing.Validate(); err != nil {
		return nil, err
	}

	if existing.EntityName() != previousName {
		if other, _ := s.repo.FindByName(existing.EntityName()); other != nil && other.EntityID() != existing.EntityID() {
			return nil, apperror.Conflict("%s with this name already exists", s.Config().Singular)
		}
	}

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a record within scope, refusing when any movie still
// references it.
func (s *CRUDService[T, PT]) Delete(id, ownerID uint) error {
	if _, err := s.repo.FindByID(id, ownerID); err != nil {
		return err
	}

	refs, err := s.repo.MovieRefCount(id)
	if err != nil {
		return apperror.Internal(err, "failed to check movie references")
	}
	if refs > 0 {
		return apperror.Validation("cannot delete %s: referenced by %d movie(s)", s.Config().Singular, refs)
	}

	return s.repo.Delete(id, ownerID)
}

// FindOrCreateByName resolves a name to an existing record or creates a
// new one attributed to the acting user. Used by the movie relationship
// resolver.
func (s *CRUDService[T, PT]) FindOrCreateByName(item PT, actorID uint) (PT, error) {
	item.Normalize()
	if existing, _ := s.repo.FindByName(item.EntityName()); existing != nil {
		return existing, nil
	}

	created, err := s.Create(item, actorID)
	if err == nil {
		return created, nil
	}
	// Lost a create race: another request inserted the same name
	// between the lookup and the insert. Reuse the winner's row.
	if apperror.Is(err, apperror.KindConflict) {
		if existing, ferr := s.repo.FindByName(item.EntityName()); ferr == nil && existing != nil {
			return existing, nil
		}
	}
	return nil, err
}

// Exists reports whether a record with the given id exists globally.
func (s *CRUDService[T, PT]) Exists(id uint) (bool, error) {
	_, err := s.repo.FindByID(id, 0)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
