package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cineshelf/cineshelf/internal/masterdata/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// CRUD is the generic GORM repository shared by all four master-data
// entity types. An ownerID of zero means global (admin) scope; any
// other value restricts reads and writes to that creator's records.
type CRUD[T any, PT interface {
	*T
	domain.Entity
}] struct {
	db  *gorm.DB
	cfg domain.Config
}

// NewCRUD creates a repository for one entity type.
func NewCRUD[T any, PT interface {
	*T
	domain.Entity
}](db *gorm.DB, cfg domain.Config) *CRUD[T, PT] {
	return &CRUD[T, PT]{db: db, cfg: cfg}
}

// Config returns the entity configuration.
func (r *CRUD[T, PT]) Config() domain.Config {
	return r.cfg
}

// List returns a window of records matching the search filter, scoped
// to ownerID when non-zero, plus the total match count.
func (r *CRUD[T, PT]) List(params domain.ListParams, ownerID uint) ([]T, int64, error) {
	var model T
	query := r.db.Model(&model)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		clauses := make([]string, len(r.cfg.SearchFields))
		args := make([]interface{}, len(r.cfg.SearchFields))
		for i, field := range r.cfg.SearchFields {
			clauses[i] = field + " ILIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}
	if ownerID != 0 {
		query = query.Where("created_by_id = ?", ownerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", r.cfg.Plural, err)
	}

	order := "created_at DESC"
	if column, ok := r.cfg.SortFields[params.Sort]; ok {
		direction := "DESC"
		if params.Order == "asc" {
			direction = "ASC"
		}
		order = column + " " + direction
	}

	var items []T
	err := query.Order(order).
		Limit(params.Limit).
		Offset((params.Page - 1) * params.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", r.cfg.Plural, err)
	}
	return items, total, nil
}

// FindByID retrieves a record, scoped to ownerID when non-zero. A
// record owned by someone else reads as not found.
func (r *CRUD[T, PT]) FindByID(id, ownerID uint) (PT, error) {
	var item T
	query := r.db.Where("id = ?", id)
	if ownerID != 0 {
		query = query.Where("created_by_id = ?", ownerID)
	}
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("%s not found", r.cfg.Singular)
		}
		return nil, fmt.Errorf("failed to find %s: %w", r.cfg.Singular, err)
	}
	return PT(&item), nil
}

// FindByName retrieves a record by case-insensitive exact name match.
func (r *CRUD[T, PT]) FindByName(name string) (PT, error) {
	var item T
	if err := r.db.Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("%s not found", r.cfg.Singular)
		}
		return nil, fmt.Errorf("failed to find %s: %w", r.cfg.Singular, err)
	}
	return PT(&item), nil
}

// Create inserts a record, translating uniqueness violations into a
// conflict error naming the name field.
func (r *CRUD[T, PT]) Create(item PT) error {
	if err := r.db.Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("%s with this name already exists", r.cfg.Singular)
		}
		return fmt.Errorf("failed to create %s: %w", r.cfg.Singular, err)
	}
	return nil
}

// Update saves a record.
func (r *CRUD[T, PT]) Update(item PT) error {
	if err := r.db.Save(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("%s with this name already exists", r.cfg.Singular)
		}
		return fmt.Errorf("failed to update %s: %w", r.cfg.Singular, err)
	}
	return nil
}

// Delete removes a record, scoped to ownerID when non-zero.
func (r *CRUD[T, PT]) Delete(id, ownerID uint) error {
	var model T
	query := r.db.Where("id = ?", id)
	if ownerID != 0 {
		query = query.Where("created_by_id = ?", ownerID)
	}
	result := query.Delete(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", r.cfg.Singular, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("%s not found", r.cfg.Singular)
	}
	return nil
}

// MovieRefCount counts the movies referencing this record through the
// configured column (scalar foreign key or reference array).
func (r *CRUD[T, PT]) MovieRefCount(id uint) (int64, error) {
	var count int64
	var err error
	if r.cfg.MovieArray {
		err = r.db.Raw(
			fmt.Sprintf("SELECT COUNT(*) FROM movies WHERE ? = ANY(%s)", r.cfg.MovieColumn),
			int64(id),
		).Scan(&count).Error
	} else {
		err = r.db.Raw(
			fmt.Sprintf("SELECT COUNT(*) FROM movies WHERE %s = ?", r.cfg.MovieColumn),
			id,
		).Scan(&count).Error
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count movie references: %w", err)
	}
	return count, nil
}

// AutoMigrate runs database migrations for the entity's table.
func (r *CRUD[T, PT]) AutoMigrate() error {
	var model T
	return r.db.AutoMigrate(&model)
}

// Count returns the total number of records.
func (r *CRUD[T, PT]) Count() (int64, error) {
	var model T
	var count int64
	if err := r.db.Model(&model).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.cfg.Plural, err)
	}
	return count, nil
}
