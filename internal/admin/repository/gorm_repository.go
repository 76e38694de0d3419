package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// TopEntry is one row of a top-N aggregation.
type TopEntry struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// GormStatsRepository answers the cross-table aggregations behind the
// admin dashboard. Reference arrays are unnested so each occurrence
// counts once.
type GormStatsRepository struct {
	db *gorm.DB
}

// NewGormStatsRepository creates a new stats repository
func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// TopGenres returns the n genres referenced by the most movies.
func (r *GormStatsRepository) TopGenres(n int) ([]TopEntry, error) {
	return r.topFromArray("genres", "genre_ids", n)
}

// TopActors returns the n actors with the most cast appearances.
func (r *GormStatsRepository) TopActors(n int) ([]TopEntry, error) {
	return r.topFromArray("actors", "cast_ids", n)
}

// TopDirectors returns the n directors with the most movies.
func (r *GormStatsRepository) TopDirectors(n int) ([]TopEntry, error) {
	var entries []TopEntry
	err := r.db.Raw(`
		SELECT d.id, d.name, COUNT(*) AS count
		FROM movies m
		JOIN directors d ON d.id = m.director_id
		GROUP BY d.id, d.name
		ORDER BY count DESC, d.name ASC
		LIMIT ?`, n).Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top directors: %w", err)
	}
	return entries, nil
}

func (r *GormStatsRepository) topFromArray(table, column string, n int) ([]TopEntry, error) {
	var entries []TopEntry
	query := fmt.Sprintf(`
		SELECT t.id, t.name, COUNT(*) AS count
		FROM movies m, unnest(m.%s) AS ref(id)
		JOIN %s t ON t.id = ref.id
		GROUP BY t.id, t.name
		ORDER BY count DESC, t.name ASC
		LIMIT ?`, column, table)
	if err := r.db.Raw(query, n).Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate top %s: %w", table, err)
	}
	return entries, nil
}
