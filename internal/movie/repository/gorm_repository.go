package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	mddomain "github.com/cineshelf/cineshelf/internal/masterdata/domain"
	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// movieSortFields is the whitelist of sortable movie listing fields.
var movieSortFields = map[string]string{
	"title":         "title",
	"year":          "year",
	"createdAt":     "created_at",
	"averageRating": "average_rating",
	"imdbRating":    "imdb_rating",
	"duration":      "duration",
}

// favoriteSortFields is the whitelist for the favorites listing.
var favoriteSortFields = map[string]string{
	"title":     "title",
	"year":      "year",
	"rating":    "average_rating",
	"createdAt": "created_at",
}

// GormMovieRepository implements MovieRepository using GORM.
type GormMovieRepository struct {
	db *gorm.DB
}

// NewGormMovieRepository creates a new GORM movie repository
func NewGormMovieRepository(db *gorm.DB) *GormMovieRepository {
	return &GormMovieRepository{db: db}
}

// Create inserts a new movie
func (r *GormMovieRepository) Create(movie *domain.Movie) error {
	if err := r.db.Create(movie).Error; err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return nil
}

// FindByID retrieves a movie, scoped to ownerID when non-zero.
func (r *GormMovieRepository) FindByID(id, ownerID uint) (*domain.Movie, error) {
	var movie domain.Movie
	query := r.db.Where("id = ?", id)
	if ownerID != 0 {
		query = query.Where("user_id = ?", ownerID)
	}
	if err := query.First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("movie not found")
		}
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}
	return &movie, nil
}

// Update saves a movie
func (r *GormMovieRepository) Update(movie *domain.Movie) error {
	if err := r.db.Save(movie).Error; err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	return nil
}

// Delete removes a movie, scoped to ownerID when non-zero.
func (r *GormMovieRepository) Delete(id, ownerID uint) error {
	query := r.db.Where("id = ?", id)
	if ownerID != 0 {
		query = query.Where("user_id = ?", ownerID)
	}
	result := query.Delete(&domain.Movie{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete movie: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("movie not found")
	}
	return nil
}

// buildListQuery applies the search and exact filters shared by List
// and Sample. Genre and director names resolve to ids first; a name
// with no match yields an empty result rather than an error.
func (r *GormMovieRepository) buildListQuery(params domain.ListParams) (*gorm.DB, error) {
	query := r.db.Model(&domain.Movie{})

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where(
			"title ILIKE ? OR description ILIKE ? OR EXISTS (SELECT 1 FROM actors a WHERE a.id = ANY(movies.cast_ids) AND a.name ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if params.Year != 0 {
		query = query.Where("year = ?", params.Year)
	}
	if params.Genre != "" {
		var genreID uint
		err := r.db.Raw("SELECT id FROM genres WHERE LOWER(name) = LOWER(?)", params.Genre).Scan(&genreID).Error
		if err != nil {
			return nil, fmt.Errorf("failed to resolve genre filter: %w", err)
		}
		query = query.Where("? = ANY(genre_ids)", int64(genreID))
	}
	if params.Director != "" {
		var directorID uint
		err := r.db.Raw("SELECT id FROM directors WHERE LOWER(name) = LOWER(?)", params.Director).Scan(&directorID).Error
		if err != nil {
			return nil, fmt.Errorf("failed to resolve director filter: %w", err)
		}
		query = query.Where("director_id = ?", directorID)
	}
	if params.OwnerID != 0 {
		query = query.Where("user_id = ?", params.OwnerID)
	}

	return query, nil
}

// List returns a sorted window of the filtered set plus the total count.
func (r *GormMovieRepository) List(params domain.ListParams) ([]domain.Movie, int64, error) {
	query, err := r.buildListQuery(params)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	order := "created_at DESC"
	if column, ok := movieSortFields[params.Sort]; ok {
		direction := "DESC"
		if params.Order == "asc" {
			direction = "ASC"
		}
		order = column + " " + direction
	}

	var movies []domain.Movie
	err = query.Order(order).
		Limit(params.Limit).
		Offset((params.Page - 1) * params.Limit).
		Find(&movies).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, total, nil
}

// Sample returns up to limit movies drawn randomly from the filtered
// set, bypassing sort and skip.
func (r *GormMovieRepository) Sample(params domain.ListParams, limit int) ([]domain.Movie, error) {
	query, err := r.buildListQuery(params)
	if err != nil {
		return nil, err
	}

	var movies []domain.Movie
	if err := query.Order("random()").Limit(limit).Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to sample movies: %w", err)
	}
	return movies, nil
}

// FindByActor lists movies whose cast contains the actor, newest year
// first.
func (r *GormMovieRepository) FindByActor(actorID uint, page, limit int) ([]domain.Movie, int64, error) {
	query := r.db.Model(&domain.Movie{}).Where("? = ANY(cast_ids)", int64(actorID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count movies by actor: %w", err)
	}

	var movies []domain.Movie
	err := query.Order("year DESC, created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&movies).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find movies by actor: %w", err)
	}
	return movies, total, nil
}

// favoriteRow carries a movie row plus the window's total count from
// the count-plus-window query.
type favoriteRow struct {
	domain.Movie
	TotalCount int64
}

// FindFavorites filters, sorts and windows the user's favorited movie
// ids in one query, using a window-function count instead of a second
// count query.
func (r *GormMovieRepository) FindFavorites(favoriteIDs []int64, params domain.FavoriteParams) ([]domain.Movie, int64, error) {
	if len(favoriteIDs) == 0 {
		return nil, 0, nil
	}

	where := "id = ANY(?)"
	args := []interface{}{pq.Int64Array(favoriteIDs)}

	if params.Genre != "" {
		where += " AND EXISTS (SELECT 1 FROM genres g WHERE g.id = ANY(movies.genre_ids) AND g.name = LOWER(?))"
		args = append(args, params.Genre)
	}
	if params.Year != 0 {
		where += " AND year = ?"
		args = append(args, params.Year)
	}

	order := "created_at DESC"
	if column, ok := favoriteSortFields[params.Sort]; ok {
		direction := "DESC"
		if params.Order == "asc" {
			direction = "ASC"
		}
		order = column + " " + direction
	}

	sql := fmt.Sprintf(
		"SELECT *, COUNT(*) OVER() AS total_count FROM movies WHERE %s ORDER BY %s LIMIT ? OFFSET ?",
		where, order,
	)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	var rows []favoriteRow
	if err := r.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list favorites: %w", err)
	}

	movies := make([]domain.Movie, len(rows))
	var total int64
	for i, row := range rows {
		movies[i] = row.Movie
		total = row.TotalCount
	}
	return movies, total, nil
}

// refRow is a generic master-data name lookup row.
type refRow struct {
	ID    uint
	Name  string
	Photo string
}

// Populate resolves every reference carried by the given movies in four
// batched lookups, mapping results back in stored array order.
// Single-valued references (director, owner) flatten to a scalar and go
// absent when dangling.
func (r *GormMovieRepository) Populate(movies []domain.Movie) ([]domain.MovieView, error) {
	directorIDs := map[uint]bool{}
	userIDs := map[uint]bool{}
	writerIDs := map[int64]bool{}
	actorIDs := map[int64]bool{}
	genreIDs := map[int64]bool{}

	for _, m := range movies {
		directorIDs[m.DirectorID] = true
		userIDs[m.UserID] = true
		for _, id := range m.WriterIDs {
			writerIDs[id] = true
		}
		for _, id := range m.CastIDs {
			actorIDs[id] = true
		}
		for _, id := range m.GenreIDs {
			genreIDs[id] = true
		}
	}

	directors, err := r.loadRefs("directors", keysU(directorIDs))
	if err != nil {
		return nil, err
	}
	writers, err := r.loadRefs("writers", keys(writerIDs))
	if err != nil {
		return nil, err
	}
	actors, err := r.loadRefs("actors", keys(actorIDs))
	if err != nil {
		return nil, err
	}
	genres, err := r.loadRefs("genres", keys(genreIDs))
	if err != nil {
		return nil, err
	}
	owners, err := r.loadOwners(keysUint(userIDs))
	if err != nil {
		return nil, err
	}

	views := make([]domain.MovieView, len(movies))
	for i, m := range movies {
		view := domain.MovieView{Movie: m}
		if ref, ok := directors[int64(m.DirectorID)]; ok {
			view.Director = &ref
		}
		if owner, ok := owners[m.UserID]; ok {
			view.Owner = &owner
		}
		view.Writers = mapRefs(m.WriterIDs, writers)
		view.Cast = mapRefs(m.CastIDs, actors)
		view.Genres = mapRefs(m.GenreIDs, genres)
		views[i] = view
	}
	return views, nil
}

func (r *GormMovieRepository) loadRefs(table string, ids []int64) (map[int64]domain.Ref, error) {
	refs := map[int64]domain.Ref{}
	if len(ids) == 0 {
		return refs, nil
	}

	var rows []refRow
	sql := fmt.Sprintf("SELECT id, name, COALESCE(photo, '') AS photo FROM %s WHERE id = ANY(?)", table)
	if table == "genres" {
		sql = "SELECT id, name, '' AS photo FROM genres WHERE id = ANY(?)"
	}
	if err := r.db.Raw(sql, pq.Int64Array(ids)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s references: %w", table, err)
	}

	for _, row := range rows {
		photoURL := ""
		if table != "genres" {
			photoURL = mddomain.PhotoURL(row.Name, row.Photo)
		}
		refs[int64(row.ID)] = domain.Ref{ID: row.ID, Name: row.Name, PhotoURL: photoURL}
	}
	return refs, nil
}

func (r *GormMovieRepository) loadOwners(ids []uint) (map[uint]domain.OwnerRef, error) {
	owners := map[uint]domain.OwnerRef{}
	if len(ids) == 0 {
		return owners, nil
	}

	int64IDs := make([]int64, len(ids))
	for i, id := range ids {
		int64IDs[i] = int64(id)
	}

	var rows []struct {
		ID         uint
		Username   string
		ProfilePic string
	}
	err := r.db.Raw("SELECT id, username, profile_pic FROM users WHERE id = ANY(?)", pq.Int64Array(int64IDs)).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load owner references: %w", err)
	}

	for _, row := range rows {
		owners[row.ID] = domain.OwnerRef{ID: row.ID, Username: row.Username, ProfilePic: row.ProfilePic}
	}
	return owners, nil
}

// mapRefs resolves an id array in stored order, skipping dangling ids.
func mapRefs(ids pq.Int64Array, refs map[int64]domain.Ref) []domain.Ref {
	out := make([]domain.Ref, 0, len(ids))
	for _, id := range ids {
		if ref, ok := refs[id]; ok {
			out = append(out, ref)
		}
	}
	return out
}

func keys(set map[int64]bool) []int64 {
	out := make([]int64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func keysU(set map[uint]bool) []int64 {
	out := make([]int64, 0, len(set))
	for k := range set {
		out = append(out, int64(k))
	}
	return out
}

func keysUint(set map[uint]bool) []uint {
	out := make([]uint, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// Exists reports whether a movie exists.
func (r *GormMovieRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.Movie{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check movie: %w", err)
	}
	return count > 0, nil
}

// DeleteByOwner removes every movie owned by the user, returning the
// deleted ids. Used by the user-deletion cascade.
func (r *GormMovieRepository) DeleteByOwner(userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&domain.Movie{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to find movies by owner: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := r.db.Where("user_id = ?", userID).Delete(&domain.Movie{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete movies by owner: %w", err)
	}
	return ids, nil
}

// Count returns the total number of movies
func (r *GormMovieRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Movie{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// CountCreatedSince returns the number of movies created after the given time
func (r *GormMovieRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Movie{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recent movies: %w", err)
	}
	return count, nil
}

// AutoMigrate runs database migrations
func (r *GormMovieRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Movie{})
}
