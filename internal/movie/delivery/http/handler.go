package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cineshelf/cineshelf/internal/middleware"
	"github.com/cineshelf/cineshelf/internal/movie/domain"
	"github.com/cineshelf/cineshelf/internal/movie/resolver"
	"github.com/cineshelf/cineshelf/internal/movie/usecase/command"
	"github.com/cineshelf/cineshelf/internal/movie/usecase/query"
	"github.com/cineshelf/cineshelf/pkg/events"
	"github.com/cineshelf/cineshelf/pkg/response"
)

// Handler serves movie endpoints.
type Handler struct {
	createHandler  *command.CreateMovieHandler
	updateHandler  *command.UpdateMovieHandler
	deleteHandler  *command.DeleteMovieHandler
	listHandler    *query.ListMoviesHandler
	getHandler     *query.GetMovieHandler
	byActorHandler *query.MoviesByActorHandler
	auth           *middleware.Authenticator
	publisher      *events.Publisher
}

// NewHandler creates a movie HTTP handler
func NewHandler(
	createHandler *command.CreateMovieHandler,
	updateHandler *command.UpdateMovieHandler,
	deleteHandler *command.DeleteMovieHandler,
	listHandler *query.ListMoviesHandler,
	getHandler *query.GetMovieHandler,
	byActorHandler *query.MoviesByActorHandler,
	auth *middleware.Authenticator,
	publisher *events.Publisher,
) *Handler {
	return &Handler{
		createHandler:  createHandler,
		updateHandler:  updateHandler,
		deleteHandler:  deleteHandler,
		listHandler:    listHandler,
		getHandler:     getHandler,
		byActorHandler: byActorHandler,
		auth:           auth,
		publisher:      publisher,
	}
}

// createMovieRequest is the movie creation body. Reference fields take
// an id, a name string, or an inline object.
type createMovieRequest struct {
	Title       string              `json:"title"`
	Year        int                 `json:"year"`
	Duration    string              `json:"duration"`
	Poster      string              `json:"poster"`
	HeroImage   string              `json:"heroImage"`
	Trailer     string              `json:"trailer"`
	Gallery     []string            `json:"gallery"`
	Description string              `json:"description"`
	ImdbRating  float64             `json:"imdbRating"`
	Director    resolver.RefInput   `json:"director"`
	Writers     []resolver.RefInput `json:"writers"`
	Cast        []resolver.RefInput `json:"cast"`
	Genres      []resolver.RefInput `json:"genres"`
}

type updateMovieRequest struct {
	Title       *string             `json:"title"`
	Year        *int                `json:"year"`
	Duration    *string             `json:"duration"`
	Poster      *string             `json:"poster"`
	HeroImage   *string             `json:"heroImage"`
	Trailer     *string             `json:"trailer"`
	Gallery     []string            `json:"gallery"`
	Description *string             `json:"description"`
	ImdbRating  *float64            `json:"imdbRating"`
	Director    *resolver.RefInput  `json:"director"`
	Writers     []resolver.RefInput `json:"writers"`
	Cast        []resolver.RefInput `json:"cast"`
	Genres      []resolver.RefInput `json:"genres"`
}

// List handles GET /api/movies. Logged-in users browse their own
// catalogue; anonymous requests browse everything.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := parseMovieParams(r)
	if user, ok := middleware.UserFrom(r.Context()); ok {
		params.OwnerID = user.ID
	}

	result, err := h.listHandler.Handle(query.ListMoviesQuery{Params: params})
	if err != nil {
		response.Error(w, err)
		return
	}
	if result.Random {
		response.JSON(w, http.StatusOK, "Movies retrieved successfully", result.Movies)
		return
	}
	response.Paginated(w, "Movies retrieved successfully", result.Movies,
		response.NewPagination(params.Page, params.Limit, result.Total))
}

// Get handles GET /api/movies/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	movie, err := h.getHandler.Handle(query.GetMovieQuery{ID: id})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Movie retrieved successfully", movie)
}

// ByActor handles GET /api/movies/actor/{actorId}
func (h *Handler) ByActor(w http.ResponseWriter, r *http.Request) {
	actorID, err := response.PathID(r, "actorId")
	if err != nil {
		response.Error(w, err)
		return
	}

	params := response.ParseListParams(r, query.DefaultPageSize)
	result, err := h.byActorHandler.Handle(query.MoviesByActorQuery{
		ActorID: actorID,
		Page:    params.Page,
		Limit:   params.Limit,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, "Movies retrieved successfully", result.Movies,
		response.NewPagination(params.Page, params.Limit, result.Total))
}

// Create handles POST /api/movies
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var req createMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	movie, err := h.createHandler.Handle(command.CreateMovieCommand{
		Title:       req.Title,
		Year:        req.Year,
		Duration:    req.Duration,
		Poster:      req.Poster,
		HeroImage:   req.HeroImage,
		Trailer:     req.Trailer,
		Gallery:     req.Gallery,
		Description: req.Description,
		ImdbRating:  req.ImdbRating,
		Director:    req.Director,
		Writers:     req.Writers,
		Cast:        req.Cast,
		Genres:      req.Genres,
		OwnerID:     user.ID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	h.publisher.PublishActivity(r.Context(), events.ActivityEvent{
		EventType: events.EventTypeMovieCreated,
		UserID:    user.ID,
		EntityID:  movie.ID,
		Detail:    movie.Title,
	})
	response.JSON(w, http.StatusCreated, "Movie created successfully", movie)
}

// Update handles PUT /api/movies/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// Delete handles DELETE /api/movies/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, false)
}

// AdminList handles GET /api/admin/movies
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	params := parseMovieParams(r)
	if raw := r.URL.Query().Get("owner"); raw != "" {
		if ownerID, err := strconv.ParseUint(raw, 10, 32); err == nil {
			params.OwnerID = uint(ownerID)
		}
	}

	result, err := h.listHandler.Handle(query.ListMoviesQuery{Params: params})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, "Movies retrieved successfully", result.Movies,
		response.NewPagination(params.Page, params.Limit, result.Total))
}

// AdminUpdate handles PUT /api/admin/movies/{id}
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// AdminDelete handles DELETE /api/admin/movies/{id}
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, true)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, admin bool) {
	user, _ := middleware.UserFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req updateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ownerID := user.ID
	if admin {
		ownerID = 0
	}

	movie, err := h.updateHandler.Handle(command.UpdateMovieCommand{
		ID:          id,
		Title:       req.Title,
		Year:        req.Year,
		Duration:    req.Duration,
		Poster:      req.Poster,
		HeroImage:   req.HeroImage,
		Trailer:     req.Trailer,
		Gallery:     req.Gallery,
		Description: req.Description,
		ImdbRating:  req.ImdbRating,
		Director:    req.Director,
		Writers:     req.Writers,
		Cast:        req.Cast,
		Genres:      req.Genres,
		OwnerID:     ownerID,
		ActorID:     user.ID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Movie updated successfully", movie)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, admin bool) {
	user, _ := middleware.UserFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	ownerID := user.ID
	if admin {
		ownerID = 0
	}

	if err := h.deleteHandler.Handle(command.DeleteMovieCommand{ID: id, OwnerID: ownerID}); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Movie deleted successfully", nil)
}

// RegisterRoutes registers movie routes. cacheWrap is applied to the
// public read routes; pass nil to disable.
func (h *Handler) RegisterRoutes(router *mux.Router, cacheWrap func(http.HandlerFunc) http.HandlerFunc) {
	if cacheWrap == nil {
		cacheWrap = func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	router.HandleFunc("/api/movies", h.auth.OptionalAuth(h.List)).Methods("GET")
	router.HandleFunc("/api/movies/actor/{actorId}", cacheWrap(h.ByActor)).Methods("GET")
	router.HandleFunc("/api/movies/{id}", cacheWrap(h.Get)).Methods("GET")
	router.HandleFunc("/api/movies", h.auth.Auth(h.Create)).Methods("POST")
	router.HandleFunc("/api/movies/{id}", h.auth.Auth(h.Update)).Methods("PUT")
	router.HandleFunc("/api/movies/{id}", h.auth.Auth(h.Delete)).Methods("DELETE")

	router.HandleFunc("/api/admin/movies", h.auth.Admin(h.AdminList)).Methods("GET")
	router.HandleFunc("/api/admin/movies/{id}", h.auth.Admin(h.AdminUpdate)).Methods("PUT")
	router.HandleFunc("/api/admin/movies/{id}", h.auth.Admin(h.AdminDelete)).Methods("DELETE")
}

func parseMovieParams(r *http.Request) domain.ListParams {
	q := r.URL.Query()
	p := response.ParseListParams(r, query.DefaultPageSize)

	year, _ := strconv.Atoi(q.Get("year"))
	return domain.ListParams{
		Search:   p.Search,
		Year:     year,
		Genre:    q.Get("genre"),
		Director: q.Get("director"),
		Random:   q.Get("random") == "true",
		Sort:     p.Sort,
		Order:    p.Order,
		Page:     p.Page,
		Limit:    p.Limit,
	}
}

func pathID(r *http.Request) (uint, error) {
	return response.PathID(r, "id")
}
