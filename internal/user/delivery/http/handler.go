package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/cineshelf/cineshelf/internal/middleware"
	moviedomain "github.com/cineshelf/cineshelf/internal/movie/domain"
	moviequery "github.com/cineshelf/cineshelf/internal/movie/usecase/query"
	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/internal/user/usecase/command"
	"github.com/cineshelf/cineshelf/internal/user/usecase/query"
	"github.com/cineshelf/cineshelf/pkg/apperror"
	"github.com/cineshelf/cineshelf/pkg/auth"
	"github.com/cineshelf/cineshelf/pkg/events"
	"github.com/cineshelf/cineshelf/pkg/response"
)

// Handler serves auth, profile, favorites and user administration
// endpoints.
type Handler struct {
	registerHandler  *command.RegisterUserHandler
	loginHandler     *command.LoginUserHandler
	updateHandler    *command.UpdateUserHandler
	deleteHandler    *command.DeleteUserHandler
	roleHandler      *command.ChangeRoleHandler
	activeHandler    *command.ToggleActiveHandler
	favoritesHandler *command.FavoritesHandler
	getHandler       *query.GetUserHandler
	listHandler      *query.ListUsersHandler
	favoritesQuery   *moviequery.FavoritesHandler
	tokens           *auth.TokenManager
	auth             *middleware.Authenticator
	publisher        *events.Publisher
}

// NewHandler creates a user HTTP handler
func NewHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	updateHandler *command.UpdateUserHandler,
	deleteHandler *command.DeleteUserHandler,
	roleHandler *command.ChangeRoleHandler,
	activeHandler *command.ToggleActiveHandler,
	favoritesHandler *command.FavoritesHandler,
	getHandler *query.GetUserHandler,
	listHandler *query.ListUsersHandler,
	favoritesQuery *moviequery.FavoritesHandler,
	tokens *auth.TokenManager,
	authn *middleware.Authenticator,
	publisher *events.Publisher,
) *Handler {
	return &Handler{
		registerHandler:  registerHandler,
		loginHandler:     loginHandler,
		updateHandler:    updateHandler,
		deleteHandler:    deleteHandler,
		roleHandler:      roleHandler,
		activeHandler:    activeHandler,
		favoritesHandler: favoritesHandler,
		getHandler:       getHandler,
		listHandler:      listHandler,
		favoritesQuery:   favoritesQuery,
		tokens:           tokens,
		auth:             authn,
		publisher:        publisher,
	}
}

type signupRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ProfilePic string `json:"profilePic"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup. A successful signup logs the
// user straight in.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.registerHandler.Handle(command.RegisterUserCommand{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		response.Error(w, apperror.Internal(err, "failed to generate token"))
		return
	}
	h.setTokenCookie(w, token)

	h.publisher.PublishActivity(r.Context(), events.ActivityEvent{
		EventType: events.EventTypeUserRegistered,
		UserID:    user.ID,
		EntityID:  user.ID,
		Detail:    user.Username,
	})
	response.JSON(w, http.StatusCreated, "User registered successfully", command.LoginResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.loginHandler.Handle(command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	h.setTokenCookie(w, result.Token)
	response.JSON(w, http.StatusOK, "Login successful", result)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	response.JSON(w, http.StatusOK, "Logout successful", nil)
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	response.JSON(w, http.StatusOK, "User retrieved successfully", user)
}

type updateProfileRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ProfilePic string `json:"profilePic"`
}

// UpdateProfile handles PUT /api/users/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.updateHandler.Handle(command.UpdateUserCommand{
		ID:         user.ID,
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Profile updated successfully", updated)
}

// ListFavorites handles GET /api/users/favorites
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	q := r.URL.Query()
	params := response.ParseListParams(r, moviequery.DefaultPageSize)
	year, _ := strconv.Atoi(q.Get("year"))

	result, err := h.favoritesQuery.Handle(moviequery.FavoritesQuery{
		FavoriteIDs: user.Favorites,
		Params: moviedomain.FavoriteParams{
			Genre: q.Get("genre"),
			Year:  year,
			Sort:  params.Sort,
			Order: params.Order,
			Page:  params.Page,
			Limit: params.Limit,
		},
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, "Favorites retrieved successfully", result.Movies,
		response.NewPagination(params.Page, params.Limit, result.Total))
}

// AddFavorite handles POST /api/users/favorites/{movieId}
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	movieID, err := response.PathID(r, "movieId")
	if err != nil {
		response.Error(w, err)
		return
	}

	updated, err := h.favoritesHandler.HandleAdd(command.AddFavoriteCommand{UserID: user.ID, MovieID: movieID})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Movie added to favorites", updated.Favorites)
}

// RemoveFavorite handles DELETE /api/users/favorites/{movieId}
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	movieID, err := response.PathID(r, "movieId")
	if err != nil {
		response.Error(w, err)
		return
	}

	updated, err := h.favoritesHandler.HandleRemove(command.RemoveFavoriteCommand{UserID: user.ID, MovieID: movieID})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Movie removed from favorites", updated.Favorites)
}

// AdminList handles GET /api/admin/users
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	p := response.ParseListParams(r, 10)
	params := domain.ListParams{
		Search: p.Search,
		Role:   r.URL.Query().Get("role"),
		Sort:   p.Sort,
		Order:  p.Order,
		Page:   p.Page,
		Limit:  p.Limit,
	}

	result, err := h.listHandler.Handle(query.ListUsersQuery{Params: params})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, "Users retrieved successfully", result.Users,
		response.NewPagination(params.Page, params.Limit, result.Total))
}

// AdminGet handles GET /api/admin/users/{id}
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.getHandler.Handle(query.GetUserQuery{ID: id})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "User retrieved successfully", user)
}

// AdminCreate handles POST /api/admin/users. Unlike signup it may set
// the role.
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		signupRequest
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.registerHandler.Handle(command.RegisterUserCommand{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
		Role:       req.Role,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, "User created successfully", user)
}

// AdminUpdate handles PUT /api/admin/users/{id}
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.updateHandler.Handle(command.UpdateUserCommand{
		ID:         id,
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "User updated successfully", updated)
}

// AdminDelete handles DELETE /api/admin/users/{id}
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.deleteHandler.Handle(command.DeleteUserCommand{ID: id}); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "User deleted successfully", nil)
}

// AdminChangeRole handles PUT /api/admin/users/{id}/role
func (h *Handler) AdminChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.roleHandler.Handle(command.ChangeRoleCommand{UserID: id, Role: req.Role})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "User role updated successfully", user)
}

// AdminToggleActive handles PUT /api/admin/users/{id}/active
func (h *Handler) AdminToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.activeHandler.Handle(command.ToggleActiveCommand{UserID: id, IsActive: req.IsActive})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "User status updated successfully", user)
}

// RegisterRoutes registers user routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/signup", h.Signup).Methods("POST")
	router.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/api/auth/logout", h.Logout).Methods("POST")
	router.HandleFunc("/api/auth/me", h.auth.Auth(h.Me)).Methods("GET")

	router.HandleFunc("/api/users/profile", h.auth.Auth(h.Me)).Methods("GET")
	router.HandleFunc("/api/users/profile", h.auth.Auth(h.UpdateProfile)).Methods("PUT")

	router.HandleFunc("/api/users/favorites", h.auth.Auth(h.ListFavorites)).Methods("GET")
	router.HandleFunc("/api/users/favorites/{movieId}", h.auth.Auth(h.AddFavorite)).Methods("POST")
	router.HandleFunc("/api/users/favorites/{movieId}", h.auth.Auth(h.RemoveFavorite)).Methods("DELETE")

	router.HandleFunc("/api/admin/users", h.auth.Admin(h.AdminList)).Methods("GET")
	router.HandleFunc("/api/admin/users", h.auth.Admin(h.AdminCreate)).Methods("POST")
	router.HandleFunc("/api/admin/users/{id}", h.auth.Admin(h.AdminGet)).Methods("GET")
	router.HandleFunc("/api/admin/users/{id}", h.auth.Admin(h.AdminUpdate)).Methods("PUT")
	router.HandleFunc("/api/admin/users/{id}", h.auth.Admin(h.AdminDelete)).Methods("DELETE")
	router.HandleFunc("/api/admin/users/{id}/role", h.auth.Admin(h.AdminChangeRole)).Methods("PUT")
	router.HandleFunc("/api/admin/users/{id}/active", h.auth.Admin(h.AdminToggleActive)).Methods("PUT")
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.Lifetime()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
