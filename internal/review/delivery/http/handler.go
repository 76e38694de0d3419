package http

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/cineshelf/cineshelf/internal/middleware"
	"github.com/cineshelf/cineshelf/internal/review/usecase/command"
	"github.com/cineshelf/cineshelf/internal/review/usecase/query"
	"github.com/cineshelf/cineshelf/pkg/apperror"
	"github.com/cineshelf/cineshelf/pkg/events"
	"github.com/cineshelf/cineshelf/pkg/response"
)

// Handler serves review endpoints.
type Handler struct {
	createHandler   *command.CreateReviewHandler
	updateHandler   *command.UpdateReviewHandler
	deleteHandler   *command.DeleteReviewHandler
	likeHandler     *command.LikeReviewHandler
	reportHandler   *command.ReportReviewHandler
	byMovieHandler  *query.ReviewsByMovieHandler
	byUserHandler   *query.ReviewsByUserHandler
	moderateHandler *query.ModerateReviewsHandler
	auth            *middleware.Authenticator
	publisher       *events.Publisher
}

// NewHandler creates a review HTTP handler
func NewHandler(
	createHandler *command.CreateReviewHandler,
	updateHandler *command.UpdateReviewHandler,
	deleteHandler *command.DeleteReviewHandler,
	likeHandler *command.LikeReviewHandler,
	reportHandler *command.ReportReviewHandler,
	byMovieHandler *query.ReviewsByMovieHandler,
	byUserHandler *query.ReviewsByUserHandler,
	moderateHandler *query.ModerateReviewsHandler,
	auth *middleware.Authenticator,
	publisher *events.Publisher,
) *Handler {
	return &Handler{
		createHandler:   createHandler,
		updateHandler:   updateHandler,
		deleteHandler:   deleteHandler,
		likeHandler:     likeHandler,
		reportHandler:   reportHandler,
		byMovieHandler:  byMovieHandler,
		byUserHandler:   byUserHandler,
		moderateHandler: moderateHandler,
		auth:            auth,
		publisher:       publisher,
	}
}

// Create handles POST /api/reviews
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var cmd command.CreateReviewCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cmd.UserID = user.ID

	review, err := h.createHandler.Handle(cmd)
	if err != nil {
		response.Error(w, err)
		return
	}

	h.publisher.PublishActivity(r.Context(), events.ActivityEvent{
		EventType: events.EventTypeReviewCreated,
		UserID:    user.ID,
		EntityID:  review.ID,
	})
	response.JSON(w, http.StatusCreated, "Review created successfully", review)
}

// Update handles PUT /api/reviews/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var cmd command.UpdateReviewCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cmd.ID = id
	cmd.UserID = user.ID

	review, err := h.updateHandler.Handle(cmd)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Review updated successfully", review)
}

// Delete handles DELETE /api/reviews/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.deleteHandler.Handle(command.DeleteReviewCommand{ID: id, UserID: user.ID}); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Review deleted successfully", nil)
}

// Like handles POST /api/reviews/{id}/like
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.likeHandler.Handle(command.LikeReviewCommand{ReviewID: id, UserID: user.ID})
	if err != nil {
		response.Error(w, err)
		return
	}

	message := "Review liked"
	if !result.Liked {
		message = "Review unliked"
	}
	response.JSON(w, http.StatusOK, message, result)
}

// Report handles POST /api/reviews/{id}/report
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var cmd command.ReportReviewCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cmd.ReviewID = id
	cmd.ReporterID = user.ID

	review, err := h.reportHandler.Handle(cmd)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Review reported successfully", review)
}

// ByMovie handles GET /api/reviews/movie/{movieId}
func (h *Handler) ByMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := response.PathID(r, "movieId")
	if err != nil {
		response.Error(w, err)
		return
	}

	params := response.ParseListParams(r, query.DefaultPageSize)
	result, err := h.byMovieHandler.Handle(query.ReviewsByMovieQuery{
		MovieID: movieID,
		Page:    params.Page,
		Limit:   params.Limit,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, "Reviews retrieved successfully", result.Reviews,
		response.NewPagination(params.Page, params.Limit, result.Total))
}

// Mine handles GET /api/reviews/me
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	params := response.ParseListParams(r, query.DefaultPageSize)
	result, err := h.byUserHandler.Handle(query.ReviewsByUserQuery{
		UserID: user.ID,
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, "Reviews retrieved successfully", result.Reviews,
		response.NewPagination(params.Page, params.Limit, result.Total))
}

// AdminList handles GET /api/admin/reviews
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	params := response.ParseListParams(r, query.DefaultPageSize)
	reported := r.URL.Query().Get("reported") == "true"

	result, err := h.moderateHandler.Handle(query.ModerateReviewsQuery{
		ReportedOnly: reported,
		Page:         params.Page,
		Limit:        params.Limit,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Paginated(w, "Reviews retrieved successfully", result.Reviews,
		response.NewPagination(params.Page, params.Limit, result.Total))
}

// AdminDelete handles DELETE /api/admin/reviews/{id}
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.deleteHandler.Handle(command.DeleteReviewCommand{ID: id}); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Review deleted successfully", nil)
}

// bulkDeleteRequest is the body of the moderation bulk delete.
type bulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

// bulkDeleteResult reports per-id outcomes of a bulk delete.
type bulkDeleteResult struct {
	Deleted []uint   `json:"deleted"`
	Failed  []uint   `json:"failed,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// AdminBulkDelete handles POST /api/admin/reviews/bulk-delete. Deletes
// run concurrently; each id succeeds or fails on its own.
func (h *Handler) AdminBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		response.Error(w, apperror.ValidationFields("ids is required", "ids"))
		return
	}

	type outcome struct {
		id  uint
		err error
	}

	outcomes := make([]outcome, len(req.IDs))
	var wg sync.WaitGroup
	for i, id := range req.IDs {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			outcomes[i] = outcome{id: id, err: h.deleteHandler.Handle(command.DeleteReviewCommand{ID: id})}
		}(i, id)
	}
	wg.Wait()

	result := bulkDeleteResult{}
	for _, o := range outcomes {
		if o.err != nil {
			result.Failed = append(result.Failed, o.id)
			result.Errors = append(result.Errors, o.err.Error())
			continue
		}
		result.Deleted = append(result.Deleted, o.id)
	}
	response.JSON(w, http.StatusOK, "Bulk delete completed", result)
}

// RegisterRoutes registers review routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/reviews/movie/{movieId}", h.ByMovie).Methods("GET")
	router.HandleFunc("/api/reviews/me", h.auth.Auth(h.Mine)).Methods("GET")
	router.HandleFunc("/api/reviews", h.auth.Auth(h.Create)).Methods("POST")
	router.HandleFunc("/api/reviews/{id}", h.auth.Auth(h.Update)).Methods("PUT")
	router.HandleFunc("/api/reviews/{id}", h.auth.Auth(h.Delete)).Methods("DELETE")
	router.HandleFunc("/api/reviews/{id}/like", h.auth.Auth(h.Like)).Methods("POST")
	router.HandleFunc("/api/reviews/{id}/report", h.auth.Auth(h.Report)).Methods("POST")

	router.HandleFunc("/api/admin/reviews", h.auth.Admin(h.AdminList)).Methods("GET")
	router.HandleFunc("/api/admin/reviews/bulk-delete", h.auth.Admin(h.AdminBulkDelete)).Methods("POST")
	router.HandleFunc("/api/admin/reviews/{id}", h.auth.Admin(h.AdminDelete)).Methods("DELETE")
}

func pathID(r *http.Request) (uint, error) {
	return response.PathID(r, "id")
}
