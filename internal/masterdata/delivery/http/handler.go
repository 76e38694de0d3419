package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cineshelf/cineshelf/internal/masterdata/domain"
	"github.com/cineshelf/cineshelf/internal/masterdata/service"
	"github.com/cineshelf/cineshelf/internal/middleware"
	"github.com/cineshelf/cineshelf/pkg/response"
)

// Handler serves one master-data entity type on three route groups:
// user-scoped CRUD, public read-only, and admin (global) CRUD.
type Handler[T any, PT interface {
	*T
	domain.Entity
}] struct {
	svc  *service.CRUDService[T, PT]
	auth *middleware.Authenticator
}

// NewHandler creates a master-data handler for one entity type.
func NewHandler[T any, PT interface {
	*T
	domain.Entity
}](svc *service.CRUDService[T, PT], auth *middleware.Authenticator) *Handler[T, PT] {
	return &Handler[T, PT]{svc: svc, auth: auth}
}

func (h *Handler[T, PT]) list(scoped bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := parseListParams(r)

		var ownerID uint
		if scoped {
			user, _ := middleware.UserFrom(r.Context())
			ownerID = user.ID
		}

		result, err := h.svc.List(params, ownerID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.Paginated(w, h.svc.Config().Plural+" retrieved successfully", result.Items,
			response.NewPagination(params.Page, params.Limit, result.Total))
	}
}

func (h *Handler[T, PT]) get(scoped bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var ownerID uint
		if scoped {
			user, _ := middleware.UserFrom(r.Context())
			ownerID = user.ID
		}

		item, err := h.svc.Get(id, ownerID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, h.svc.Config().Singular+" retrieved successfully", item)
	}
}

func (h *Handler[T, PT]) create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var input T
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.svc.Create(PT(&input), user.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, h.svc.Config().Singular+" created successfully", item)
}

func (h *Handler[T, PT]) update(scoped bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var ownerID uint
		if scoped {
			user, _ := middleware.UserFrom(r.Context())
			ownerID = user.ID
		}

		var input T
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			response.Fail(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		item, err := h.svc.Update(id, ownerID, PT(&input))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, h.svc.Config().Singular+" updated successfully", item)
	}
}

func (h *Handler[T, PT]) delete(scoped bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var ownerID uint
		if scoped {
			user, _ := middleware.UserFrom(r.Context())
			ownerID = user.ID
		}

		if err := h.svc.Delete(id, ownerID); err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, h.svc.Config().Singular+" deleted successfully", nil)
	}
}

// RegisterRoutes mounts the three route groups for this entity type.
// cacheWrap is applied to the public read routes; pass nil to disable.
func (h *Handler[T, PT]) RegisterRoutes(router *mux.Router, cacheWrap func(http.HandlerFunc) http.HandlerFunc) {
	if cacheWrap == nil {
		cacheWrap = func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	plural := h.svc.Config().Plural

	// User-scoped CRUD
	router.HandleFunc("/api/master-data/"+plural, h.auth.Auth(h.list(true))).Methods("GET")
	router.HandleFunc("/api/master-data/"+plural, h.auth.Auth(h.create)).Methods("POST")
	router.HandleFunc("/api/master-data/"+plural+"/{id}", h.auth.Auth(h.get(true))).Methods("GET")
	router.HandleFunc("/api/master-data/"+plural+"/{id}", h.auth.Auth(h.update(true))).Methods("PUT")
	router.HandleFunc("/api/master-data/"+plural+"/{id}", h.auth.Auth(h.delete(true))).Methods("DELETE")

	// Public read-only
	router.HandleFunc("/api/master-data/public/"+plural, cacheWrap(h.list(false))).Methods("GET")
	router.HandleFunc("/api/master-data/public/"+plural+"/{id}", cacheWrap(h.get(false))).Methods("GET")

	// Admin (global scope)
	router.HandleFunc("/api/admin/master-data/"+plural, h.auth.Admin(h.list(false))).Methods("GET")
	router.HandleFunc("/api/admin/master-data/"+plural, h.auth.Admin(h.create)).Methods("POST")
	router.HandleFunc("/api/admin/master-data/"+plural+"/{id}", h.auth.Admin(h.get(false))).Methods("GET")
	router.HandleFunc("/api/admin/master-data/"+plural+"/{id}", h.auth.Admin(h.update(false))).Methods("PUT")
	router.HandleFunc("/api/admin/master-data/"+plural+"/{id}", h.auth.Admin(h.delete(false))).Methods("DELETE")
}

func parseListParams(r *http.Request) domain.ListParams {
	p := response.ParseListParams(r, 10)
	return domain.ListParams{
		Search: p.Search,
		Sort:   p.Sort,
		Order:  p.Order,
		Page:   p.Page,
		Limit:  p.Limit,
	}
}

func pathID(r *http.Request) (uint, error) {
	return response.PathID(r, "id")
}
