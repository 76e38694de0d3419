package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cineshelf/cineshelf/pkg/apperror"
	"github.com/cineshelf/cineshelf/pkg/logger"
)

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the window returned by a listing endpoint.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// NewPagination computes the pagination block for a window.
func NewPagination(page, limit int, total int64) *Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Paginated writes a success envelope with a pagination block.
func Paginated(w http.ResponseWriter, message string, data interface{}, p *Pagination) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data, Pagination: p})
}

// Error maps a tagged application error to its HTTP status. The mapping
// is total over apperror.Kind; anything untagged is a 500.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()
	var fields []string

	switch apperror.KindOf(err) {
	case apperror.KindValidation, apperror.KindConflict:
		status = http.StatusBadRequest
	case apperror.KindNotFound:
		status = http.StatusNotFound
	case apperror.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperror.KindForbidden:
		status = http.StatusForbidden
	default:
		logger.Logger.Error().Err(err).Msg("unhandled internal error")
		message = "Internal server error"
	}

	var appErr *apperror.Error
	if e, ok := err.(*apperror.Error); ok {
		appErr = e
	}
	if appErr != nil && len(appErr.Fields) > 0 {
		fields = appErr.Fields
	}

	write(w, status, Envelope{Success: false, Message: message, Errors: fields})
}

// Fail writes a failure envelope with an explicit status.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// ListParams carries the common listing controls.
type ListParams struct {
	Search string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

// Offset returns the row offset for the current window.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParseListParams reads pagination/sort controls from the query string,
// clamping page to >=1 and limit to [1,100].
func ParseListParams(r *http.Request, defaultLimit int) ListParams {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}

	order := q.Get("order")
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return ListParams{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Order:  order,
		Page:   page,
		Limit:  limit,
	}
}

// SortClause resolves the requested sort against a whitelist of
// field->column mappings, falling back to created_at desc.
func SortClause(sort, order string, whitelist map[string]string) string {
	column, ok := whitelist[sort]
	if !ok {
		return "created_at DESC"
	}
	if order != "asc" {
		order = "desc"
	}
	return column + " " + order
}

// PathID parses a numeric route variable. Zero and non-numeric values
// are validation errors.
func PathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid id")
	}
	return uint(id), nil
}
