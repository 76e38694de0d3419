package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/cineshelf/cineshelf/pkg/apperror"
)

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperror.Validation("bad input"), http.StatusBadRequest},
		{"conflict", apperror.Conflict("already exists"), http.StatusBadRequest},
		{"not found", apperror.NotFound("missing"), http.StatusNotFound},
		{"unauthorized", apperror.Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", apperror.Forbidden("not yours"), http.StatusForbidden},
		{"internal", apperror.Internal(errors.New("boom"), "oops"), http.StatusInternalServerError},
		{"untagged", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var env Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("invalid envelope: %v", err)
			}
			if env.Success {
				t.Error("success = true on error response")
			}
		})
	}
}

func TestErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperror.Internal(errors.New("pq: connection refused"), "failed to list movies"))

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Message != "Internal server error" {
		t.Errorf("message = %q, want generic internal message", env.Message)
	}
}

func TestErrorCarriesValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperror.ValidationFields("rating must be between 1 and 5", "rating"))

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if len(env.Errors) != 1 || env.Errors[0] != "rating" {
		t.Errorf("errors = %v, want [rating]", env.Errors)
	}
}

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantOrder string
	}{
		{"defaults", "", 1, 10, "desc"},
		{"explicit", "page=3&limit=25&order=asc", 3, 25, "asc"},
		{"negative page", "page=-2", 1, 10, "desc"},
		{"zero limit", "limit=0", 1, 10, "desc"},
		{"limit capped", "limit=500", 1, 100, "desc"},
		{"bad order", "order=sideways", 1, 10, "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			p := ParseListParams(r, 10)

			if p.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", p.Limit, tt.wantLimit)
			}
			if p.Order != tt.wantOrder {
				t.Errorf("order = %q, want %q", p.Order, tt.wantOrder)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 45)
	if p.TotalPages != 5 {
		t.Errorf("totalPages = %d, want 5", p.TotalPages)
	}
	if p.CurrentPage != 2 || p.TotalItems != 45 || p.ItemsPerPage != 10 {
		t.Errorf("unexpected pagination: %+v", p)
	}
}

func TestSortClause(t *testing.T) {
	whitelist := map[string]string{"title": "title", "year": "year"}

	if got := SortClause("title", "asc", whitelist); got != "title asc" {
		t.Errorf("SortClause() = %q, want %q", got, "title asc")
	}
	if got := SortClause("evil; DROP TABLE", "asc", whitelist); got != "created_at DESC" {
		t.Errorf("SortClause() = %q, want fallback", got)
	}
	if got := SortClause("year", "sideways", whitelist); got != "year desc" {
		t.Errorf("SortClause() = %q, want %q", got, "year desc")
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    uint
		wantErr bool
	}{
		{"numeric id", "42", 42, false},
		{"zero", "0", 0, true},
		{"non-numeric", "abc", 0, true},
		{"missing", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.raw != "" {
				r = mux.SetURLVars(r, map[string]string{"id": tt.raw})
			}

			id, err := PathID(r, "id")
			if tt.wantErr {
				if !apperror.Is(err, apperror.KindValidation) {
					t.Fatalf("error kind = %v, want validation", apperror.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("PathID() error = %v", err)
			}
			if id != tt.want {
				t.Errorf("id = %d, want %d", id, tt.want)
			}
		})
	}
}
