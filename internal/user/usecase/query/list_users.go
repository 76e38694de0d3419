package query

import (
	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// ListUsersQuery represents the query to list users (admin only)
type ListUsersQuery struct {
	Params domain.ListParams
}

// ListUsersResult carries the window plus the total match count.
type ListUsersResult struct {
	Users []domain.User
	Total int64
}

// ListUsersHandler handles list users query
type ListUsersHandler struct {
	repo domain.UserRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

// Handle executes the list users query
func (h *ListUsersHandler) Handle(q ListUsersQuery) (*ListUsersResult, error) {
	users, total, err := h.repo.FindAll(q.Params)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list users")
	}
	return &ListUsersResult{Users: users, Total: total}, nil
}
