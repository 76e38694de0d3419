package command

import (
	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// ChangeRoleCommand represents the command to change a user's role (admin only)
type ChangeRoleCommand struct {
	UserID uint
	Role   string
}

// ChangeRoleHandler handles role change command
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command. Demoting the last admin is
// rejected for the same reason deleting them is.
func (h *ChangeRoleHandler) Handle(cmd ChangeRoleCommand) (*domain.User, error) {
	if cmd.Role != domain.RoleUser && cmd.Role != domain.RoleAdmin {
		return nil, apperror.ValidationFields("invalid role", "role")
	}

	user, err := h.repo.FindByID(cmd.UserID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}

	if user.IsAdmin() && cmd.Role == domain.RoleUser {
		admins, err := h.repo.CountByRole(domain.RoleAdmin)
		if err != nil {
			return nil, apperror.Internal(err, "failed to count admins")
		}
		if admins <= 1 {
			return nil, apperror.Validation("cannot demote the last admin account")
		}
	}

	user.Role = cmd.Role
	if err := h.repo.Update(user); err != nil {
		return nil, apperror.Internal(err, "failed to update user")
	}
	return user, nil
}
