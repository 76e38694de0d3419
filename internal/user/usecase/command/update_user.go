package command

import (
	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
	"github.com/cineshelf/cineshelf/pkg/auth"
)

// UpdateUserCommand represents the command to update a user's profile
type UpdateUserCommand struct {
	ID         uint
	Username   string
	Email      string
	Password   string
	ProfilePic string
}

// UpdateUserHandler handles user update command
type UpdateUserHandler struct {
	repo domain.UserRepository
}

// NewUpdateUserHandler creates a new update user handler
func NewUpdateUserHandler(repo domain.UserRepository) *UpdateUserHandler {
	return &UpdateUserHandler{repo: repo}
}

// Handle executes the update user command
func (h *UpdateUserHandler) Handle(cmd UpdateUserCommand) (*domain.User, error) {
	user, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}

	if cmd.Username != "" && cmd.Username != user.Username {
		if existing, _ := h.repo.FindByUsername(cmd.Username); existing != nil {
			return nil, apperror.Conflict("username already exists")
		}
		user.Username = cmd.Username
	}

	if cmd.Email != "" {
		email := domain.NormalizeEmail(cmd.Email)
		if !emailPattern.MatchString(email) {
			return nil, apperror.ValidationFields("invalid email address", "email")
		}
		if email != user.Email {
			if existing, _ := h.repo.FindByEmail(email); existing != nil {
				return nil, apperror.Conflict("email already exists")
			}
			user.Email = email
		}
	}

	if cmd.Password != "" {
		if len(cmd.Password) < 6 {
			return nil, apperror.ValidationFields("password must be at least 6 characters", "password")
		}
		hashed, err := auth.HashPassword(cmd.Password)
		if err != nil {
			return nil, apperror.Internal(err, "failed to hash password")
		}
		user.Password = hashed
	}

	if cmd.ProfilePic != "" {
		user.ProfilePic = cmd.ProfilePic
	}

	if err := h.repo.Update(user); err != nil {
		return nil, apperror.Internal(err, "failed to update user")
	}

	return user, nil
}
