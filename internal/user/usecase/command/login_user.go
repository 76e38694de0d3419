package command

import (
	"time"

	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
	"github.com/cineshelf/cineshelf/pkg/auth"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the login user command
func (h *LoginUserHandler) Handle(cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Email == "" {
		return nil, apperror.ValidationFields("email is required", "email")
	}
	if cmd.Password == "" {
		return nil, apperror.ValidationFields("password is required", "password")
	}

	// Email match is case-insensitive via normalization.
	user, err := h.repo.FindByEmail(domain.NormalizeEmail(cmd.Email))
	if err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if !user.IsActive {
		return nil, apperror.Forbidden("account is deactivated")
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := h.repo.Update(user); err != nil {
		return nil, apperror.Internal(err, "failed to record login")
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to generate token")
	}

	return &LoginResponse{Token: token, User: user}, nil
}
