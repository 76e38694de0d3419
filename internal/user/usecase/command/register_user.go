package command

import (
	"regexp"

	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
	"github.com/cineshelf/cineshelf/pkg/auth"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Username   string
	Email      string
	Password   string
	ProfilePic string
	Role       string // Optional, defaults to "user"; only admin callers set it
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(cmd RegisterUserCommand) (*domain.User, error) {
	if cmd.Username == "" {
		return nil, apperror.ValidationFields("username is required", "username")
	}
	email := domain.NormalizeEmail(cmd.Email)
	if email == "" {
		return nil, apperror.ValidationFields("email is required", "email")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.ValidationFields("invalid email address", "email")
	}
	if cmd.Password == "" {
		return nil, apperror.ValidationFields("password is required", "password")
	}
	if len(cmd.Password) < 6 {
		return nil, apperror.ValidationFields("password must be at least 6 characters", "password")
	}

	if existing, _ := h.repo.FindByUsername(cmd.Username); existing != nil {
		return nil, apperror.Conflict("username already exists")
	}
	if existing, _ := h.repo.FindByEmail(email); existing != nil {
		return nil, apperror.Conflict("email already exists")
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, apperror.Internal(err, "failed to hash password")
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, apperror.ValidationFields("invalid role", "role")
	}

	profilePic := cmd.ProfilePic
	if profilePic == "" {
		profilePic = domain.DefaultAvatar(cmd.Username)
	}

	user := &domain.User{
		Username:   cmd.Username,
		Email:      email,
		Password:   hashedPassword,
		ProfilePic: profilePic,
		Role:       role,
		IsActive:   true,
	}

	if err := h.repo.Create(user); err != nil {
		return nil, apperror.Internal(err, "failed to create user")
	}

	return user, nil
}
