package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Role types
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents the user entity (domain model). Favorites is an
// ordered list of movie ids; duplicates are not rejected.
type User struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	Username   string        `json:"username" gorm:"uniqueIndex;not null"`
	Email      string        `json:"email" gorm:"uniqueIndex;not null"` // stored lowercase
	Password   string        `json:"-" gorm:"not null"`
	ProfilePic string        `json:"profilePic"`
	Role       string        `json:"role" gorm:"not null;default:'user'"`
	IsActive   bool          `json:"isActive" gorm:"default:true"`
	LastLogin  *time.Time    `json:"lastLogin,omitempty"`
	Favorites  pq.Int64Array `json:"favorites" gorm:"type:bigint[]"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lowercases an email for case-insensitive matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DefaultAvatar derives the fallback profile picture from a username.
func DefaultAvatar(username string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", strings.ReplaceAll(username, " ", "+"))
}

// ListParams controls admin user listing.
type ListParams struct {
	Search string
	Role   string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindAll(params ListParams) ([]User, int64, error)
	Update(user *User) error
	Delete(id uint) error
	Count() (int64, error)
	CountByRole(role string) (int64, error)
	CountActive() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
}
