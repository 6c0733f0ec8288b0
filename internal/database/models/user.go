package models

import (
	"strings"
	"time"

	"github.com/hugh/lawconnect/pkg/crypto"
)

const (
	RoleClient = "client"
	RoleLawyer = "lawyer"
	RoleAdmin  = "admin"
)

type User struct {
	Base
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:20;not null;index" json:"role"`
	Phone        string `gorm:"size:20" json:"phone,omitempty"`
	Address      string `gorm:"type:text" json:"address,omitempty"`

	// Lawyer profile
	Specialization    string `gorm:"size:255" json:"specialization,omitempty"`
	LicenseNumber     string `gorm:"size:100" json:"license_number,omitempty"`
	YearsOfExperience *int   `json:"years_of_experience,omitempty"`

	ProfilePicture string `gorm:"size:500" json:"profile_picture,omitempty"`

	// External identities; NULL when unlinked so the unique index allows many.
	GoogleID   *string `gorm:"size:255;uniqueIndex" json:"-"`
	FacebookID *string `gorm:"size:255;uniqueIndex" json:"-"`

	IsActive   bool       `json:"is_active"`
	IsVerified bool       `json:"is_verified"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeEmail is applied on every write and lookup so the unique index is
// effectively case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser builds an active user with a hashed password. Unknown roles fall
// back to client.
func NewUser(name, email, password, role string) (*User, error) {
	if role != RoleLawyer && role != RoleAdmin {
		role = RoleClient
	}

	u := &User{
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		Role:     role,
		IsActive: true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored hash. Plaintext is never kept.
func (u *User) SetPassword(plain string) error {
	hash, err := crypto.HashPassword(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return crypto.CheckPassword(plain, u.PasswordHash)
}

func (u *User) IsLawyer() bool {
	return u.Role == RoleLawyer
}
