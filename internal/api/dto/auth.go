package dto

import (
	"time"

	"github.com/hugh/lawconnect/internal/auth"
	"github.com/hugh/lawconnect/internal/database/models"
)

type RegisterRequest struct {
	Name              string `json:"name" validate:"notblank,min=2,max=100"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=6,maxbytes=72,hasdigit,hasletter"`
	Role              string `json:"role" validate:"omitempty,oneof=client lawyer"`
	Phone             string `json:"phone" validate:"omitempty,phone"`
	Address           string `json:"address" validate:"max=500"`
	Specialization    string `json:"specialization" validate:"max=255"`
	LicenseNumber     string `json:"licenseNumber" validate:"max=100"`
	YearsOfExperience *int   `json:"yearsOfExperience" validate:"omitempty,min=0"`
}

func (r RegisterRequest) Input() auth.RegisterInput {
	return auth.RegisterInput{
		Name:              r.Name,
		Email:             r.Email,
		Password:          r.Password,
		Role:              r.Role,
		Phone:             r.Phone,
		Address:           r.Address,
		Specialization:    r.Specialization,
		LicenseNumber:     r.LicenseNumber,
		YearsOfExperience: r.YearsOfExperience,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=6,maxbytes=72,hasdigit,hasletter"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type UpdateProfileRequest struct {
	Name              *string `json:"name" validate:"omitempty,notblank,min=2,max=100"`
	Phone             *string `json:"phone" validate:"omitempty,phone"`
	Address           *string `json:"address" validate:"omitempty,max=500"`
	Specialization    *string `json:"specialization" validate:"omitempty,max=255"`
	YearsOfExperience *int    `json:"yearsOfExperience" validate:"omitempty,min=0"`
	ProfilePicture    *string `json:"profilePicture" validate:"omitempty,max=500"`
}

func (r UpdateProfileRequest) Input() auth.ProfileInput {
	return auth.ProfileInput{
		Name:              r.Name,
		Phone:             r.Phone,
		Address:           r.Address,
		Specialization:    r.Specialization,
		YearsOfExperience: r.YearsOfExperience,
		ProfilePicture:    r.ProfilePicture,
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,maxbytes=72,hasdigit,hasletter"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserResponse struct {
	User UserDTO `json:"user"`
}

type ForgotPasswordResponse struct {
	ResetURL string `json:"resetUrl,omitempty"`
}

type UserDTO struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Role              string     `json:"role"`
	Phone             string     `json:"phone,omitempty"`
	Address           string     `json:"address,omitempty"`
	Specialization    string     `json:"specialization,omitempty"`
	LicenseNumber     string     `json:"licenseNumber,omitempty"`
	YearsOfExperience *int       `json:"yearsOfExperience,omitempty"`
	ProfilePicture    string     `json:"profilePicture,omitempty"`
	IsActive          bool       `json:"isActive"`
	IsVerified        bool       `json:"isVerified"`
	LastLogin         *time.Time `json:"lastLogin,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:                u.ID.String(),
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		Phone:             u.Phone,
		Address:           u.Address,
		Specialization:    u.Specialization,
		LicenseNumber:     u.LicenseNumber,
		YearsOfExperience: u.YearsOfExperience,
		ProfilePicture:    u.ProfilePicture,
		IsActive:          u.IsActive,
		IsVerified:        u.IsVerified,
		LastLogin:         u.LastLogin,
		CreatedAt:         u.CreatedAt,
	}
}

func NewAuthResponse(resp *auth.AuthResponse) AuthResponse {
	return AuthResponse{Token: resp.Token, User: NewUserDTO(resp.User)}
}
