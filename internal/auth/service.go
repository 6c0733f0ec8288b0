package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
)

type Service struct {
	db  *gorm.DB
	jwt *JWTService
	now func() time.Time
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt, now: time.Now}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	Address  string

	// Only kept for lawyers.
	Specialization    string
	LicenseNumber     string
	YearsOfExperience *int
}

type LoginInput struct {
	Email    string
	Password string
}

type ProfileInput struct {
	Name              *string
	Phone             *string
	Address           *string
	Specialization    *string
	YearsOfExperience *int
	ProfilePicture    *string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	email := models.NormalizeEmail(input.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	// Admins are provisioned out of band.
	role := models.RoleClient
	if input.Role == models.RoleLawyer {
		role = models.RoleLawyer
	}

	user, err := models.NewUser(input.Name, email, input.Password, role)
	if err != nil {
		return nil, err
	}
	user.Phone = input.Phone
	user.Address = input.Address
	if user.IsLawyer() {
		user.Specialization = input.Specialization
		user.LicenseNumber = input.LicenseNumber
		user.YearsOfExperience = input.YearsOfExperience
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// Login checks the password before the active flag so a deactivated account
// is only revealed to someone holding its credentials.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	user, err := s.findByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(input.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	now := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(user).UpdateColumn("last_login", now).Error; err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.ProfilePicture != nil {
		updates["profile_picture"] = *input.ProfilePicture
	}
	if user.IsLawyer() {
		if input.Specialization != nil {
			updates["specialization"] = *input.Specialization
		}
		if input.YearsOfExperience != nil {
			updates["years_of_experience"] = *input.YearsOfExperience
		}
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetUserByID(ctx, id)
}

func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.CheckPassword(current) {
		return ErrIncorrectPassword
	}
	if err := user.SetPassword(next); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).UpdateColumn("password_hash", user.PasswordHash).Error
}

func (s *Service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
