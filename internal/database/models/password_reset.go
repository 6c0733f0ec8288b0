package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/pkg/crypto"
	"gorm.io/gorm"
)

// ResetTokenBytes is the entropy of a reset token; it is stored hex encoded.
const ResetTokenBytes = 32

type PasswordReset struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	Used      bool       `gorm:"not null" json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	IPAddress string     `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string     `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PasswordReset) TableName() string {
	return "password_reset_tokens"
}

func (p *PasswordReset) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewPasswordReset issues a fresh token for userID valid for ttl from now.
func NewPasswordReset(userID uuid.UUID, ttl time.Duration, now time.Time, ip, userAgent string) (*PasswordReset, error) {
	token, err := crypto.GenerateHexToken(ResetTokenBytes)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	return &PasswordReset{
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *PasswordReset) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// IsValid: unused and not yet expired.
func (p *PasswordReset) IsValid(now time.Time) bool {
	return !p.Used && !p.IsExpired(now)
}

func (p *PasswordReset) MarkUsed(now time.Time) {
	at := now.UTC()
	p.Used = true
	p.UsedAt = &at
	p.UpdatedAt = at
}
