package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/hugh/lawconnect/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrResetTokenNotFound = errors.New("invalid reset token")
	ErrResetTokenExpired  = errors.New("reset token has expired")
	ErrResetTokenUsed     = errors.New("reset token has already been used")
)

const DefaultResetTTL = time.Hour

// RequestMeta is stored alongside a reset token for later review.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Ledger issues, validates and consumes single-use password reset tokens.
type Ledger struct {
	db        *gorm.DB
	ttl       time.Duration
	clientURL string
	now       func() time.Time
}

func NewLedger(db *gorm.DB, ttl time.Duration, clientURL string) *Ledger {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	return &Ledger{db: db, ttl: ttl, clientURL: clientURL, now: time.Now}
}

// SetClock replaces time.Now; tests use it to step past expiry.
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

func (l *Ledger) RequestReset(ctx context.Context, email string, meta RequestMeta) (*models.PasswordReset, error) {
	var user models.User
	if err := l.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	reset, err := models.NewPasswordReset(user.ID, l.ttl, l.now(), meta.IPAddress, meta.UserAgent)
	if err != nil {
		return nil, err
	}
	if err := l.db.WithContext(ctx).Create(reset).Error; err != nil {
		return nil, fmt.Errorf("storing reset token: %w", err)
	}

	reset.User = &user
	return reset, nil
}

func (l *Ledger) ResetURL(token string) string {
	return l.clientURL + "/reset-password?token=" + url.QueryEscape(token)
}

func (l *Ledger) Validate(ctx context.Context, token string) (*models.PasswordReset, error) {
	return l.lookup(l.db.WithContext(ctx), token)
}

func (l *Ledger) lookup(db *gorm.DB, token string) (*models.PasswordReset, error) {
	if token == "" {
		return nil, ErrResetTokenNotFound
	}

	var reset models.PasswordReset
	if err := db.Where("token = ?", token).First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}

	if reset.Used {
		return nil, ErrResetTokenUsed
	}
	if reset.IsExpired(l.now()) {
		return nil, ErrResetTokenExpired
	}
	return &reset, nil
}

// Consume sets a new password for the token's owner and burns the token. The
// used flag is flipped with a guarded update inside the same transaction as
// the password write, so of two concurrent consumers only one succeeds.
func (l *Ledger) Consume(ctx context.Context, token, newPassword string) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reset, err := l.lookup(tx, token)
		if err != nil {
			return err
		}

		var user models.User
		if err := tx.Where("id = ?", reset.UserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if err := user.SetPassword(newPassword); err != nil {
			return err
		}

		reset.MarkUsed(l.now())
		res := tx.Model(&models.PasswordReset{}).
			Where("id = ? AND used = ?", reset.ID, false).
			Updates(map[string]interface{}{
				"used":       true,
				"used_at":    reset.UsedAt,
				"updated_at": reset.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrResetTokenUsed
		}

		return tx.Model(&user).UpdateColumn("password_hash", user.PasswordHash).Error
	})
}

// SweepExpired hard-deletes every token past its expiry, used or not.
func (l *Ledger) SweepExpired(ctx context.Context) (int64, error) {
	res := l.db.WithContext(ctx).
		Where("expires_at < ?", l.now().UTC()).
		Delete(&models.PasswordReset{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweeping reset tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
