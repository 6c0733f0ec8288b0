// Package cases exposes the slice of case records the AI endpoints need:
// lookup, ownership checks and the stored success probability.
package cases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrCaseNotFound = errors.New("case not found")
	ErrForbidden    = errors.New("not authorized to access this case")
	ErrInvalidScore = errors.New("probability must be between 0 and 100")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	var c models.Case
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Authorize loads the case and checks the caller may act on it: clients own
// it, lawyers are assigned to it, admins always pass.
func (s *Service) Authorize(ctx context.Context, caseID, userID uuid.UUID, role string) (*models.Case, error) {
	c, err := s.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !c.AccessibleBy(userID, role) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *Service) SetProbability(ctx context.Context, caseID uuid.UUID, probability int) error {
	if probability < 0 || probability > 100 {
		return ErrInvalidScore
	}

	res := s.db.WithContext(ctx).Model(&models.Case{}).
		Where("id = ?", caseID).
		Update("probability_score", probability)
	if res.Error != nil {
		return fmt.Errorf("updating probability: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCaseNotFound
	}
	return nil
}
