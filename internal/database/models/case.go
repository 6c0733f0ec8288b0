package models

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	CaseStatusPending  = "pending"
	CaseStatusAssigned = "assigned"
	CaseStatusOngoing  = "ongoing"
	CaseStatusReview   = "review"
	CaseStatusClosed   = "closed"
	CaseStatusRejected = "rejected"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var CaseTypes = []string{"civil", "criminal", "corporate", "family", "property", "labor", "other"}

var caseStatuses = []string{
	CaseStatusPending, CaseStatusAssigned, CaseStatusOngoing,
	CaseStatusReview, CaseStatusClosed, CaseStatusRejected,
}

type Case struct {
	Base
	CaseNumber       string     `gorm:"size:50;uniqueIndex;not null" json:"case_number"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text;not null" json:"description"`
	CaseType         string     `gorm:"size:20;not null" json:"case_type"`
	Status           string     `gorm:"size:20;not null;index" json:"status"`
	Priority         string     `gorm:"size:10;not null" json:"priority"`
	ClientID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	LawyerID         *uuid.UUID `gorm:"type:uuid;index" json:"lawyer_id,omitempty"`
	ProbabilityScore *int       `json:"probability_score,omitempty"`
	ClosingDate      *time.Time `json:"closing_date,omitempty"`
	ActualDuration   *int       `json:"actual_duration,omitempty"` // days

	Client *User `gorm:"foreignKey:ClientID" json:"-"`
	Lawyer *User `gorm:"foreignKey:LawyerID" json:"-"`
}

func (Case) TableName() string {
	return "cases"
}

func IsValidCaseType(t string) bool {
	return slices.Contains(CaseTypes, t)
}

// NewCase opens a pending, medium priority case owned by clientID.
func NewCase(clientID uuid.UUID, title, description, caseType string, now time.Time) *Case {
	return &Case{
		CaseNumber:  fmt.Sprintf("CASE-%d-%d", now.UnixMilli(), rand.IntN(1000)),
		Title:       title,
		Description: description,
		CaseType:    caseType,
		Status:      CaseStatusPending,
		Priority:    PriorityMedium,
		ClientID:    clientID,
	}
}

// SetStatus moves the case to status. Closing stamps the closing date and the
// whole days elapsed since the case was opened, rounded up.
func (c *Case) SetStatus(status string, now time.Time) error {
	if !slices.Contains(caseStatuses, status) {
		return fmt.Errorf("unknown case status %q", status)
	}

	c.Status = status
	if status == CaseStatusClosed && c.ClosingDate == nil {
		closed := now.UTC()
		days := int(math.Ceil(closed.Sub(c.CreatedAt).Hours() / 24))
		c.ClosingDate = &closed
		c.ActualDuration = &days
	}
	return nil
}

// AccessibleBy reports whether a user with the given role may act on the case.
func (c *Case) AccessibleBy(userID uuid.UUID, role string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleLawyer:
		return c.LawyerID != nil && *c.LawyerID == userID
	default:
		return c.ClientID == userID
	}
}
