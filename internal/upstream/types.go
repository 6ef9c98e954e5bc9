package upstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"merlin/internal/models"
)

// ErrInvalidResponse is returned when a backend payload fails validation.
var ErrInvalidResponse = errors.New("invalid backend response")

var validate = validator.New(validator.WithRequiredStructEnabled())

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// NewEntry is the payload for creating an entry. Amount is already signed.
type NewEntry struct {
	AssessmentID int              `json:"assessment_id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Amount       decimal.Decimal  `json:"amount"`
	Kind         models.EntryKind `json:"type"`
	Date         string           `json:"date"`
}

// AuthResult is what login and registration return.
type AuthResult struct {
	User      models.User
	Token     string
	ExpiresAt *time.Time
}

type userPayload struct {
	ID    *int    `json:"id" validate:"required"`
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (p userPayload) toModel() models.User {
	return models.User{ID: *p.ID, Name: deref(p.Name), Email: deref(p.Email)}
}

type authPayload struct {
	User  *userPayload `json:"user" validate:"required"`
	Token *string      `json:"token" validate:"required,min=1"`
}

type assessmentPayload struct {
	ID   *int    `json:"id" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

type entryPayload struct {
	ID             *int             `json:"id"`
	LegacyID       *int             `json:"financial_assessment_id"`
	AssessmentID   *int             `json:"assessment_id"`
	AssessmentName *string          `json:"financial_assessment_name"`
	Name           *string          `json:"name"`
	Categories     *string          `json:"categories"`
	Category       *string          `json:"category"`
	Amount         *decimal.Decimal `json:"amount" validate:"required"`
	Type           *string          `json:"type" validate:"omitempty,oneof=+ -"`
	Date           *string          `json:"date"`
}

// toModel converts a validated payload. Entries are addressed by
// financial_assessment_id, which is what the backend deletes by; id is only
// used when that field is absent.
func (p entryPayload) toModel(assessmentID int) models.Entry {
	e := models.Entry{
		AssessmentID:   assessmentID,
		AssessmentName: deref(p.AssessmentName),
		Name:           deref(p.Name),
		Amount:         *p.Amount,
		Kind:           models.EntryKind(deref(p.Type)),
		Date:           deref(p.Date),
	}
	switch {
	case p.LegacyID != nil:
		e.ID = *p.LegacyID
	case p.ID != nil:
		e.ID = *p.ID
	}
	if p.AssessmentID != nil {
		e.AssessmentID = *p.AssessmentID
	}
	if p.Categories != nil {
		e.Category = *p.Categories
	} else if p.Category != nil {
		e.Category = *p.Category
	}
	return e
}

type advicePayload struct {
	Advice *string `json:"advice"`
}

type messagePayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// decodeList accepts either a bare JSON array or a {"data": [...]} envelope.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	var items []T
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope struct {
		Data *[]T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: missing data array", ErrInvalidResponse)
	}
	return *envelope.Data, nil
}

func validatePayload(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
