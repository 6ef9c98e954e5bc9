package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"merlin/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestSession stores an active session for userID holding sealed as
// its backend token.
func CreateTestSession(t *testing.T, db *gorm.DB, userID int, sealed []byte) *models.Session {
	t.Helper()

	now := time.Now()
	session := &models.Session{
		UserID:        userID,
		UserName:      fmt.Sprintf("User %d", userID),
		UserEmail:     fmt.Sprintf("user%d@test.com", nextID()),
		SealedToken:   sealed,
		TokenHash:     fmt.Sprintf("%064d", nextID()),
		IsActive:      true,
		LastCheckedAt: &now,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return session
}

// ExpireTestSession moves a session's backend expiry into the past.
func ExpireTestSession(t *testing.T, db *gorm.DB, session *models.Session) {
	t.Helper()

	past := time.Now().Add(-time.Minute)
	if err := db.Model(session).Update("expires_at", &past).Error; err != nil {
		t.Fatalf("failed to expire test session: %v", err)
	}
	session.ExpiresAt = &past
}

// NewTestEntry builds an entry with the given signed amount.
func NewTestEntry(id int, category, amount string) models.Entry {
	kind := models.EntryKindIncome
	d := decimal.RequireFromString(amount)
	if d.IsNegative() {
		kind = models.EntryKindExpense
	}
	return models.Entry{
		ID:           id,
		AssessmentID: 1,
		Name:         fmt.Sprintf("Entry %d", id),
		Category:     category,
		Amount:       d,
		Kind:         kind,
		Date:         "2025-03-14",
	}
}
