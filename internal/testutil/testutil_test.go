package testutil_test

import (
	"testing"
	"time"

	"merlin/internal/errors"
	"merlin/internal/models"
	"merlin/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"sessions", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	session := testutil.CreateTestSession(t, db, 42, []byte("sealed"))
	if session.ID == "" {
		t.Fatal("session should have an ID")
	}
	if !session.IsActive {
		t.Error("session should be active")
	}

	testutil.ExpireTestSession(t, db, session)
	var stored models.Session
	if err := db.First(&stored, "id = ?", session.ID).Error; err != nil {
		t.Fatalf("failed to reload session: %v", err)
	}
	if !stored.Expired(time.Now()) {
		t.Error("session should be expired")
	}

	entry := testutil.NewTestEntry(1, "rent", "-400")
	if entry.Kind != models.EntryKindExpense || entry.IsIncome() {
		t.Errorf("expected expense entry, got %+v", entry)
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrNotFound, "NOT_FOUND")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrUpstreamUnavailable, nil), "UPSTREAM_UNAVAILABLE")
	testutil.AssertNoError(t, nil)
}
