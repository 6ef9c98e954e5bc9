package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"merlin/internal/models"
	"merlin/internal/testutil"
	"merlin/internal/upstream"
)

func TestListEntries(t *testing.T) {
	svc := NewEntryService(&mockBackend{
		ListEntriesFunc: func(context.Context, string, int) ([]models.Entry, error) {
			return []models.Entry{
				testutil.NewTestEntry(1, "salary", "100"),
				testutil.NewTestEntry(2, "food", "-40"),
			}, nil
		},
	}, &recordingAudit{})

	list, err := svc.ListEntries(context.Background(), testPrincipal(), 1)
	testutil.AssertNoError(t, err)
	if len(list.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list.Entries))
	}
	if !list.Result.NetTotal.Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected net 60, got %s", list.Result.NetTotal)
	}
}

func TestListEntries_Empty(t *testing.T) {
	svc := NewEntryService(&mockBackend{
		ListEntriesFunc: func(context.Context, string, int) ([]models.Entry, error) {
			return []models.Entry{}, nil
		},
	}, &recordingAudit{})

	list, err := svc.ListEntries(context.Background(), testPrincipal(), 1)
	testutil.AssertNoError(t, err)
	if !list.Result.IsEmpty() {
		t.Error("expected the empty state")
	}
}

func TestCreateEntry(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		kind       models.EntryKind
		wantAmount string
	}{
		{"expense_is_negated", "40.50", models.EntryKindExpense, "-40.5"},
		{"negative_expense_stays_negative", "-40.50", models.EntryKindExpense, "-40.5"},
		{"income_is_positive", "-100", models.EntryKindIncome, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sent upstream.NewEntry
			reloaded := false
			backend := &mockBackend{
				CreateEntryFunc: func(_ context.Context, _ string, entry upstream.NewEntry) error {
					sent = entry
					return nil
				},
				ListEntriesFunc: func(context.Context, string, int) ([]models.Entry, error) {
					reloaded = true
					return []models.Entry{}, nil
				},
			}
			audit := &recordingAudit{}
			svc := NewEntryService(backend, audit).(*entryService)
			svc.now = func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }

			_, err := svc.CreateEntry(context.Background(), testPrincipal(), CreateEntryInput{
				AssessmentID: 2,
				Name:         "Groceries",
				Category:     "food",
				Amount:       decimal.RequireFromString(tt.amount),
				Kind:         tt.kind,
			})
			testutil.AssertNoError(t, err)

			if sent.Amount.String() != tt.wantAmount {
				t.Errorf("expected amount %s, got %s", tt.wantAmount, sent.Amount)
			}
			if sent.Date != "2025-03-14" {
				t.Errorf("expected default date 2025-03-14, got %q", sent.Date)
			}
			if !reloaded {
				t.Error("expected entries to be reloaded after create")
			}
			if !audit.has(AuditActionCreateEntry) {
				t.Error("expected create_entry audit event")
			}
		})
	}
}

func TestCreateEntry_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input CreateEntryInput
	}{
		{"blank_name", CreateEntryInput{Name: "  ", Amount: decimal.NewFromInt(1), Kind: models.EntryKindIncome}},
		{"zero_amount", CreateEntryInput{Name: "x", Amount: decimal.Zero, Kind: models.EntryKindIncome}},
		{"bad_kind", CreateEntryInput{Name: "x", Amount: decimal.NewFromInt(1), Kind: "*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEntryService(&mockBackend{}, &recordingAudit{})
			_, err := svc.CreateEntry(context.Background(), testPrincipal(), tt.input)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		})
	}
}

func TestCreateEntry_Rejected(t *testing.T) {
	svc := NewEntryService(&mockBackend{
		CreateEntryFunc: func(context.Context, string, upstream.NewEntry) error {
			return &upstream.StatusError{StatusCode: http.StatusUnprocessableEntity, Message: "The date field must be a valid date."}
		},
	}, &recordingAudit{})

	_, err := svc.CreateEntry(context.Background(), testPrincipal(), CreateEntryInput{
		AssessmentID: 1, Name: "x", Amount: decimal.NewFromInt(5), Kind: models.EntryKindIncome, Date: "nope",
	})
	testutil.AssertAppError(t, err, "UPSTREAM_REJECTED")
}

func TestDeleteEntry(t *testing.T) {
	var deleted int
	audit := &recordingAudit{}
	svc := NewEntryService(&mockBackend{
		DeleteEntryFunc: func(_ context.Context, _ string, id int) error {
			deleted = id
			return nil
		},
	}, audit)

	testutil.AssertNoError(t, svc.DeleteEntry(context.Background(), testPrincipal(), 11))
	if deleted != 11 {
		t.Errorf("expected entry 11 deleted, got %d", deleted)
	}
	if !audit.has(AuditActionDeleteEntry) {
		t.Error("expected delete_entry audit event")
	}
}

func TestDeleteEntry_NotFound(t *testing.T) {
	svc := NewEntryService(&mockBackend{
		DeleteEntryFunc: func(context.Context, string, int) error {
			return &upstream.StatusError{StatusCode: http.StatusNotFound}
		},
	}, &recordingAudit{})

	err := svc.DeleteEntry(context.Background(), testPrincipal(), 11)
	testutil.AssertAppError(t, err, "ENTRY_NOT_FOUND")
}
