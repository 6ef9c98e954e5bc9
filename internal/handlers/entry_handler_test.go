package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"merlin/internal/aggregate"
	apperrors "merlin/internal/errors"
	"merlin/internal/models"
	"merlin/internal/services"
)

// --- mock entry service ---

type mockEntryService struct {
	listEntriesFn func(ctx context.Context, p *services.Principal, assessmentID int) (*services.EntryList, error)
	createEntryFn func(ctx context.Context, p *services.Principal, input services.CreateEntryInput) (*services.EntryList, error)
	deleteEntryFn func(ctx context.Context, p *services.Principal, entryID int) error
}

func (m *mockEntryService) ListEntries(ctx context.Context, p *services.Principal, assessmentID int) (*services.EntryList, error) {
	if m.listEntriesFn != nil {
		return m.listEntriesFn(ctx, p, assessmentID)
	}
	return &services.EntryList{AssessmentID: assessmentID}, nil
}

func (m *mockEntryService) CreateEntry(ctx context.Context, p *services.Principal, input services.CreateEntryInput) (*services.EntryList, error) {
	if m.createEntryFn != nil {
		return m.createEntryFn(ctx, p, input)
	}
	return &services.EntryList{AssessmentID: input.AssessmentID}, nil
}

func (m *mockEntryService) DeleteEntry(ctx context.Context, p *services.Principal, entryID int) error {
	if m.deleteEntryFn != nil {
		return m.deleteEntryFn(ctx, p, entryID)
	}
	return nil
}

var _ services.EntryServicer = (*mockEntryService)(nil)

func setupEntryRouter(handler *EntryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectPrincipal(testPrincipal()))
	auth.GET("/assessments/:id/entries", handler.ListEntries)
	auth.POST("/assessments/:id/entries", handler.CreateEntry)
	auth.DELETE("/entries/:id", handler.DeleteEntry)
	return r
}

func TestEntryHandler_ListEntries(t *testing.T) {
	entries := []models.Entry{
		{ID: 1, Name: "Salary", Amount: decimal.RequireFromString("0.1")},
		{ID: 2, Name: "Bonus", Amount: decimal.RequireFromString("0.2")},
	}
	handler := NewEntryHandler(&mockEntryService{
		listEntriesFn: func(_ context.Context, _ *services.Principal, id int) (*services.EntryList, error) {
			return &services.EntryList{AssessmentID: id, Entries: entries, Result: aggregate.Aggregate(entries)}, nil
		},
	}, "£")
	r := setupEntryRouter(handler)

	rec := doRequest(r, "GET", "/assessments/2/entries", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := parseJSON(t, rec)
	summary := body["summary"].(map[string]interface{})
	if summary["total_income"] != "£0.30" {
		t.Errorf("expected £0.30, got %v", summary["total_income"])
	}
	row := body["entries"].([]interface{})[0].(map[string]interface{})
	if row["category_label"] != models.UncategorizedLabel {
		t.Errorf("expected uncategorized label, got %v", row["category_label"])
	}
}

func TestEntryHandler_CreateEntry(t *testing.T) {
	t.Run("returns 201 with the reloaded list", func(t *testing.T) {
		var got services.CreateEntryInput
		handler := NewEntryHandler(&mockEntryService{
			createEntryFn: func(_ context.Context, _ *services.Principal, input services.CreateEntryInput) (*services.EntryList, error) {
				got = input
				return &services.EntryList{AssessmentID: input.AssessmentID, Result: aggregate.Aggregate(nil)}, nil
			},
		}, "£")
		r := setupEntryRouter(handler)

		rec := doRequest(r, "POST", "/assessments/2/entries",
			`{"name":"Groceries","category":"food","amount":"40.50","type":"-","date":"2025-03-14"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.AssessmentID != 2 || got.Kind != models.EntryKindExpense {
			t.Errorf("unexpected input %+v", got)
		}
		if !got.Amount.Equal(decimal.RequireFromString("40.5")) {
			t.Errorf("expected amount 40.5, got %s", got.Amount)
		}
	})

	t.Run("accepts numeric amounts", func(t *testing.T) {
		handler := NewEntryHandler(&mockEntryService{}, "£")
		r := setupEntryRouter(handler)

		rec := doRequest(r, "POST", "/assessments/2/entries", `{"name":"Pay","amount":1200,"type":"+"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing amount", `{"name":"x","type":"+"}`},
		{"bad type", `{"name":"x","amount":1,"type":"income"}`},
		{"bad date", `{"name":"x","amount":1,"type":"+","date":"14/03/2025"}`},
		{"missing name", `{"amount":1,"type":"+"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			handler := NewEntryHandler(&mockEntryService{}, "£")
			r := setupEntryRouter(handler)

			rec := doRequest(r, "POST", "/assessments/2/entries", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestEntryHandler_DeleteEntry(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var deleted int
		handler := NewEntryHandler(&mockEntryService{
			deleteEntryFn: func(_ context.Context, _ *services.Principal, id int) error {
				deleted = id
				return nil
			},
		}, "£")
		r := setupEntryRouter(handler)

		rec := doRequest(r, "DELETE", "/entries/11", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != 11 {
			t.Errorf("expected entry 11, got %d", deleted)
		}
	})

	t.Run("returns 502 when the backend is down", func(t *testing.T) {
		handler := NewEntryHandler(&mockEntryService{
			deleteEntryFn: func(context.Context, *services.Principal, int) error {
				return apperrors.ErrUpstreamUnavailable
			},
		}, "£")
		r := setupEntryRouter(handler)

		rec := doRequest(r, "DELETE", "/entries/11", "")

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})
}
