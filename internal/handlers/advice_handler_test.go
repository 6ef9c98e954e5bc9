package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"merlin/internal/services"
)

// --- mock advice service ---

type mockAdviceService struct {
	getAdviceFn      func(ctx context.Context, p *services.Principal, id int) (*services.Advice, error)
	generateAdviceFn func(ctx context.Context, p *services.Principal, id int) (*services.Advice, error)
	selectedAdviceFn func(ctx context.Context, p *services.Principal, ids []int) (string, error)
}

func (m *mockAdviceService) GetAdvice(ctx context.Context, p *services.Principal, id int) (*services.Advice, error) {
	if m.getAdviceFn != nil {
		return m.getAdviceFn(ctx, p, id)
	}
	return &services.Advice{AssessmentID: id}, nil
}

func (m *mockAdviceService) GenerateAdvice(ctx context.Context, p *services.Principal, id int) (*services.Advice, error) {
	if m.generateAdviceFn != nil {
		return m.generateAdviceFn(ctx, p, id)
	}
	return &services.Advice{AssessmentID: id, Text: "advice", Found: true}, nil
}

func (m *mockAdviceService) SelectedAdvice(ctx context.Context, p *services.Principal, ids []int) (string, error) {
	if m.selectedAdviceFn != nil {
		return m.selectedAdviceFn(ctx, p, ids)
	}
	return "", nil
}

var _ services.AdviceServicer = (*mockAdviceService)(nil)

func setupAdviceRouter(handler *AdviceHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectPrincipal(testPrincipal()))
	auth.GET("/assessments/:id/advice", handler.GetAdvice)
	auth.POST("/assessments/:id/advice", handler.GenerateAdvice)
	auth.POST("/advice/selected", handler.SelectedAdvice)
	return r
}

func TestAdviceHandler_GetAdvice(t *testing.T) {
	handler := NewAdviceHandler(&mockAdviceService{})
	r := setupAdviceRouter(handler)

	rec := doRequest(r, "GET", "/assessments/3/advice", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := parseJSON(t, rec)
	if body["found"] != false || body["assessment_id"].(float64) != 3 {
		t.Errorf("unexpected body %v", body)
	}
}

func TestAdviceHandler_GenerateAdvice(t *testing.T) {
	handler := NewAdviceHandler(&mockAdviceService{})
	r := setupAdviceRouter(handler)

	rec := doRequest(r, "POST", "/assessments/3/advice", "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if parseJSON(t, rec)["advice"] != "advice" {
		t.Error("expected generated advice")
	}
}

func TestAdviceHandler_SelectedAdvice(t *testing.T) {
	t.Run("returns combined advice", func(t *testing.T) {
		var got []int
		handler := NewAdviceHandler(&mockAdviceService{
			selectedAdviceFn: func(_ context.Context, _ *services.Principal, ids []int) (string, error) {
				got = ids
				return "Combined.", nil
			},
		})
		r := setupAdviceRouter(handler)

		rec := doRequest(r, "POST", "/advice/selected", `{"selected_ids":[1,2]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(got) != 2 {
			t.Errorf("expected 2 ids, got %v", got)
		}
		if parseJSON(t, rec)["advice"] != "Combined." {
			t.Error("expected combined advice")
		}
	})

	t.Run("returns 400 on empty selection", func(t *testing.T) {
		handler := NewAdviceHandler(&mockAdviceService{})
		r := setupAdviceRouter(handler)

		rec := doRequest(r, "POST", "/advice/selected", `{"selected_ids":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
