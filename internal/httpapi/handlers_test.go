package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/draymaster/hos-planner/internal/domain"
	"github.com/draymaster/hos-planner/internal/service"
	"github.com/draymaster/hos-planner/shared/pkg/database"
	hoserrors "github.com/draymaster/hos-planner/shared/pkg/errors"
	"github.com/draymaster/hos-planner/shared/pkg/logger"
)

type fakePlanService struct {
	createFn func(ctx context.Context, input service.CreatePlanInput) (*domain.TripPlan, error)
	plans    map[uuid.UUID]*domain.TripPlan
	listErr  error
}

func (f *fakePlanService) CreatePlan(ctx context.Context, input service.CreatePlanInput) (*domain.TripPlan, error) {
	return f.createFn(ctx, input)
}

func (f *fakePlanService) GetPlan(ctx context.Context, id uuid.UUID) (*domain.TripPlan, error) {
	if plan, ok := f.plans[id]; ok {
		return plan, nil
	}
	return nil, hoserrors.NotFoundError("trip plan", id.String())
}

func (f *fakePlanService) ListPlans(ctx context.Context, page database.Pagination) ([]domain.TripPlan, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []domain.TripPlan
	for _, p := range f.plans {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func testLogger() *logger.Logger {
	return logger.Default()
}

func TestCreatePlanValidation(t *testing.T) {
	h := NewHandler(&fakePlanService{
		createFn: func(ctx context.Context, input service.CreatePlanInput) (*domain.TripPlan, error) {
			return &domain.TripPlan{ID: uuid.New()}, nil
		},
	}, testLogger())

	body, _ := json.Marshal(map[string]interface{}{
		"pickup_location":  "",
		"dropoff_location": "Fresno, CA",
		"current_location": "Los Angeles, CA",
		"cycle_used_hours": 10,
	})

	req := httptest.NewRequest(http.MethodPost, "/plan", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreatePlanSuccess(t *testing.T) {
	created := &domain.TripPlan{ID: uuid.New(), TripCompleted: true}
	h := NewHandler(&fakePlanService{
		createFn: func(ctx context.Context, input service.CreatePlanInput) (*domain.TripPlan, error) {
			return created, nil
		},
	}, testLogger())

	body, _ := json.Marshal(map[string]interface{}{
		"pickup_location":  "Los Angeles, CA",
		"dropoff_location": "Fresno, CA",
		"current_location": "Los Angeles, CA",
		"cycle_used_hours": 10,
	})

	req := httptest.NewRequest(http.MethodPost, "/plan", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetPlanNotFound(t *testing.T) {
	h := NewHandler(&fakePlanService{plans: map[uuid.UUID]*domain.TripPlan{}}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/plans/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetPlanInvalidID(t *testing.T) {
	h := NewHandler(&fakePlanService{plans: map[uuid.UUID]*domain.TripPlan{}}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/plans/not-a-uuid", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListPlans(t *testing.T) {
	id := uuid.New()
	h := NewHandler(&fakePlanService{plans: map[uuid.UUID]*domain.TripPlan{id: {ID: id}}}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/plans?page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewHandler(&fakePlanService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/plan", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d: %s", w.Code, w.Body.String())
	}
}
