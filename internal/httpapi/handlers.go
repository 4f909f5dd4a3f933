// Package httpapi exposes the trip-planning service over plain HTTP:
// POST /plan computes and persists a plan, GET /plans lists summaries,
// and GET /plans/{uuid} returns one plan in full. No router library is
// used anywhere in the retrieved corpus, so this is a stdlib net/http
// ServeMux, matching driver-service/cmd/main.go's httpHandler.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/draymaster/hos-planner/internal/domain"
	"github.com/draymaster/hos-planner/internal/service"
	"github.com/draymaster/hos-planner/shared/pkg/database"
	hoserrors "github.com/draymaster/hos-planner/shared/pkg/errors"
	"github.com/draymaster/hos-planner/shared/pkg/logger"
	"github.com/draymaster/hos-planner/shared/pkg/validation"
)

// planService is the subset of *service.PlanService the handlers need,
// so tests can substitute a fake.
type planService interface {
	CreatePlan(ctx context.Context, input service.CreatePlanInput) (*domain.TripPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*domain.TripPlan, error)
	ListPlans(ctx context.Context, page database.Pagination) ([]domain.TripPlan, int64, error)
}

// Handler bundles the HTTP handlers for the trip-plan API.
type Handler struct {
	svc planService
	log *logger.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc planService, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes registers every endpoint on a fresh ServeMux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	mux.HandleFunc("/plan", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, hoserrors.New("METHOD_NOT_ALLOWED", "POST required"))
			return
		}
		h.createPlan(w, r)
	})

	mux.HandleFunc("/plans", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, hoserrors.New("METHOD_NOT_ALLOWED", "GET required"))
			return
		}
		h.listPlans(w, r)
	})

	mux.HandleFunc("/plans/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, hoserrors.New("METHOD_NOT_ALLOWED", "GET required"))
			return
		}
		h.getPlan(w, r)
	})

	return mux
}

// createPlanRequest is the JSON body of POST /plan.
type createPlanRequest struct {
	CurrentLocation string   `json:"current_location"`
	PickupLocation  string   `json:"pickup_location"`
	DropoffLocation string   `json:"dropoff_location"`
	CycleUsedHours  float64  `json:"cycle_used_hours"`
	CurrentLat      *float64 `json:"current_lat,omitempty"`
	CurrentLng      *float64 `json:"current_lng,omitempty"`
	PickupLat       *float64 `json:"pickup_lat,omitempty"`
	PickupLng       *float64 `json:"pickup_lng,omitempty"`
	DropoffLat      *float64 `json:"dropoff_lat,omitempty"`
	DropoffLng      *float64 `json:"dropoff_lng,omitempty"`
}

func (h *Handler) createPlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, hoserrors.ValidationError("malformed request body", "body", nil))
		return
	}

	if err := validateCreatePlanRequest(req); err != nil {
		writeError(w, err)
		return
	}

	plan, err := h.svc.CreatePlan(r.Context(), service.CreatePlanInput{
		CurrentLocation: req.CurrentLocation,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CycleUsedHours:  req.CycleUsedHours,
		CurrentLat:      req.CurrentLat,
		CurrentLng:      req.CurrentLng,
		PickupLat:       req.PickupLat,
		PickupLng:       req.PickupLng,
		DropoffLat:      req.DropoffLat,
		DropoffLng:      req.DropoffLng,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

var (
	stringValidator  = validation.NewStringValidator()
	coordValidator   = validation.NewCoordinateValidator()
	numericValidator = validation.NewNumericRangeValidator()
)

func validateCreatePlanRequest(req createPlanRequest) error {
	for _, f := range []struct {
		value, name string
	}{
		{req.CurrentLocation, "current_location"},
		{req.PickupLocation, "pickup_location"},
		{req.DropoffLocation, "dropoff_location"},
	} {
		if err := stringValidator.ValidateRequired(strings.TrimSpace(f.value), f.name); err != nil {
			return hoserrors.ValidationError(err.Error(), f.name, f.value)
		}
	}

	if err := numericValidator.Validate(req.CycleUsedHours, 0, 70, "cycle_used_hours"); err != nil {
		return hoserrors.ValidationError(err.Error(), "cycle_used_hours", req.CycleUsedHours)
	}

	for _, c := range []struct {
		lat, lng *float64
		name     string
	}{
		{req.CurrentLat, req.CurrentLng, "current"},
		{req.PickupLat, req.PickupLng, "pickup"},
		{req.DropoffLat, req.DropoffLng, "dropoff"},
	} {
		if c.lat == nil || c.lng == nil {
			continue
		}
		if err := coordValidator.ValidateCoordinates(*c.lat, *c.lng); err != nil {
			return hoserrors.ValidationError(err.Error(), c.name, nil)
		}
	}

	return nil
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	page := database.Pagination{
		Page:     parseIntParam(r, "page", 1),
		PageSize: parseIntParam(r, "page_size", 20),
	}

	plans, total, err := h.svc.ListPlans(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	page.Total = total

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plans":       plans,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total":       page.Total,
		"total_pages": page.TotalPages(),
	})
}

func (h *Handler) getPlan(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/plans/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, hoserrors.ValidationError("invalid plan id", "id", idStr))
		return
	}

	plan, err := h.svc.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

func parseIntParam(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *hoserrors.AppError
	if !errors.As(err, &appErr) {
		appErr = hoserrors.Wrap(err, "INTERNAL_ERROR", "internal error")
	}

	status := statusForCode(appErr.Code)
	if status == http.StatusInternalServerError {
		// Never leak internal details to the client.
		writeJSON(w, status, map[string]interface{}{
			"code":    "INTERNAL_ERROR",
			"message": "internal error",
		})
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
		"details": appErr.Details,
	})
}

func statusForCode(code string) int {
	switch code {
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "NOT_FOUND":
		return http.StatusNotFound
	case "CONFLICT":
		return http.StatusConflict
	case "UPSTREAM_ERROR":
		return http.StatusBadGateway
	case "METHOD_NOT_ALLOWED":
		return http.StatusMethodNotAllowed
	case "DATABASE_ERROR":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
