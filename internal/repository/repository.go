package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/draymaster/hos-planner/internal/domain"
	"github.com/draymaster/hos-planner/shared/pkg/database"
)

// TripPlanRepository persists trip plans and their children verbatim.
// The engine emits no identifiers (spec §6.3); IDs are assigned here, at
// insert time.
type TripPlanRepository interface {
	Create(ctx context.Context, plan *domain.TripPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TripPlan, error)
	List(ctx context.Context, page database.Pagination) ([]domain.TripPlan, int64, error)
}
