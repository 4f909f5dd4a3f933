package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/draymaster/hos-planner/internal/domain"
	"github.com/draymaster/hos-planner/shared/pkg/database"
)

// PostgresTripPlanRepository implements TripPlanRepository on pgx/v5,
// mirroring the schema of original_source/backend/trips/models.py:
// trip_plans -> stops / daily_sheets -> segments, all cascade-deleted
// with their parent.
type PostgresTripPlanRepository struct {
	db *database.DB
}

// NewPostgresTripPlanRepository creates a new PostgreSQL-backed repository.
func NewPostgresTripPlanRepository(db *database.DB) *PostgresTripPlanRepository {
	return &PostgresTripPlanRepository{db: db}
}

// Create persists a TripPlan and all of its children in a single
// transaction, assigning a fresh UUID to each row that does not already
// carry one.
func (r *PostgresTripPlanRepository) Create(ctx context.Context, plan *domain.TripPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO trip_plans (
				id, current_location, pickup_location, dropoff_location, cycle_used_hours,
				routing_provider, total_miles, total_drive_minutes, route_polyline,
				current_location_lat, current_location_lng,
				pickup_location_lat, pickup_location_lng,
				dropoff_location_lat, dropoff_location_lng,
				trip_completed, remaining_drive_minutes, planned_fuel_stops, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
			plan.ID, plan.CurrentLocation, plan.PickupLocation, plan.DropoffLocation, plan.CycleUsedHours,
			plan.RoutingProvider, plan.TotalMiles, plan.TotalDriveMinutes, plan.RoutePolyline,
			plan.CurrentLocationLat, plan.CurrentLocationLng,
			plan.PickupLocationLat, plan.PickupLocationLng,
			plan.DropoffLocationLat, plan.DropoffLocationLng,
			plan.TripCompleted, plan.RemainingDriveMinutes, plan.PlannedFuelStops, plan.CreatedAt,
		)
		if err != nil {
			return err
		}

		for i := range plan.Stops {
			s := &plan.Stops[i]
			if s.ID == uuid.Nil {
				s.ID = uuid.New()
			}
			s.TripPlanID = plan.ID
			_, err := tx.Exec(ctx, `
				INSERT INTO stops (id, trip_plan_id, kind, lat, lng, label, start_minute_global, duration_minutes)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				s.ID, s.TripPlanID, s.Kind, s.Lat, s.Lng, s.Label, s.StartMinuteGlobal, s.DurationMinutes,
			)
			if err != nil {
				return err
			}
		}

		for i := range plan.DailySheets {
			sheet := &plan.DailySheets[i]
			if sheet.ID == uuid.Nil {
				sheet.ID = uuid.New()
			}
			sheet.TripPlanID = plan.ID
			_, err := tx.Exec(ctx, `
				INSERT INTO daily_sheets (id, trip_plan_id, date, total_miles_today)
				VALUES ($1,$2,$3,$4)`,
				sheet.ID, sheet.TripPlanID, sheet.Date, sheet.TotalMilesToday,
			)
			if err != nil {
				return err
			}

			for j := range sheet.Segments {
				seg := &sheet.Segments[j]
				if seg.ID == uuid.Nil {
					seg.ID = uuid.New()
				}
				seg.DailySheetID = sheet.ID
				_, err := tx.Exec(ctx, `
					INSERT INTO segments (id, daily_sheet_id, start_minute, end_minute, status, location_label)
					VALUES ($1,$2,$3,$4,$5,$6)`,
					seg.ID, seg.DailySheetID, seg.StartMinute, seg.EndMinute, seg.Status, seg.LocationLabel,
				)
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// GetByID loads a TripPlan with all of its stops, daily sheets, and segments.
func (r *PostgresTripPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TripPlan, error) {
	var plan domain.TripPlan
	plan.ID = id

	row := r.db.Pool.QueryRow(ctx, `
		SELECT current_location, pickup_location, dropoff_location, cycle_used_hours,
			routing_provider, total_miles, total_drive_minutes, route_polyline,
			current_location_lat, current_location_lng,
			pickup_location_lat, pickup_location_lng,
			dropoff_location_lat, dropoff_location_lng,
			trip_completed, remaining_drive_minutes, planned_fuel_stops, created_at
		FROM trip_plans WHERE id = $1`, id)

	err := row.Scan(
		&plan.CurrentLocation, &plan.PickupLocation, &plan.DropoffLocation, &plan.CycleUsedHours,
		&plan.RoutingProvider, &plan.TotalMiles, &plan.TotalDriveMinutes, &plan.RoutePolyline,
		&plan.CurrentLocationLat, &plan.CurrentLocationLng,
		&plan.PickupLocationLat, &plan.PickupLocationLng,
		&plan.DropoffLocationLat, &plan.DropoffLocationLng,
		&plan.TripCompleted, &plan.RemainingDriveMinutes, &plan.PlannedFuelStops, &plan.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	stopRows, err := r.db.Pool.Query(ctx, `
		SELECT id, kind, lat, lng, label, start_minute_global, duration_minutes
		FROM stops WHERE trip_plan_id = $1 ORDER BY start_minute_global`, id)
	if err != nil {
		return nil, err
	}
	defer stopRows.Close()
	for stopRows.Next() {
		var s domain.Stop
		s.TripPlanID = id
		if err := stopRows.Scan(&s.ID, &s.Kind, &s.Lat, &s.Lng, &s.Label, &s.StartMinuteGlobal, &s.DurationMinutes); err != nil {
			return nil, err
		}
		plan.Stops = append(plan.Stops, s)
	}

	sheetRows, err := r.db.Pool.Query(ctx, `
		SELECT id, date, total_miles_today FROM daily_sheets WHERE trip_plan_id = $1 ORDER BY date`, id)
	if err != nil {
		return nil, err
	}
	defer sheetRows.Close()
	for sheetRows.Next() {
		var sheet domain.DailySheet
		sheet.TripPlanID = id
		if err := sheetRows.Scan(&sheet.ID, &sheet.Date, &sheet.TotalMilesToday); err != nil {
			return nil, err
		}

		segRows, err := r.db.Pool.Query(ctx, `
			SELECT id, start_minute, end_minute, status, location_label
			FROM segments WHERE daily_sheet_id = $1 ORDER BY start_minute`, sheet.ID)
		if err != nil {
			return nil, err
		}
		for segRows.Next() {
			var seg domain.Segment
			seg.DailySheetID = sheet.ID
			if err := segRows.Scan(&seg.ID, &seg.StartMinute, &seg.EndMinute, &seg.Status, &seg.LocationLabel); err != nil {
				segRows.Close()
				return nil, err
			}
			sheet.Segments = append(sheet.Segments, seg)
		}
		segRows.Close()

		plan.DailySheets = append(plan.DailySheets, sheet)
	}

	return &plan, nil
}

// List returns a page of plan summaries ordered by created_at descending,
// alongside the total row count for pagination.
func (r *PostgresTripPlanRepository) List(ctx context.Context, page database.Pagination) ([]domain.TripPlan, int64, error) {
	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM trip_plans`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, current_location, pickup_location, dropoff_location,
			trip_completed, remaining_drive_minutes, planned_fuel_stops, created_at
		FROM trip_plans ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plans []domain.TripPlan
	for rows.Next() {
		var p domain.TripPlan
		if err := rows.Scan(&p.ID, &p.CurrentLocation, &p.PickupLocation, &p.DropoffLocation,
			&p.TripCompleted, &p.RemainingDriveMinutes, &p.PlannedFuelStops, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		plans = append(plans, p)
	}

	return plans, total, nil
}
