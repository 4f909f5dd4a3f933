// Package domain holds the persistence/wire-shape structs for trip plans
// and their children, mirroring the schema of
// original_source/backend/trips/models.py: a TripPlan with cascading
// Stop, DailySheet, and Segment children. The engine (internal/engine)
// knows nothing of these types or of identifiers — they are assigned at
// the repository boundary, per spec §6.3 ("the engine emits no
// identifiers").
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripPlan is the persisted record of one computed plan.
type TripPlan struct {
	ID                    uuid.UUID
	CurrentLocation       string
	PickupLocation        string
	DropoffLocation       string
	CycleUsedHours        float64
	RoutingProvider       string
	TotalMiles            float64
	TotalDriveMinutes     int
	RoutePolyline         string
	CurrentLocationLat    float64
	CurrentLocationLng    float64
	PickupLocationLat     float64
	PickupLocationLng     float64
	DropoffLocationLat    float64
	DropoffLocationLng    float64
	TripCompleted         bool
	RemainingDriveMinutes int
	PlannedFuelStops      int
	CreatedAt             time.Time

	Stops       []Stop
	DailySheets []DailySheet
}

// Stop is one persisted StopEvent, scoped to its parent TripPlan.
type Stop struct {
	ID                uuid.UUID
	TripPlanID        uuid.UUID
	Kind              string
	Lat               float64
	Lng               float64
	Label             string
	StartMinuteGlobal int
	DurationMinutes   int
}

// DailySheet is one persisted per-calendar-day log sheet.
type DailySheet struct {
	ID             uuid.UUID
	TripPlanID     uuid.UUID
	Date           time.Time
	TotalMilesToday float64

	Segments []Segment
}

// Segment is one persisted intra-day duty-status slice.
type Segment struct {
	ID            uuid.UUID
	DailySheetID  uuid.UUID
	StartMinute   int
	EndMinute     int
	Status        string
	LocationLabel string
}
