// Package service orchestrates a trip-plan request end to end: resolve
// coordinates, fetch a route, run the HOS engine, interpolate stop
// positions, persist the result, and publish a domain event. None of
// this lives inside internal/engine — the engine stays pure.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/draymaster/hos-planner/internal/domain"
	"github.com/draymaster/hos-planner/internal/engine"
	"github.com/draymaster/hos-planner/internal/polyline"
	"github.com/draymaster/hos-planner/internal/repository"
	"github.com/draymaster/hos-planner/internal/routing"
	"github.com/draymaster/hos-planner/shared/pkg/database"
	hoserrors "github.com/draymaster/hos-planner/shared/pkg/errors"
	"github.com/draymaster/hos-planner/shared/pkg/kafka"
	"github.com/draymaster/hos-planner/shared/pkg/logger"
)

// PlanService computes and persists HOS trip plans.
type PlanService struct {
	tripPlanRepo  repository.TripPlanRepository
	routingClient *routing.Client
	redisClient   *redis.Client
	eventProducer *kafka.Producer
	logger        *logger.Logger
	planCacheTTL  time.Duration
}

// NewPlanService creates a new PlanService.
func NewPlanService(
	tripPlanRepo repository.TripPlanRepository,
	routingClient *routing.Client,
	redisClient *redis.Client,
	eventProducer *kafka.Producer,
	log *logger.Logger,
	planCacheTTL time.Duration,
) *PlanService {
	return &PlanService{
		tripPlanRepo:  tripPlanRepo,
		routingClient: routingClient,
		redisClient:   redisClient,
		eventProducer: eventProducer,
		logger:        log,
		planCacheTTL:  planCacheTTL,
	}
}

// CreatePlanInput is the validated request body of POST /plan.
type CreatePlanInput struct {
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	CycleUsedHours  float64

	// Optional pre-resolved coordinates; when absent, geocoded via the
	// routing provider.
	CurrentLat, CurrentLng   *float64
	PickupLat, PickupLng     *float64
	DropoffLat, DropoffLng   *float64
}

// CreatePlan geocodes missing coordinates, fetches directions, runs the
// HOS engine, interpolates stop positions, persists the plan, and
// publishes a completion event.
func (s *PlanService) CreatePlan(ctx context.Context, input CreatePlanInput) (*domain.TripPlan, error) {
	cacheKey := s.cacheKey(input)
	if cached, ok := s.readCache(ctx, cacheKey); ok {
		s.logger.Debugw("plan cache hit", "cache_key", cacheKey)
		return cached, nil
	}
	s.logger.Debugw("plan cache miss", "cache_key", cacheKey)

	curLat, curLng, err := s.resolveCoordinates(ctx, input.CurrentLat, input.CurrentLng, input.CurrentLocation)
	if err != nil {
		return nil, err
	}
	pickupLat, pickupLng, err := s.resolveCoordinates(ctx, input.PickupLat, input.PickupLng, input.PickupLocation)
	if err != nil {
		return nil, err
	}
	dropoffLat, dropoffLng, err := s.resolveCoordinates(ctx, input.DropoffLat, input.DropoffLng, input.DropoffLocation)
	if err != nil {
		return nil, err
	}

	route, err := s.routingClient.Directions(ctx, []routing.LngLat{
		{Lng: curLng, Lat: curLat},
		{Lng: pickupLng, Lat: pickupLat},
		{Lng: dropoffLng, Lat: dropoffLat},
	})
	if err != nil {
		return nil, err
	}

	totalMiles := route.DistanceMiles
	totalDriveMinutes := int(route.DurationMinutes)

	var leg1Miles, leg2Miles float64
	var leg1Minutes, leg2Minutes int
	var leg1MilesPtr, leg2MilesPtr *float64
	var leg1MinutesPtr, leg2MinutesPtr *int
	if len(route.Legs) >= 2 {
		leg1Miles, leg1Minutes = route.Legs[0].DistanceMiles, int(route.Legs[0].DurationMinutes)
		leg2Miles, leg2Minutes = route.Legs[1].DistanceMiles, int(route.Legs[1].DurationMinutes)
		leg1MilesPtr, leg1MinutesPtr = &leg1Miles, &leg1Minutes
		leg2MilesPtr, leg2MinutesPtr = &leg2Miles, &leg2Minutes
	}

	plan := engine.ComputePlan(engine.Input{
		TotalMiles:        totalMiles,
		TotalDriveMinutes: totalDriveMinutes,
		CycleUsedHours:    input.CycleUsedHours,
		PickupLabel:       input.PickupLocation,
		DropoffLabel:      input.DropoffLocation,
		PickupLat:         pickupLat,
		PickupLng:         pickupLng,
		DropoffLat:        dropoffLat,
		DropoffLng:        dropoffLng,
		StartDate:         time.Now().UTC().Truncate(24 * time.Hour),
		Leg1Miles:         leg1MilesPtr,
		Leg1Minutes:       leg1MinutesPtr,
		Leg2Miles:         leg2MilesPtr,
		Leg2Minutes:       leg2MinutesPtr,
	})

	polyline.InterpolateStops(plan.Stops, plan.Timeline, route.Geometry, totalDriveMinutes)

	tripPlan := toDomainTripPlan(input, curLat, curLng, pickupLat, pickupLng, dropoffLat, dropoffLng, totalMiles, totalDriveMinutes, route.Geometry, plan)

	if err := s.tripPlanRepo.Create(ctx, tripPlan); err != nil {
		s.logger.WithError(err).Errorw("failed to persist trip plan")
		return nil, hoserrors.DatabaseError("create_trip_plan", err)
	}

	s.publishPlanEvent(ctx, tripPlan)
	s.writeCache(ctx, cacheKey, tripPlan)

	s.logger.Infow("trip plan computed",
		"trip_plan_id", tripPlan.ID,
		"day_sheets", len(tripPlan.DailySheets),
		"planned_fuel_stops", tripPlan.PlannedFuelStops,
		"trip_completed", tripPlan.TripCompleted,
	)

	return tripPlan, nil
}

// GetPlan retrieves a persisted plan by ID.
func (s *PlanService) GetPlan(ctx context.Context, id uuid.UUID) (*domain.TripPlan, error) {
	plan, err := s.tripPlanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, hoserrors.DatabaseError("get_trip_plan", err)
	}
	if plan == nil {
		return nil, hoserrors.NotFoundError("trip plan", id.String())
	}
	return plan, nil
}

// ListPlans returns a page of plan summaries.
func (s *PlanService) ListPlans(ctx context.Context, page database.Pagination) ([]domain.TripPlan, int64, error) {
	plans, total, err := s.tripPlanRepo.List(ctx, page)
	if err != nil {
		return nil, 0, hoserrors.DatabaseError("list_trip_plans", err)
	}
	return plans, total, nil
}

func (s *PlanService) resolveCoordinates(ctx context.Context, lat, lng *float64, address string) (float64, float64, error) {
	if lat != nil && lng != nil {
		return *lat, *lng, nil
	}
	resolved, err := s.routingClient.Geocode(ctx, address)
	if err != nil {
		return 0, 0, err
	}
	return resolved.Lat, resolved.Lng, nil
}

func (s *PlanService) publishPlanEvent(ctx context.Context, plan *domain.TripPlan) {
	if s.eventProducer == nil {
		return
	}

	topic := kafka.Topics.TripPlanCompleted
	if !plan.TripCompleted {
		topic = kafka.Topics.TripPlanIncomplete
	}

	event := kafka.NewEvent(kafka.Topics.TripPlanCreated, "hos-planner", map[string]interface{}{
		"trip_plan_id":            plan.ID.String(),
		"trip_completed":          plan.TripCompleted,
		"remaining_drive_minutes": plan.RemainingDriveMinutes,
		"planned_fuel_stops":      plan.PlannedFuelStops,
	})
	_ = s.eventProducer.Publish(ctx, kafka.Topics.TripPlanCreated, event)
	_ = s.eventProducer.Publish(ctx, topic, event)
}

func (s *PlanService) cacheKey(input CreatePlanInput) string {
	canonical := fmt.Sprintf("%s|%s|%s|%.4f", input.CurrentLocation, input.PickupLocation, input.DropoffLocation, input.CycleUsedHours)
	sum := sha256.Sum256([]byte(canonical))
	return "hos:plan:" + hex.EncodeToString(sum[:])
}

func (s *PlanService) readCache(ctx context.Context, key string) (*domain.TripPlan, bool) {
	if s.redisClient == nil {
		return nil, false
	}
	raw, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var plan domain.TripPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, false
	}
	return &plan, true
}

func (s *PlanService) writeCache(ctx context.Context, key string, plan *domain.TripPlan) {
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, raw, s.planCacheTTL).Err(); err != nil {
		s.logger.WithError(err).Debugw("failed to write plan cache entry", "cache_key", key)
	}
}

func toDomainTripPlan(
	input CreatePlanInput,
	curLat, curLng, pickupLat, pickupLng, dropoffLat, dropoffLng float64,
	totalMiles float64, totalDriveMinutes int, routePolyline string,
	plan engine.Plan,
) *domain.TripPlan {
	tripPlan := &domain.TripPlan{
		CurrentLocation:       input.CurrentLocation,
		PickupLocation:        input.PickupLocation,
		DropoffLocation:       input.DropoffLocation,
		CycleUsedHours:        input.CycleUsedHours,
		RoutingProvider:       "openrouteservice",
		TotalMiles:            totalMiles,
		TotalDriveMinutes:     totalDriveMinutes,
		RoutePolyline:         routePolyline,
		CurrentLocationLat:    curLat,
		CurrentLocationLng:    curLng,
		PickupLocationLat:     pickupLat,
		PickupLocationLng:     pickupLng,
		DropoffLocationLat:    dropoffLat,
		DropoffLocationLng:    dropoffLng,
		TripCompleted:         plan.TripCompleted,
		RemainingDriveMinutes: plan.RemainingDriveMinutes,
		PlannedFuelStops:      plan.PlannedFuelStops,
		CreatedAt:             time.Now().UTC(),
	}

	for _, s := range plan.Stops {
		tripPlan.Stops = append(tripPlan.Stops, domain.Stop{
			Kind:              string(s.Kind),
			Lat:               s.Lat,
			Lng:               s.Lng,
			Label:             s.Label,
			StartMinuteGlobal: s.GlobalMinute,
			DurationMinutes:   s.Duration,
		})
	}

	for _, sheet := range plan.DailySheets {
		daySheet := domain.DailySheet{
			Date:            sheet.Date,
			TotalMilesToday: sheet.TotalMiles,
		}
		for _, seg := range sheet.Segments {
			daySheet.Segments = append(daySheet.Segments, domain.Segment{
				StartMinute:   seg.StartMinute,
				EndMinute:     seg.EndMinute,
				Status:        string(seg.Status),
				LocationLabel: seg.LocationLabel,
			})
		}
		tripPlan.DailySheets = append(tripPlan.DailySheets, daySheet)
	}

	return tripPlan
}
