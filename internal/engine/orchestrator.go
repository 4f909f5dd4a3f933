package engine

import "time"

// Input bundles compute_plan's parameters (spec §4.3, §6.1). Leg1/Leg2
// overrides are optional; when absent, that leg defaults to a 30/70 split
// of the totals (leg 1 = 30%).
type Input struct {
	TotalMiles        float64
	TotalDriveMinutes int
	CycleUsedHours    float64

	PickupLabel    string
	DropoffLabel   string
	PickupLat      float64
	PickupLng      float64
	DropoffLat     float64
	DropoffLng     float64

	StartDate time.Time

	Leg1Miles   *float64
	Leg1Minutes *int
	Leg2Miles   *float64
	Leg2Minutes *int
}

// ComputePlan builds a full HOS-compliant plan from Input, sequencing
// drive-leg-1 -> pickup -> drive-leg-2 -> dropoff -> tail-fill, then
// slicing the resulting timeline into day sheets. It is a pure,
// synchronous function: the same Input always produces a structurally
// equal Plan (spec §8, T-10).
func ComputePlan(in Input) Plan {
	state := &driverState{
		cycleMinutes: roundToMinute(in.CycleUsedHours * 60),
	}

	leg1Miles, leg1Minutes, leg2Miles, leg2Minutes := resolveLegs(in)

	driveLeg(state, leg1Miles, leg1Minutes, "En route to pickup")

	insertOnDutyStop(state, PickupDuration, StopPickup, in.PickupLabel, in.PickupLat, in.PickupLng)

	driveLeg(state, leg2Miles, leg2Minutes, "En route to dropoff")

	insertOnDutyStop(state, DropoffDuration, StopDropoff, in.DropoffLabel, in.DropoffLat, in.DropoffLng)

	// Tail fill: round the final day out to exactly 1440 minutes. No
	// StopEvent is appended for this filler block.
	dayMinute := state.globalMinute % MinutesInDay
	if dayMinute > 0 {
		remaining := MinutesInDay - dayMinute
		state.timeline = append(state.timeline, TimelineEvent{
			Start:  state.globalMinute,
			End:    state.globalMinute + remaining,
			Status: OffDuty,
			Label:  "Off Duty",
		})
		state.globalMinute += remaining
	}

	actualDriven := 0
	for _, e := range state.timeline {
		if e.Status == Driving {
			actualDriven += e.End - e.Start
		}
	}
	remainingDrive := in.TotalDriveMinutes - actualDriven
	if remainingDrive < 0 {
		remainingDrive = 0
	}
	tripCompleted := remainingDrive == 0

	numFuelNeeded := int(in.TotalMiles / FuelIntervalMiles)
	actualFuelStops := 0
	for _, s := range state.stops {
		if s.Kind == StopFuel {
			actualFuelStops++
		}
	}
	plannedFuelStops := numFuelNeeded
	if actualFuelStops > plannedFuelStops {
		plannedFuelStops = actualFuelStops
	}

	dailySheets := buildDailySheets(state.timeline, in.StartDate)

	return Plan{
		Timeline:              state.timeline,
		Stops:                 state.stops,
		DailySheets:           dailySheets,
		TripCompleted:         tripCompleted,
		RemainingDriveMinutes: remainingDrive,
		PlannedFuelStops:      plannedFuelStops,
	}
}

// resolveLegs applies the 30/70 default split when either leg override
// pair is absent, truncating fractional minutes at the boundary.
func resolveLegs(in Input) (leg1Miles float64, leg1Minutes int, leg2Miles float64, leg2Minutes int) {
	if in.Leg1Miles != nil && in.Leg1Minutes != nil {
		leg1Miles = *in.Leg1Miles
		leg1Minutes = *in.Leg1Minutes
	} else {
		leg1Miles = in.TotalMiles * 0.30
		leg1Minutes = int(float64(in.TotalDriveMinutes) * 0.30)
	}

	if in.Leg2Miles != nil && in.Leg2Minutes != nil {
		leg2Miles = *in.Leg2Miles
		leg2Minutes = *in.Leg2Minutes
	} else {
		leg2Miles = in.TotalMiles - leg1Miles
		leg2Minutes = in.TotalDriveMinutes - leg1Minutes
	}
	return
}

func roundToMinute(minutes float64) float64 {
	if minutes < 0 {
		return 0
	}
	whole := int(minutes)
	frac := minutes - float64(whole)
	if frac >= 0.5 {
		whole++
	}
	return float64(whole)
}
