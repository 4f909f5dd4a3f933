package engine

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func countStops(plan Plan, kind StopKind) int {
	n := 0
	for _, s := range plan.Stops {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func totalDriving(plan Plan) int {
	n := 0
	for _, e := range plan.Timeline {
		if e.Status == Driving {
			n += e.End - e.Start
		}
	}
	return n
}

// perDutyPeriodDriving splits the timeline on SLEEPER events and sums
// DRIVING minutes within each resulting period.
func perDutyPeriodDriving(plan Plan) []int {
	var periods []int
	current := 0
	for _, e := range plan.Timeline {
		if e.Status == Sleeper {
			periods = append(periods, current)
			current = 0
			continue
		}
		if e.Status == Driving {
			current += e.End - e.Start
		}
	}
	periods = append(periods, current)
	return periods
}

// TestShortTrip covers spec §8 scenario 1.
func TestShortTrip(t *testing.T) {
	plan := ComputePlan(Input{
		TotalMiles:        150,
		TotalDriveMinutes: 180,
		CycleUsedHours:    0,
		PickupLabel:       "Pickup",
		DropoffLabel:      "Dropoff",
		StartDate:         mustDate(t, "2025-01-01"),
	})

	if countStops(plan, StopPickup) != 1 {
		t.Errorf("expected exactly one PICKUP stop, got %d", countStops(plan, StopPickup))
	}
	if countStops(plan, StopDropoff) != 1 {
		t.Errorf("expected exactly one DROPOFF stop, got %d", countStops(plan, StopDropoff))
	}
	for _, kind := range []StopKind{StopFuel, StopBreak30, StopOffDuty10} {
		if n := countStops(plan, kind); n != 0 {
			t.Errorf("expected no %s stops, got %d", kind, n)
		}
	}
	if !plan.TripCompleted {
		t.Error("expected trip_completed == true")
	}
	if plan.RemainingDriveMinutes != 0 {
		t.Errorf("expected remaining_drive_minutes == 0, got %d", plan.RemainingDriveMinutes)
	}
	for i, sheet := range plan.DailySheets {
		total := 0
		for _, seg := range sheet.Segments {
			total += seg.EndMinute - seg.StartMinute
		}
		if total != MinutesInDay {
			t.Errorf("sheet %d: segments sum to %d, want %d", i, total, MinutesInDay)
		}
	}
}

// TestBreakNeeded covers spec §8 scenario 2.
func TestBreakNeeded(t *testing.T) {
	plan := ComputePlan(Input{
		TotalMiles:        550,
		TotalDriveMinutes: 540,
		CycleUsedHours:    0,
		StartDate:         mustDate(t, "2025-01-01"),
	})

	found := false
	for _, s := range plan.Stops {
		if s.Kind == StopBreak30 && s.Duration == 30 {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one BREAK_30 stop of duration 30")
	}
}

// TestResetNeeded covers spec §8 scenario 3.
func TestResetNeeded(t *testing.T) {
	plan := ComputePlan(Input{
		TotalMiles:        800,
		TotalDriveMinutes: 780,
		CycleUsedHours:    0,
		StartDate:         mustDate(t, "2025-01-01"),
	})

	found := false
	for _, s := range plan.Stops {
		if s.Kind == StopOffDuty10 && s.Duration == 600 {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one OFF_DUTY_10 stop of duration 600")
	}
	for i, total := range perDutyPeriodDriving(plan) {
		if total > DriveLimit {
			t.Errorf("duty period %d drove %d minutes, exceeds %d", i, total, DriveLimit)
		}
	}
}

// TestCycleNearExhausted covers spec §8 scenario 4.
func TestCycleNearExhausted(t *testing.T) {
	plan := ComputePlan(Input{
		TotalMiles:        400,
		TotalDriveMinutes: 480,
		CycleUsedHours:    65,
		StartDate:         mustDate(t, "2025-01-01"),
	})

	if got := totalDriving(plan); got > 330 {
		t.Errorf("expected total DRIVING minutes <= 330, got %d", got)
	}
}

// TestFuelOnLongTrip covers spec §8 scenario 5.
func TestFuelOnLongTrip(t *testing.T) {
	plan := ComputePlan(Input{
		TotalMiles:        1500,
		TotalDriveMinutes: 1320,
		CycleUsedHours:    0,
		StartDate:         mustDate(t, "2025-01-01"),
	})

	found := false
	for _, s := range plan.Stops {
		if s.Kind == StopFuel && s.Duration == 30 {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one FUEL stop of duration 30")
	}
}

// TestLongHaulMultiDay covers spec §8 scenario 6.
func TestLongHaulMultiDay(t *testing.T) {
	plan := ComputePlan(Input{
		TotalMiles:        2504,
		TotalDriveMinutes: 3489,
		CycleUsedHours:    0,
		StartDate:         mustDate(t, "2025-01-01"),
	})

	if len(plan.DailySheets) < 5 {
		t.Errorf("expected >= 5 day sheets, got %d", len(plan.DailySheets))
	}
	if n := countStops(plan, StopFuel); n < 2 {
		t.Errorf("expected >= 2 FUEL stops, got %d", n)
	}
	if n := countStops(plan, StopBreak30); n < 4 {
		t.Errorf("expected >= 4 BREAK_30 stops, got %d", n)
	}
	if n := countStops(plan, StopOffDuty10); n < 4 {
		t.Errorf("expected >= 4 OFF_DUTY_10 stops, got %d", n)
	}
	if countStops(plan, StopPickup) != 1 || countStops(plan, StopDropoff) != 1 {
		t.Error("expected both PICKUP and DROPOFF stops")
	}
	for i, total := range perDutyPeriodDriving(plan) {
		if total > DriveLimit {
			t.Errorf("duty period %d drove %d minutes, exceeds %d", i, total, DriveLimit)
		}
	}
	for i, sheet := range plan.DailySheets {
		total := 0
		for _, seg := range sheet.Segments {
			total += seg.EndMinute - seg.StartMinute
		}
		if total != MinutesInDay {
			t.Errorf("sheet %d sums to %d, want %d", i, total, MinutesInDay)
		}
	}
}

// TestIncompleteTrip covers spec §8 scenario 7.
func TestIncompleteTrip(t *testing.T) {
	plan := ComputePlan(Input{
		TotalMiles:        1793,
		TotalDriveMinutes: 2512,
		CycleUsedHours:    69,
		StartDate:         mustDate(t, "2025-01-01"),
	})

	if plan.TripCompleted {
		t.Error("expected trip_completed == false")
	}
	want := 2512 - totalDriving(plan)
	if plan.RemainingDriveMinutes != want {
		t.Errorf("remaining_drive_minutes = %d, want %d", plan.RemainingDriveMinutes, want)
	}
	if plan.PlannedFuelStops < 1 {
		t.Errorf("expected planned_fuel_stops >= 1, got %d", plan.PlannedFuelStops)
	}
}

// TestTimelineContiguous is T-1.
func TestTimelineContiguous(t *testing.T) {
	plan := ComputePlan(Input{TotalMiles: 2504, TotalDriveMinutes: 3489, StartDate: mustDate(t, "2025-01-01")})
	if len(plan.Timeline) == 0 {
		t.Fatal("expected non-empty timeline")
	}
	if plan.Timeline[0].Start != 0 {
		t.Errorf("first event starts at %d, want 0", plan.Timeline[0].Start)
	}
	for i := 0; i+1 < len(plan.Timeline); i++ {
		if plan.Timeline[i].End != plan.Timeline[i+1].Start {
			t.Errorf("gap between event %d (end=%d) and %d (start=%d)", i, plan.Timeline[i].End, i+1, plan.Timeline[i+1].Start)
		}
	}
}

// TestStopCoverage is T-2.
func TestStopCoverage(t *testing.T) {
	plan := ComputePlan(Input{TotalMiles: 1500, TotalDriveMinutes: 1320, StartDate: mustDate(t, "2025-01-01")})
	for _, s := range plan.Stops {
		covered := false
		for _, e := range plan.Timeline {
			if e.Start == s.GlobalMinute && e.End == s.GlobalMinute+s.Duration {
				if e.Status != StatusFor(s.Kind) {
					t.Errorf("stop %s covered by status %s, want %s", s.Kind, e.Status, StatusFor(s.Kind))
				}
				covered = true
				break
			}
		}
		if !covered {
			t.Errorf("stop %s at %d not covered by any timeline event", s.Kind, s.GlobalMinute)
		}
	}
}

// TestDriveLimitPerPeriod is T-3.
func TestDriveLimitPerPeriod(t *testing.T) {
	plan := ComputePlan(Input{TotalMiles: 2504, TotalDriveMinutes: 3489, StartDate: mustDate(t, "2025-01-01")})
	for i, total := range perDutyPeriodDriving(plan) {
		if total > DriveLimit+1 {
			t.Errorf("duty period %d drove %d minutes, exceeds %d", i, total, DriveLimit+1)
		}
	}
}

// TestT4_BreakOrResetBetweenDrivingIntervals is T-4: cumulative DRIVING
// minutes since the last break (OffDuty, BreakDuration) or reset (Sleeper)
// event never exceeds BreakTrigger before one of those events occurs.
func TestT4_BreakOrResetBetweenDrivingIntervals(t *testing.T) {
	plan := ComputePlan(Input{TotalMiles: 2504, TotalDriveMinutes: 3489, StartDate: mustDate(t, "2025-01-01")})

	cumulative := 0
	for i, e := range plan.Timeline {
		switch e.Status {
		case Driving:
			cumulative += e.End - e.Start
			if cumulative > BreakTrigger {
				t.Errorf("timeline event %d: cumulative driving %d exceeds BreakTrigger %d before a break or reset", i, cumulative, BreakTrigger)
			}
		case OffDuty, Sleeper:
			cumulative = 0
		}
	}
}

// TestTotalDrivingBounded is T-5.
func TestTotalDrivingBounded(t *testing.T) {
	in := Input{TotalMiles: 400, TotalDriveMinutes: 480, CycleUsedHours: 65, StartDate: mustDate(t, "2025-01-01")}
	plan := ComputePlan(in)
	if totalDriving(plan) > in.TotalDriveMinutes {
		t.Errorf("total driving %d exceeds input %d", totalDriving(plan), in.TotalDriveMinutes)
	}
}

// TestT6_DailySheetMilesWithinTotal is T-6: the sum of DaySheet.TotalMiles
// (DRIVING miles attributed across all daily sheets) stays within
// total_miles + 1.
func TestT6_DailySheetMilesWithinTotal(t *testing.T) {
	in := Input{TotalMiles: 2504, TotalDriveMinutes: 3489, StartDate: mustDate(t, "2025-01-01")}
	plan := ComputePlan(in)

	sum := 0.0
	for _, sheet := range plan.DailySheets {
		sum += sheet.TotalMiles
	}
	if sum > in.TotalMiles+1 {
		t.Errorf("sum of daily sheet miles %.1f exceeds total_miles+1 %.1f", sum, in.TotalMiles+1)
	}
}

// TestDaySheetsSumTo1440 is T-7.
func TestDaySheetsSumTo1440(t *testing.T) {
	plan := ComputePlan(Input{TotalMiles: 2504, TotalDriveMinutes: 3489, StartDate: mustDate(t, "2025-01-01")})
	for i, sheet := range plan.DailySheets {
		total := 0
		for _, seg := range sheet.Segments {
			total += seg.EndMinute - seg.StartMinute
		}
		if total != MinutesInDay {
			t.Errorf("sheet %d sums to %d, want %d", i, total, MinutesInDay)
		}
	}
}

// TestPlannedFuelStops is T-8.
func TestPlannedFuelStops(t *testing.T) {
	plan := ComputePlan(Input{TotalMiles: 2504, TotalDriveMinutes: 3489, StartDate: mustDate(t, "2025-01-01")})
	floorMiles := 2504 / 1000
	if plan.PlannedFuelStops < floorMiles {
		t.Errorf("planned_fuel_stops %d < floor(total_miles/1000) %d", plan.PlannedFuelStops, floorMiles)
	}
	if plan.PlannedFuelStops < countStops(plan, StopFuel) {
		t.Errorf("planned_fuel_stops %d < actual FUEL stop count %d", plan.PlannedFuelStops, countStops(plan, StopFuel))
	}
}

// TestRemainingDriveMinutes is T-9.
func TestRemainingDriveMinutes(t *testing.T) {
	in := Input{TotalMiles: 1793, TotalDriveMinutes: 2512, CycleUsedHours: 69, StartDate: mustDate(t, "2025-01-01")}
	plan := ComputePlan(in)
	want := in.TotalDriveMinutes - totalDriving(plan)
	if want < 0 {
		want = 0
	}
	if plan.RemainingDriveMinutes != want {
		t.Errorf("remaining_drive_minutes = %d, want %d", plan.RemainingDriveMinutes, want)
	}
}

// TestDeterminism is T-10.
func TestDeterminism(t *testing.T) {
	in := Input{TotalMiles: 2504, TotalDriveMinutes: 3489, CycleUsedHours: 12, StartDate: mustDate(t, "2025-01-01")}
	a := ComputePlan(in)
	b := ComputePlan(in)

	if len(a.Timeline) != len(b.Timeline) || len(a.Stops) != len(b.Stops) || len(a.DailySheets) != len(b.DailySheets) {
		t.Fatal("two calls with identical inputs produced differently-shaped plans")
	}
	for i := range a.Timeline {
		if a.Timeline[i] != b.Timeline[i] {
			t.Errorf("timeline event %d differs between calls", i)
		}
	}
	if a.TripCompleted != b.TripCompleted || a.RemainingDriveMinutes != b.RemainingDriveMinutes || a.PlannedFuelStops != b.PlannedFuelStops {
		t.Error("scalar outputs differ between calls with identical inputs")
	}
}

// TestZeroDriveMinutes covers spec §7's "total_drive_minutes == 0" edge case.
func TestZeroDriveMinutes(t *testing.T) {
	plan := ComputePlan(Input{TotalMiles: 0, TotalDriveMinutes: 0, StartDate: mustDate(t, "2025-01-01")})
	if n := countStops(plan, StopFuel) + countStops(plan, StopBreak30) + countStops(plan, StopOffDuty10); n != 0 {
		t.Errorf("expected only pickup/dropoff/tail-fill with zero drive minutes, found %d other stops", n)
	}
	if countStops(plan, StopPickup) != 1 || countStops(plan, StopDropoff) != 1 {
		t.Error("expected pickup and dropoff even with zero drive minutes")
	}
}

// TestCycleAlreadyExhausted covers spec §7's "cycle_used_hours >= 70" edge case.
func TestCycleAlreadyExhausted(t *testing.T) {
	plan := ComputePlan(Input{TotalMiles: 500, TotalDriveMinutes: 600, CycleUsedHours: 70, StartDate: mustDate(t, "2025-01-01")})
	if plan.TripCompleted {
		t.Error("expected trip_completed == false when cycle is already exhausted")
	}
	if plan.RemainingDriveMinutes != 600 {
		t.Errorf("expected remaining_drive_minutes == total_drive_minutes (600), got %d", plan.RemainingDriveMinutes)
	}
	if totalDriving(plan) != 0 {
		t.Errorf("expected no driving when cycle is already exhausted, got %d minutes", totalDriving(plan))
	}
}

// TestLegOverrides exercises the optional per-leg (miles, minutes) inputs.
func TestLegOverrides(t *testing.T) {
	l1m, l1min := 100.0, 120
	l2m, l2min := 200.0, 240
	plan := ComputePlan(Input{
		TotalMiles:        300,
		TotalDriveMinutes: 360,
		Leg1Miles:         &l1m,
		Leg1Minutes:       &l1min,
		Leg2Miles:         &l2m,
		Leg2Minutes:       &l2min,
		StartDate:         mustDate(t, "2025-01-01"),
	})
	if !plan.TripCompleted {
		t.Error("expected trip_completed == true for an easily-completable trip with leg overrides")
	}
}
