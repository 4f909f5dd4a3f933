package engine

// insertBreak emits a mandatory 30-minute break (§4.2: BREAK_30 maps to
// OffDuty). It counts toward the 14-hour window and resets the 8-hour
// cumulative-driving counter; it does not touch cycle_minutes.
func insertBreak(state *driverState, label string) {
	state.stops = append(state.stops, StopEvent{
		Kind:         StopBreak30,
		GlobalMinute: state.globalMinute,
		Duration:     BreakDuration,
		Label:        "30-min break — " + label,
	})
	state.timeline = append(state.timeline, TimelineEvent{
		Start:  state.globalMinute,
		End:    state.globalMinute + BreakDuration,
		Status: OffDuty,
		Label:  "30-min break",
	})
	state.globalMinute += BreakDuration
	state.onDutyMinutes += BreakDuration
	state.cumulativeDrive = 0
}

// insertReset emits a 10-hour off-duty reset (§4.5). It zeroes
// drive_minutes, on_duty_minutes, and cumulative_drive but — deliberately
// — never touches cycle_minutes, miles_since_fuel, or the 70-hour budget.
func insertReset(state *driverState) {
	state.stops = append(state.stops, StopEvent{
		Kind:         StopOffDuty10,
		GlobalMinute: state.globalMinute,
		Duration:     OffDutyReset,
		Label:        "10-hour off-duty reset",
	})
	state.timeline = append(state.timeline, TimelineEvent{
		Start:  state.globalMinute,
		End:    state.globalMinute + OffDutyReset,
		Status: Sleeper,
		Label:  "10-hour sleeper berth reset",
	})
	state.globalMinute += OffDutyReset
	state.driveMinutes = 0
	state.onDutyMinutes = 0
	state.cumulativeDrive = 0
}

// insertFuelStop emits a 30-minute fuel stop (§4.2: FUEL maps to
// OnDutyNotDriving). Both the window and the 70-hour cycle absorb the
// duration; miles_since_fuel resets to zero.
func insertFuelStop(state *driverState, label string) {
	state.stops = append(state.stops, StopEvent{
		Kind:         StopFuel,
		GlobalMinute: state.globalMinute,
		Duration:     FuelDuration,
		Label:        "Fuel stop — " + label,
	})
	state.timeline = append(state.timeline, TimelineEvent{
		Start:  state.globalMinute,
		End:    state.globalMinute + FuelDuration,
		Status: OnDutyNotDriving,
		Label:  "Fuel stop",
	})
	state.globalMinute += FuelDuration
	state.onDutyMinutes += FuelDuration
	state.cycleMinutes += FuelDuration
	state.milesSinceFuel = 0
}

// insertOnDutyStop emits a pickup/dropoff on-duty-not-driving stop
// (§4.6). If the remaining window cannot absorb the stop's duration, a
// 10-hour reset is inserted first — this check does not also consult the
// 70-hour cycle; preserved per spec §9's documented quirk.
func insertOnDutyStop(state *driverState, duration int, kind StopKind, label string, lat, lng float64) {
	windowRemaining := WindowLimit - state.onDutyMinutes
	if windowRemaining < duration {
		insertReset(state)
	}

	state.stops = append(state.stops, StopEvent{
		Kind:         kind,
		GlobalMinute: state.globalMinute,
		Duration:     duration,
		Label:        label,
		Lat:          lat,
		Lng:          lng,
	})
	state.timeline = append(state.timeline, TimelineEvent{
		Start:  state.globalMinute,
		End:    state.globalMinute + duration,
		Status: OnDutyNotDriving,
		Label:  label,
	})
	state.globalMinute += duration
	state.onDutyMinutes += duration
	state.cycleMinutes += float64(duration)
}
