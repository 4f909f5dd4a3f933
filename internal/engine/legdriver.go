package engine

// driveLeg simulates driving a leg of `miles`/`minutes`, inserting breaks,
// resets, and fuel stops as the regulatory limits require. It consults the
// state's counters in the fixed priority order mandated by spec §4.4: any
// trigger runs its inserter and restarts the loop without driving that
// iteration. Reordering these checks changes which stops appear when a
// trip is tight against multiple limits simultaneously — do not reorder.
func driveLeg(state *driverState, miles float64, minutes int, label string) {
	remainingMiles := miles
	remainingMinutes := minutes

	for remainingMinutes > 0 {
		// 1. Cycle exhausted is terminal for the leg: the remainder stays
		// undriven and contributes to RemainingDriveMinutes.
		cycleRemaining := CycleLimit - state.cycleMinutes
		if cycleRemaining <= 0 {
			break
		}

		// 2. A fresh window or drive period cannot proceed without a reset.
		windowRemaining := WindowLimit - state.onDutyMinutes
		driveRemaining := DriveLimit - state.driveMinutes
		if windowRemaining <= 0 || driveRemaining <= 0 {
			insertReset(state)
			continue
		}

		// 3. A break is required before any further driving past 8h.
		if state.cumulativeDrive >= BreakTrigger {
			insertBreak(state, label)
			continue
		}

		// 4. Fuel is a lower-severity operational interrupt.
		if state.milesSinceFuel >= FuelIntervalMiles {
			insertFuelStop(state, label)
			continue
		}

		maxDrive := min(
			remainingMinutes,
			int(driveRemaining),
			int(windowRemaining),
			int(cycleRemaining),
			BreakTrigger-state.cumulativeDrive,
		)

		var speedMPH float64
		if remainingMinutes > 0 {
			speedMPH = remainingMiles / float64(remainingMinutes) * 60
		} else {
			speedMPH = AvgSpeedMPH
		}
		milesUntilFuel := FuelIntervalMiles - state.milesSinceFuel
		minutesUntilFuel := maxDrive
		if speedMPH > 0 {
			minutesUntilFuel = int(milesUntilFuel / max(speedMPH, 1) * 60)
		}
		maxDrive = min(maxDrive, max(1, minutesUntilFuel))

		if maxDrive <= 0 {
			maxDrive = 1 // safety: always advance
		}

		denom := remainingMinutes
		if denom < 1 {
			denom = 1
		}
		chunkMiles := (float64(maxDrive) / float64(denom)) * remainingMiles

		state.timeline = append(state.timeline, TimelineEvent{
			Start:  state.globalMinute,
			End:    state.globalMinute + maxDrive,
			Status: Driving,
			Label:  label,
			Miles:  chunkMiles,
		})

		state.globalMinute += maxDrive
		state.driveMinutes += maxDrive
		state.onDutyMinutes += maxDrive
		state.cumulativeDrive += maxDrive
		state.cycleMinutes += float64(maxDrive)
		state.milesSinceFuel += chunkMiles

		remainingMinutes -= maxDrive
		remainingMiles -= chunkMiles
	}
}
