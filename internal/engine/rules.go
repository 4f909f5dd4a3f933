// Package engine implements the FMCSA Hours-of-Service planning simulator:
// a deterministic, single-pass, single-threaded transform from a trip's
// total distance/drive-duration into a compliant timeline of duty-status
// blocks, stop events, and per-day log sheets.
//
// The engine is pure. It performs no I/O, reads no clock, and consumes no
// randomness; calling ComputePlan concurrently from goroutines with
// disjoint inputs is safe without synchronization because no state is
// shared across calls.
package engine

// Frozen regulatory limits. These are contractual: callers, tests, and
// wire formats depend on the exact values.
const (
	DriveLimit        = 11 * 60 // minutes of driving permitted per duty period
	WindowLimit       = 14 * 60 // minutes of elapsed on-duty window per duty period
	BreakTrigger      = 8 * 60  // cumulative driving minutes before a break is due
	BreakDuration     = 30
	OffDutyReset      = 10 * 60 // minutes of sleeper berth for a full reset
	CycleLimit        = 70 * 60 // rolling 70-hour/8-day on-duty budget, in minutes
	FuelIntervalMiles = 1000
	FuelDuration      = 30
	PickupDuration    = 60
	DropoffDuration   = 60
	AvgSpeedMPH       = 55
	MinutesInDay      = 1440
)

// DutyStatus is the closed set of duty statuses a TimelineEvent can carry.
type DutyStatus string

const (
	OffDuty           DutyStatus = "OFF_DUTY"
	Sleeper           DutyStatus = "SLEEPER"
	Driving           DutyStatus = "DRIVING"
	OnDutyNotDriving  DutyStatus = "ON_DUTY_NOT_DRIVING"
)

// StopKind is the closed set of discrete stop events the engine emits.
type StopKind string

const (
	StopFuel       StopKind = "FUEL"
	StopBreak30    StopKind = "BREAK_30"
	StopOffDuty10  StopKind = "OFF_DUTY_10"
	StopPickup     StopKind = "PICKUP"
	StopDropoff    StopKind = "DROPOFF"
)

// stopStatus is the §4.2 stop-kind to covering-duty-status mapping, read
// through StatusFor. The inserters set the same covering statuses
// directly on the timeline events they emit.
var stopStatus = map[StopKind]DutyStatus{
	StopFuel:      OnDutyNotDriving,
	StopBreak30:   OffDuty,
	StopOffDuty10: Sleeper,
	StopPickup:    OnDutyNotDriving,
	StopDropoff:   OnDutyNotDriving,
}

// StatusFor returns the DutyStatus that must cover a StopEvent of the
// given kind, per the §4.2 mapping table.
func StatusFor(kind StopKind) DutyStatus {
	return stopStatus[kind]
}
