package engine

import "time"

// TimelineEvent is a half-open interval [Start, End) of global minutes
// carrying one DutyStatus, a free-text label, and a miles attribution
// (nonzero only for Driving events). Invariant: End > Start.
type TimelineEvent struct {
	Start  int
	End    int
	Status DutyStatus
	Label  string
	Miles  float64
}

// StopEvent is a point-like record of an operational stop. Exactly one
// TimelineEvent covers the same interval, with the DutyStatus prescribed
// by stopStatus. Lat/Lng default to zero and are populated either at
// source (pickup/dropoff) or later by an external polyline interpolator.
type StopEvent struct {
	Kind         StopKind
	GlobalMinute int
	Duration     int
	Label        string
	Lat          float64
	Lng          float64
}

// Segment is one intra-day slice of a DaySheet: [StartMinute, EndMinute)
// in [0, 1440], carrying a DutyStatus and a location label.
type Segment struct {
	StartMinute    int
	EndMinute      int
	Status         DutyStatus
	LocationLabel  string
}

// DaySheet is a calendar date plus its ordered, contiguous segments.
// Invariant: segments cover exactly [0, 1440) and sum to 1440 minutes.
type DaySheet struct {
	Date       time.Time
	Segments   []Segment
	TotalMiles float64
}

// driverState is the mutable counter bundle advanced through the
// simulation. It is internal: callers never see it, only the Plan it
// produces. Inserters take it by pointer and mutate it directly; there is
// no other owner and no aliasing.
type driverState struct {
	globalMinute    int
	driveMinutes    int     // driving accumulated in the current duty period
	onDutyMinutes   int     // elapsed minutes in the current 14-h window
	cumulativeDrive int     // driving minutes since the last break/reset
	cycleMinutes    float64 // total on-duty + driving in the 70-h budget
	milesSinceFuel  float64

	timeline []TimelineEvent
	stops    []StopEvent
}

// Plan is the engine's complete output: exactly the six fields named in
// spec §6.2, nothing more.
type Plan struct {
	Timeline              []TimelineEvent
	Stops                 []StopEvent
	DailySheets           []DaySheet
	TripCompleted         bool
	RemainingDriveMinutes int
	PlannedFuelStops      int
}
