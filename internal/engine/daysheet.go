package engine

import (
	"math"
	"time"
)

// buildDailySheets slices the global timeline into per-calendar-day
// sheets (§4.7). Each day's segments are clipped to [d*1440, (d+1)*1440),
// miles are attributed by duration fraction, and adjacent segments of
// equal status are merged.
func buildDailySheets(timeline []TimelineEvent, startDate time.Time) []DaySheet {
	if len(timeline) == 0 {
		return nil
	}

	totalMinutes := timeline[len(timeline)-1].End
	numDays := int(math.Ceil(float64(totalMinutes) / MinutesInDay))

	sheets := make([]DaySheet, 0, numDays)

	for dayIdx := 0; dayIdx < numDays; dayIdx++ {
		dayStart := dayIdx * MinutesInDay
		dayEnd := dayStart + MinutesInDay
		currentDate := startDate.AddDate(0, 0, dayIdx)

		var segments []Segment
		dayMiles := 0.0

		for _, evt := range timeline {
			if evt.End <= dayStart || evt.Start >= dayEnd {
				continue
			}
			segStart := max(evt.Start, dayStart) - dayStart
			segEnd := min(evt.End, dayEnd) - dayStart
			if segStart >= segEnd {
				continue
			}

			evtDuration := evt.End - evt.Start
			if evtDuration > 0 && evt.Miles > 0 {
				fraction := float64(segEnd-segStart) / float64(evtDuration)
				dayMiles += evt.Miles * fraction
			}

			segments = append(segments, Segment{
				StartMinute:   segStart,
				EndMinute:     segEnd,
				Status:        evt.Status,
				LocationLabel: evt.Label,
			})
		}

		merged := mergeSegments(segments)

		sheets = append(sheets, DaySheet{
			Date:       currentDate,
			Segments:   merged,
			TotalMiles: math.Round(dayMiles*10) / 10,
		})
	}

	return sheets
}

// mergeSegments merges consecutive segments sharing a status whose
// boundaries touch, keeping the later non-empty label.
func mergeSegments(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}
	merged := []Segment{segments[0]}
	for _, seg := range segments[1:] {
		last := &merged[len(merged)-1]
		if seg.Status == last.Status && seg.StartMinute == last.EndMinute {
			last.EndMinute = seg.EndMinute
			if seg.LocationLabel != "" {
				last.LocationLabel = seg.LocationLabel
			}
		} else {
			merged = append(merged, seg)
		}
	}
	return merged
}
