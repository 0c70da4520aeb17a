package service

import (
	"fmt"
	"regexp"
	"time"

	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
)

// TimeLayout is the wall-clock form accepted for reservation boundaries.
const TimeLayout = "2006-01-02T15:04"

var slotTimeRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])T([01]\d|2[0-3]):(00|30)$`)

const (
	ReasonFormat        = "format"
	ReasonDate          = "date"
	ReasonCrossDay      = "cross_day"
	ReasonBusinessHours = "business_hours"
	ReasonDuration      = "duration"
	ReasonFields        = "fields"
	ReasonPage          = "page"
)

type TimeSlotRules struct {
	OpeningMinute int
	ClosingMinute int
	MinDuration   time.Duration
	MaxDuration   time.Duration
	Location      *time.Location
}

// RulesFromPolicy converts a validated booking policy into slot rules.
func RulesFromPolicy(p config.BookingPolicy) (TimeSlotRules, error) {
	loc, err := p.Location()
	if err != nil {
		return TimeSlotRules{}, fmt.Errorf("failed to load booking timezone: %w", err)
	}
	return TimeSlotRules{
		OpeningMinute: p.OpeningMinute(),
		ClosingMinute: p.ClosingMinute(),
		MinDuration:   p.MinDuration,
		MaxDuration:   p.MaxDuration,
		Location:      loc,
	}, nil
}

type TimeSlotValidator struct {
	rules TimeSlotRules
}

func NewTimeSlotValidator(rules TimeSlotRules) *TimeSlotValidator {
	if rules.Location == nil {
		rules.Location = time.UTC
	}
	return &TimeSlotValidator{rules: rules}
}

// Validate parses a proposed window and checks it against the rules. The
// first violated rule decides the error reason.
func (v *TimeSlotValidator) Validate(startTime, endTime string) (time.Time, time.Time, error) {
	if !slotTimeRegex.MatchString(startTime) || !slotTimeRegex.MatchString(endTime) {
		return time.Time{}, time.Time{}, apperrors.MalformedInput(ReasonFormat,
			fmt.Sprintf("start_time and end_time must look like 2024-05-30T12:00 with minutes 00 or 30, got %q and %q", startTime, endTime))
	}

	start, err := time.ParseInLocation(TimeLayout, startTime, v.rules.Location)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.MalformedInput(ReasonDate, fmt.Sprintf("start_time is not a valid date: %s", startTime))
	}
	end, err := time.ParseInLocation(TimeLayout, endTime, v.rules.Location)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.MalformedInput(ReasonDate, fmt.Sprintf("end_time is not a valid date: %s", endTime))
	}

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		return time.Time{}, time.Time{}, apperrors.MalformedInput(ReasonCrossDay, "start_time and end_time must be on the same day")
	}

	if minuteOfDay(start) < v.rules.OpeningMinute {
		return time.Time{}, time.Time{}, apperrors.MalformedInput(ReasonBusinessHours,
			fmt.Sprintf("reservation must start at or after %s", clockString(v.rules.OpeningMinute)))
	}
	if minuteOfDay(end) > v.rules.ClosingMinute {
		return time.Time{}, time.Time{}, apperrors.MalformedInput(ReasonBusinessHours,
			fmt.Sprintf("reservation must end at or before %s", clockString(v.rules.ClosingMinute)))
	}

	duration := end.Sub(start)
	if duration < v.rules.MinDuration || duration > v.rules.MaxDuration {
		return time.Time{}, time.Time{}, apperrors.MalformedInput(ReasonDuration,
			fmt.Sprintf("reservation must last between %s and %s", v.rules.MinDuration, v.rules.MaxDuration))
	}

	return start.UTC(), end.UTC(), nil
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func clockString(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// Location is the zone wall-clock times are interpreted in.
func (v *TimeSlotValidator) Location() *time.Location {
	return v.rules.Location
}
