package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
)

func defaultRules() TimeSlotRules {
	return TimeSlotRules{
		OpeningMinute: 600,
		ClosingMinute: 1320,
		MinDuration:   30 * time.Minute,
		MaxDuration:   2 * time.Hour,
		Location:      time.UTC,
	}
}

func TestTimeSlotValidator_Accepts(t *testing.T) {
	v := NewTimeSlotValidator(defaultRules())

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"shortest", "2024-05-30T12:00", "2024-05-30T12:30"},
		{"longest", "2024-05-30T12:00", "2024-05-30T14:00"},
		{"at opening", "2024-05-30T10:00", "2024-05-30T10:30"},
		{"until closing", "2024-05-30T21:00", "2024-05-30T22:00"},
		{"leap day", "2024-02-29T15:30", "2024-02-29T16:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := v.Validate(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start.Format(TimeLayout))
			assert.Equal(t, tt.end, end.Format(TimeLayout))
			assert.True(t, start.Before(end))
		})
	}
}

// Every case violates exactly one rule.
func TestTimeSlotValidator_Rejects(t *testing.T) {
	v := NewTimeSlotValidator(defaultRules())

	tests := []struct {
		name       string
		start      string
		end        string
		wantReason string
	}{
		{"misaligned start minute", "2024-05-30T10:29", "2024-05-30T11:00", ReasonFormat},
		{"misaligned end minute", "2024-05-30T10:30", "2024-05-30T10:31", ReasonFormat},
		{"seconds present", "2024-05-30T10:00:00", "2024-05-30T10:30", ReasonFormat},
		{"space separator", "2024-05-30 10:00", "2024-05-30T10:30", ReasonFormat},
		{"hour 24", "2024-05-30T24:00", "2024-05-30T10:30", ReasonFormat},
		{"month 13", "2024-13-01T10:00", "2024-13-01T10:30", ReasonFormat},
		{"empty", "", "2024-05-30T10:30", ReasonFormat},
		{"february 30", "2024-02-30T12:00", "2024-02-30T12:30", ReasonDate},
		{"february 29 non leap", "2023-02-29T12:00", "2023-02-29T12:30", ReasonDate},
		{"april 31", "2024-04-31T12:00", "2024-04-31T12:30", ReasonDate},
		{"cross midnight", "2024-05-30T21:30", "2024-05-31T10:00", ReasonCrossDay},
		{"before opening", "2024-05-30T09:00", "2024-05-30T09:30", ReasonBusinessHours},
		{"straddles opening", "2024-05-30T09:30", "2024-05-30T10:30", ReasonBusinessHours},
		{"after closing", "2024-05-30T21:30", "2024-05-30T22:30", ReasonBusinessHours},
		{"too long", "2024-05-30T12:00", "2024-05-30T14:30", ReasonDuration},
		{"empty window", "2024-05-30T12:00", "2024-05-30T12:00", ReasonDuration},
		{"end before start", "2024-05-30T13:00", "2024-05-30T12:00", ReasonDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := v.Validate(tt.start, tt.end)
			require.Error(t, err)

			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
			assert.Equal(t, tt.wantReason, appErr.Details["reason"])
		})
	}
}

// Walks every aligned window of one day and checks the validator agrees with
// the rules computed independently.
func TestTimeSlotValidator_ExhaustiveDay(t *testing.T) {
	rules := defaultRules()
	v := NewTimeSlotValidator(rules)
	day := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)

	for s := 0; s < 24*60; s += 30 {
		for e := s; e <= 24*60-30; e += 30 {
			start := day.Add(time.Duration(s) * time.Minute)
			end := day.Add(time.Duration(e) * time.Minute)

			want := s >= rules.OpeningMinute &&
				e <= rules.ClosingMinute &&
				time.Duration(e-s)*time.Minute >= rules.MinDuration &&
				time.Duration(e-s)*time.Minute <= rules.MaxDuration

			_, _, err := v.Validate(start.Format(TimeLayout), end.Format(TimeLayout))
			if want {
				assert.NoError(t, err, "%s-%s", start.Format("15:04"), end.Format("15:04"))
			} else {
				assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err), "%s-%s", start.Format("15:04"), end.Format("15:04"))
			}
		}
	}
}

func TestTimeSlotValidator_Location(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	rules := defaultRules()
	rules.Location = seoul
	v := NewTimeSlotValidator(rules)

	start, end, err := v.Validate("2024-05-30T12:00", "2024-05-30T12:30")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 30, 3, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 30, 3, 30, 0, 0, time.UTC), end)
	assert.Equal(t, "2024-05-30 12:00 - 12:30", FormatReservedTime(start, end, v.Location()))
}

func TestRulesFromPolicy(t *testing.T) {
	rules, err := RulesFromPolicy(config.BookingPolicy{
		OpeningTime: "09:30",
		ClosingTime: "18:00",
		MinDuration: time.Hour,
		MaxDuration: 3 * time.Hour,
		TimeZone:    "UTC",
	})
	require.NoError(t, err)

	assert.Equal(t, 570, rules.OpeningMinute)
	assert.Equal(t, 1080, rules.ClosingMinute)
	assert.Equal(t, time.Hour, rules.MinDuration)
	assert.Equal(t, time.UTC, rules.Location)

	_, err = RulesFromPolicy(config.BookingPolicy{TimeZone: "Nowhere/Land"})
	assert.Error(t, err)
}
