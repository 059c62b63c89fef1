package domain

import (
	"fmt"
	"time"

	apperrors "recap/internal/platform/errors"
)

// SessionFacts are the facts the scheduler needs about a finished work
// session. The full summary lives with the session module; the scheduler
// only cares about identity and effort.
type SessionFacts struct {
	SessionID       string
	DurationMinutes int
	ActivityCount   int
}

func (f SessionFacts) Validate() error {
	if f.SessionID == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if f.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must be non-negative", apperrors.ErrInvalidInput)
	}
	if f.ActivityCount < 0 {
		return fmt.Errorf("%w: activity count must be non-negative", apperrors.ErrInvalidInput)
	}
	return nil
}

// Policy holds the scheduling knobs. It is constructed from project
// configuration at the boundary so the domain stays free of file formats.
type Policy struct {
	SameDayDelay      time.Duration
	NextDay           bool
	NextDayHour       int
	Weekly            bool
	WeeklyDay         time.Weekday
	MinSessionMinutes int
	MinActivities     int
	GracePeriod       time.Duration
}

// Eligible reports whether a session is substantial enough to quiz on.
// Both thresholds must hold; short or idle sessions schedule nothing.
func (p Policy) Eligible(f SessionFacts) bool {
	return f.DurationMinutes >= p.MinSessionMinutes && f.ActivityCount >= p.MinActivities
}

// Tiers lists the tiers enabled by this policy, in firing order.
func (p Policy) Tiers() []Tier {
	tiers := []Tier{TierSameDay}
	if p.NextDay {
		tiers = append(tiers, TierNextDay)
	}
	if p.Weekly {
		tiers = append(tiers, TierWeekly)
	}
	return tiers
}

// FireTime computes when a tier's quiz becomes due, relative to now.
// Wall-clock targets (next-day hour, weekly day) are computed in now's
// location so a 09:00 quiz means 09:00 on the user's clock.
func (p Policy) FireTime(tier Tier, now time.Time) (time.Time, error) {
	switch tier {
	case TierSameDay:
		return now.Add(p.SameDayDelay), nil
	case TierNextDay:
		day := now.AddDate(0, 0, 1)
		return time.Date(day.Year(), day.Month(), day.Day(), p.NextDayHour, 0, 0, 0, now.Location()), nil
	case TierWeekly:
		days := (int(p.WeeklyDay) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		day := now.AddDate(0, 0, days)
		return time.Date(day.Year(), day.Month(), day.Day(), p.NextDayHour, 0, 0, 0, now.Location()), nil
	case TierOnDemand:
		return now, nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown tier %q", apperrors.ErrInvalidInput, string(tier))
	}
}
