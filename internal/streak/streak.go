package streak

import (
	"time"

	"github.com/google/uuid"

	"fitTrackAPI/internal/activity"
)

// Streak tracks consecutive calendar days with at least one logged activity
// of a kind. One row per (user_id, kind).
type Streak struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	Kind          activity.Kind `json:"kind" db:"kind"`
	CurrentStreak int           `json:"current_streak" db:"current_streak"`
	BestStreak    int           `json:"best_streak" db:"best_streak"`
	LastUpdated   *time.Time    `json:"last_updated" db:"last_updated"`
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}

// Advance applies one first-event-of-day transition and returns the new
// counter values. LastUpdated == nil means no streak exists yet. The caller
// guarantees Advance runs at most once per (user, kind, day).
//
// Logging on the day after LastUpdated extends the streak; any other gap
// restarts it at 1. There is no terminal "broken" state.
func Advance(current, best int, lastUpdated *time.Time, eventDay time.Time) (newCurrent, newBest int) {
	day := Day(eventDay)

	switch {
	case lastUpdated == nil:
		newCurrent = 1
	case Day(*lastUpdated).Equal(day.AddDate(0, 0, -1)):
		newCurrent = current + 1
	case Day(*lastUpdated).Equal(day):
		// Guarded against by the first-event-of-day check; keep the
		// counters untouched if it happens anyway.
		newCurrent = current
	default:
		newCurrent = 1
	}

	newBest = best
	if newCurrent > newBest {
		newBest = newCurrent
	}
	return newCurrent, newBest
}
