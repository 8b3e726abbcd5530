package activity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind is the activity category a log entry belongs to.
type Kind string

const (
	KindMeal    Kind = "meal"
	KindWorkout Kind = "workout"
)

// Kinds lists every recognized activity kind, in stable order.
var Kinds = []Kind{KindMeal, KindWorkout}

// ParseKind validates a raw activity type coming from a request body.
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindMeal:
		return KindMeal, nil
	case KindWorkout:
		return KindWorkout, nil
	default:
		return "", fmt.Errorf("invalid activity type %q: use 'workout' or 'meal'", raw)
	}
}

// Event is one row of the append-only activity ledger. Events are never
// updated or deleted; streaks and badge counts are derived from them.
type Event struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Kind     Kind      `json:"kind" db:"kind"`
	LoggedAt time.Time `json:"logged_at" db:"logged_at"`
}

type LogActivityRequest struct {
	ActivityType string `json:"activity_type"`
}

type LogActivityResponse struct {
	Message       string   `json:"message"`
	CurrentStreak int      `json:"current_streak"`
	BestStreak    int      `json:"best_streak"`
	TotalLogs     int      `json:"total_logs"`
	NewBadges     []string `json:"new_badges,omitempty"`
}

// Progress is the read-only view composed from streaks and ledger counts.
type Progress struct {
	CurrentStreaks map[Kind]int `json:"current_streaks"`
	BestStreaks    map[Kind]int `json:"best_streaks"`
	TotalLogs      map[Kind]int `json:"total_logs"`
}
