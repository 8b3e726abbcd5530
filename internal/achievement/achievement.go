package achievement

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is a seeded milestone definition. Rows are reference data:
// this service only ever reads them.
type Achievement struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
}

// Badge records that a user satisfied a milestone. At most one row per
// (user_id, achievement_id); repeated evaluations are no-ops.
type Badge struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id" db:"achievement_id"`
	DateEarned    time.Time `json:"date_earned" db:"date_earned"`
}

// UserBadge is the display shape for earned badges. The ID is the
// achievement ID so clients can match it against the full catalog.
type UserBadge struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Icon string    `json:"fa_icon_class"`
}

// CatalogEntry is the display shape for the full catalog, locked ones
// included.
type CatalogEntry struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"fa_icon_class"`
}
