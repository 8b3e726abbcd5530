package workout

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutLog is one completed workout a user recorded.
type WorkoutLog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	WorkoutName string    `json:"workout_name" db:"workout_name"`
	MuscleGroup string    `json:"muscle_group" db:"muscle_group"`
	Equipment   string    `json:"equipment" db:"equipment"`
	LoggedAt    time.Time `json:"logged_at" db:"logged_at"`
}

type LogWorkoutRequest struct {
	WorkoutName string `json:"workout_name" validate:"required"`
	MuscleGroup string `json:"muscle_group"`
	Equipment   string `json:"equipment"`
}
