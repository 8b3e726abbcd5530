package suggestion

import "time"

// Suggestion is one motivational message for a user.
type Suggestion struct {
	Message     string    `json:"message"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`
}

const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Inputs are the aggregates the generator prompt is built from.
type Inputs struct {
	Goal          string
	ActivityLevel string
	CurrentWeight float64
	TargetWeight  float64
	AvgCalories   float64
	AvgProtein    float64
	MealStreak    int
	WorkoutStreak int
}
