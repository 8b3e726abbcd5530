package meal

import (
	"time"

	"github.com/google/uuid"
)

// LoggedMeal is one meal entry a user recorded for the day.
type LoggedMeal struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	FoodItem string    `json:"food_item" db:"food_item"`
	Calories int       `json:"calories" db:"calories"`
	Protein  float64   `json:"protein" db:"protein"`
	Carbs    float64   `json:"carbs" db:"carbs"`
	Fats     float64   `json:"fats" db:"fats"`
	LoggedAt time.Time `json:"logged_at" db:"logged_at"`
}

type LogMealRequest struct {
	FoodItem string  `json:"food_item" validate:"required"`
	Calories int     `json:"calories" validate:"required"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// DailyNutrition is one day of summed calories and protein, used by the
// suggestion input builder.
type DailyNutrition struct {
	Day      time.Time `json:"day"`
	Calories int       `json:"calories"`
	Protein  float64   `json:"protein"`
}
