package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitTrackAPI/internal/activity"
	"fitTrackAPI/internal/meal"
)

type MealService struct {
	db           *pgxpool.Pool
	gamification *GamificationService
}

func NewMealService(db *pgxpool.Pool, gamification *GamificationService) *MealService {
	return &MealService{db: db, gamification: gamification}
}

func (s *MealService) getUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

// LogMeal stores the meal entry, then feeds the event into the gamification
// pipeline. The returned gamification result carries the updated streak and
// any newly earned badges so the client can celebrate in the same screen.
func (s *MealService) LogMeal(ctx context.Context, clerkID string, req *meal.LogMealRequest) (*meal.LoggedMeal, *activity.LogActivityResponse, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, nil, err
	}

	logged := &meal.LoggedMeal{
		ID:       uuid.New(),
		UserID:   userID,
		FoodItem: req.FoodItem,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		LoggedAt: time.Now().UTC(),
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO logged_meals (id, user_id, food_item, calories, protein, carbs, fats, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, logged.ID, logged.UserID, logged.FoodItem, logged.Calories, logged.Protein, logged.Carbs, logged.Fats, logged.LoggedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to log meal: %w", err)
	}

	result, err := s.gamification.LogActivity(ctx, clerkID, string(activity.KindMeal))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record meal activity: %w", err)
	}

	return logged, result, nil
}

func (s *MealService) GetLoggedMeals(ctx context.Context, clerkID string) ([]*meal.LoggedMeal, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, food_item, calories, protein, carbs, fats, logged_at
		FROM logged_meals
		WHERE user_id = $1
		ORDER BY logged_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logged meals: %w", err)
	}
	defer rows.Close()

	meals := []*meal.LoggedMeal{}
	for rows.Next() {
		m := &meal.LoggedMeal{}
		err := rows.Scan(&m.ID, &m.UserID, &m.FoodItem, &m.Calories, &m.Protein, &m.Carbs, &m.Fats, &m.LoggedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan logged meal: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read logged meals: %w", err)
	}

	return meals, nil
}

// GetNutritionSummary returns per-day calorie and protein sums for the last
// seven days, newest first. Days without meals are omitted.
func (s *MealService) GetNutritionSummary(ctx context.Context, clerkID string) ([]*meal.DailyNutrition, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT date_trunc('day', logged_at) AS day,
		       COALESCE(SUM(calories), 0),
		       COALESCE(SUM(protein), 0)
		FROM logged_meals
		WHERE user_id = $1 AND logged_at >= NOW() - INTERVAL '7 days'
		GROUP BY day
		ORDER BY day DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nutrition summary: %w", err)
	}
	defer rows.Close()

	summary := []*meal.DailyNutrition{}
	for rows.Next() {
		d := &meal.DailyNutrition{}
		if err := rows.Scan(&d.Day, &d.Calories, &d.Protein); err != nil {
			return nil, fmt.Errorf("failed to scan nutrition summary: %w", err)
		}
		summary = append(summary, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nutrition summary: %w", err)
	}

	return summary, nil
}
