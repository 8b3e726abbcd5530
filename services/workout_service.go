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
	"fitTrackAPI/internal/workout"
)

type WorkoutService struct {
	db           *pgxpool.Pool
	gamification *GamificationService
}

func NewWorkoutService(db *pgxpool.Pool, gamification *GamificationService) *WorkoutService {
	return &WorkoutService{db: db, gamification: gamification}
}

func (s *WorkoutService) getUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
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

// LogWorkout stores the workout entry, then feeds the event into the
// gamification pipeline.
func (s *WorkoutService) LogWorkout(ctx context.Context, clerkID string, req *workout.LogWorkoutRequest) (*workout.WorkoutLog, *activity.LogActivityResponse, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, nil, err
	}

	logged := &workout.WorkoutLog{
		ID:          uuid.New(),
		UserID:      userID,
		WorkoutName: req.WorkoutName,
		MuscleGroup: req.MuscleGroup,
		Equipment:   req.Equipment,
		LoggedAt:    time.Now().UTC(),
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO workout_logs (id, user_id, workout_name, muscle_group, equipment, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, logged.ID, logged.UserID, logged.WorkoutName, logged.MuscleGroup, logged.Equipment, logged.LoggedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to log workout: %w", err)
	}

	result, err := s.gamification.LogActivity(ctx, clerkID, string(activity.KindWorkout))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record workout activity: %w", err)
	}

	return logged, result, nil
}

func (s *WorkoutService) GetLoggedWorkouts(ctx context.Context, clerkID string) ([]*workout.WorkoutLog, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, workout_name, muscle_group, equipment, logged_at
		FROM workout_logs
		WHERE user_id = $1
		ORDER BY logged_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logged workouts: %w", err)
	}
	defer rows.Close()

	workouts := []*workout.WorkoutLog{}
	for rows.Next() {
		w := &workout.WorkoutLog{}
		err := rows.Scan(&w.ID, &w.UserID, &w.WorkoutName, &w.MuscleGroup, &w.Equipment, &w.LoggedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout log: %w", err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read workout logs: %w", err)
	}

	return workouts, nil
}
