package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitTrackAPI/internal/activity"
	"fitTrackAPI/internal/suggestion"
)

// TextGenerator is the opaque text-generation boundary. The service only
// builds the input string and shapes the response; what produces the text is
// someone else's problem.
type TextGenerator interface {
	Generate(ctx context.Context, input string) (string, error)
}

// HTTPTextGenerator calls an external model server over HTTP.
type HTTPTextGenerator struct {
	endpoint string
	client   *http.Client
}

func NewHTTPTextGenerator(endpoint string) *HTTPTextGenerator {
	return &HTTPTextGenerator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *HTTPTextGenerator) Generate(ctx context.Context, input string) (string, error) {
	payload, err := json.Marshal(map[string]string{"input": input})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generator request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build generator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generator request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var out struct {
		Output string `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode generator response: %w", err)
	}
	if out.Output == "" {
		return "", errors.New("generator returned empty output")
	}
	return out.Output, nil
}

type SuggestionService struct {
	db        *pgxpool.Pool
	generator TextGenerator
}

// NewSuggestionService wires the opaque generator; pass nil to always use
// the deterministic fallback.
func NewSuggestionService(db *pgxpool.Pool, generator TextGenerator) *SuggestionService {
	return &SuggestionService{db: db, generator: generator}
}

// GetSuggestion aggregates the last week of nutrition plus both streaks and
// asks the generator for a coach-toned message. Generator failures degrade
// to a canned message built from the same inputs.
func (s *SuggestionService) GetSuggestion(ctx context.Context, clerkID string) (*suggestion.Suggestion, error) {
	inputs, err := s.collectInputs(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	result := &suggestion.Suggestion{GeneratedAt: time.Now().UTC()}

	if s.generator != nil {
		text, err := s.generator.Generate(ctx, buildModelInput(inputs))
		if err == nil {
			result.Message = text
			result.Source = suggestion.SourceModel
			return result, nil
		}
		log.Printf("GetSuggestion: generator failed, using fallback: %v", err)
	}

	result.Message = fallbackMessage(inputs)
	result.Source = suggestion.SourceFallback
	return result, nil
}

func (s *SuggestionService) collectInputs(ctx context.Context, clerkID string) (*suggestion.Inputs, error) {
	inputs := &suggestion.Inputs{}

	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `
		SELECT id, COALESCE(goal, ''), COALESCE(activity_level, ''),
		       COALESCE(current_weight, 0), COALESCE(target_weight, 0)
		FROM users WHERE clerk_id = $1
	`, clerkID).Scan(&userID, &inputs.Goal, &inputs.ActivityLevel, &inputs.CurrentWeight, &inputs.TargetWeight)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}

	// Average over days that have meals, not over the whole week.
	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(daily_calories), 0), COALESCE(AVG(daily_protein), 0)
		FROM (
			SELECT date_trunc('day', logged_at) AS day,
			       SUM(calories) AS daily_calories,
			       SUM(protein) AS daily_protein
			FROM logged_meals
			WHERE user_id = $1 AND logged_at >= NOW() - INTERVAL '7 days'
			GROUP BY day
		) daily
	`, userID).Scan(&inputs.AvgCalories, &inputs.AvgProtein)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate nutrition: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT kind, current_streak FROM streaks WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load streaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind    activity.Kind
			current int
		)
		if err := rows.Scan(&kind, &current); err != nil {
			return nil, fmt.Errorf("failed to scan streak: %w", err)
		}
		switch kind {
		case activity.KindMeal:
			inputs.MealStreak = current
		case activity.KindWorkout:
			inputs.WorkoutStreak = current
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read streaks: %w", err)
	}

	return inputs, nil
}

func buildModelInput(in *suggestion.Inputs) string {
	return fmt.Sprintf(
		"goal: %s; activity_level: %s; current_weight: %.1f; target_weight: %.1f; "+
			"avg_calories: %.2f; avg_protein: %.2f; meal_streak: %d; workout_streak: %d; "+
			"feedback_category: motivation; user_segment: balanced; tone: coach",
		in.Goal, in.ActivityLevel, in.CurrentWeight, in.TargetWeight,
		in.AvgCalories, in.AvgProtein, in.MealStreak, in.WorkoutStreak,
	)
}

func fallbackMessage(in *suggestion.Inputs) string {
	switch {
	case in.WorkoutStreak == 0 && in.MealStreak == 0:
		return "Every journey starts with one log. Record a meal or a workout today and your streak begins."
	case in.WorkoutStreak >= 7:
		return fmt.Sprintf("A %d-day workout streak is serious momentum. Protect it with a session today.", in.WorkoutStreak)
	case in.MealStreak >= 7:
		return fmt.Sprintf("%d straight days of meal logging. Consistency like that is how goals get hit.", in.MealStreak)
	case in.AvgProtein > 0 && in.AvgProtein < 50:
		return "Your protein average is running low this week. A high-protein meal today keeps you on track."
	default:
		return "You are showing up, and that is what counts. Log today's activity to keep both streaks moving."
	}
}
