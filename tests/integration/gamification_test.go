package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitTrackAPI/handlers"
	"fitTrackAPI/internal/activity"
	"fitTrackAPI/middleware"
	"fitTrackAPI/services"
	"fitTrackAPI/tests/helpers"
)

// backdateActivity shifts everything the user logged so far into the past, as
// if the logs had happened `days` days ago. Used to simulate consecutive-day
// and gap scenarios without waiting for midnight.
func backdateActivity(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, days int) {
	ctx := context.Background()
	_, err := pool.Exec(ctx, `
		UPDATE activity_logs SET logged_at = logged_at - make_interval(days => $2)
		WHERE user_id = $1
	`, userID, days)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		UPDATE streaks SET last_updated = last_updated - make_interval(days => $2)
		WHERE user_id = $1
	`, userID, days)
	require.NoError(t, err)
}

func TestLogActivity_FirstEverEvent(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	_, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)
	ctx := context.Background()

	resp, err := svc.LogActivity(ctx, clerkID, "meal")
	require.NoError(t, err)

	assert.Equal(t, 1, resp.CurrentStreak)
	assert.Equal(t, 1, resp.BestStreak)
	assert.Equal(t, 1, resp.TotalLogs)
	assert.Contains(t, resp.NewBadges, "First Meal Logged")
}

func TestLogActivity_SecondLogSameDay(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	_, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)
	ctx := context.Background()

	_, err := svc.LogActivity(ctx, clerkID, "meal")
	require.NoError(t, err)

	resp, err := svc.LogActivity(ctx, clerkID, "meal")
	require.NoError(t, err)

	// The ledger grows but the streak only moves once per calendar day.
	assert.Equal(t, 1, resp.CurrentStreak)
	assert.Equal(t, 2, resp.TotalLogs)
	assert.Empty(t, resp.NewBadges)
}

func TestLogActivity_StreakAdvanceAndReset(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userID, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)
	ctx := context.Background()

	_, err := svc.LogActivity(ctx, clerkID, "workout")
	require.NoError(t, err)

	// Pretend that log happened yesterday, then log again today.
	backdateActivity(t, pool, userID, 1)

	resp, err := svc.LogActivity(ctx, clerkID, "workout")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CurrentStreak)
	assert.Equal(t, 2, resp.BestStreak)

	// Now open a two-day gap. The streak resets but the best survives.
	backdateActivity(t, pool, userID, 3)

	resp, err = svc.LogActivity(ctx, clerkID, "workout")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentStreak)
	assert.Equal(t, 2, resp.BestStreak)
	assert.Equal(t, 3, resp.TotalLogs)
}

func TestLogActivity_KindsAreIndependent(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	_, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)
	ctx := context.Background()

	_, err := svc.LogActivity(ctx, clerkID, "meal")
	require.NoError(t, err)

	resp, err := svc.LogActivity(ctx, clerkID, "workout")
	require.NoError(t, err)

	// The meal logged earlier today must not suppress the workout streak.
	assert.Equal(t, 1, resp.CurrentStreak)
	assert.Equal(t, 1, resp.TotalLogs)
	assert.Contains(t, resp.NewBadges, "First Workout Completed")
}

func TestLogActivity_InvalidKind(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	svc := services.NewGamificationService(pool, nil)

	_, err := svc.LogActivity(context.Background(), "user_does_not_matter", "running")
	assert.ErrorIs(t, err, services.ErrInvalidActivityKind)
}

func TestLogActivity_UnknownUser(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	svc := services.NewGamificationService(pool, nil)

	_, err := svc.LogActivity(context.Background(), "user_missing_"+uuid.NewString(), "meal")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestBadgeAward_Idempotent(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userID, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)
	ctx := context.Background()

	armStreak := func() {
		// Put the streak one day short of the 7-day milestone, anchored on
		// yesterday, with no logs left in today's window.
		_, err := pool.Exec(ctx, `
			INSERT INTO streaks (id, user_id, kind, current_streak, best_streak, last_updated)
			VALUES ($1, $2, 'meal', 6, 6, date_trunc('day', NOW() AT TIME ZONE 'UTC') - interval '1 day')
			ON CONFLICT (user_id, kind) DO UPDATE
			SET current_streak = 6, best_streak = 6,
			    last_updated = date_trunc('day', NOW() AT TIME ZONE 'UTC') - interval '1 day'
		`, uuid.New(), userID)
		require.NoError(t, err)

		_, err = pool.Exec(ctx, `
			UPDATE activity_logs SET logged_at = logged_at - interval '1 day'
			WHERE user_id = $1
		`, userID)
		require.NoError(t, err)
	}

	armStreak()
	resp, err := svc.LogActivity(ctx, clerkID, "meal")
	require.NoError(t, err)
	assert.Equal(t, 7, resp.CurrentStreak)
	assert.Contains(t, resp.NewBadges, "7-Day Meal Logging Streak")

	// Hit the same milestone again. The award must not repeat.
	armStreak()
	resp, err = svc.LogActivity(ctx, clerkID, "meal")
	require.NoError(t, err)
	assert.Equal(t, 7, resp.CurrentStreak)
	assert.NotContains(t, resp.NewBadges, "7-Day Meal Logging Streak")

	var count int
	err = pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM badges b
		JOIN achievements a ON a.id = b.achievement_id
		WHERE b.user_id = $1 AND a.name = '7-Day Meal Logging Streak'
	`, userID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCompoundMilestone_ConsistencyKing(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userID, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)
	ctx := context.Background()

	// Seed the history directly: 30 meals and 29 workouts, all at noon UTC on
	// past days so no time-of-day milestone can interfere.
	for i := 1; i <= 30; i++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO activity_logs (id, user_id, kind, logged_at)
			VALUES ($1, $2, 'meal', date_trunc('day', NOW() AT TIME ZONE 'UTC') - make_interval(days => $3) + interval '12 hours')
		`, uuid.New(), userID, i)
		require.NoError(t, err)
	}
	for i := 1; i <= 29; i++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO activity_logs (id, user_id, kind, logged_at)
			VALUES ($1, $2, 'workout', date_trunc('day', NOW() AT TIME ZONE 'UTC') - make_interval(days => $3) + interval '12 hours')
		`, uuid.New(), userID, i)
		require.NoError(t, err)
	}

	resp, err := svc.LogActivity(ctx, clerkID, "workout")
	require.NoError(t, err)

	assert.Equal(t, 30, resp.TotalLogs)
	assert.Contains(t, resp.NewBadges, "Consistency King")
	assert.NotContains(t, resp.NewBadges, "Halfway to Transformation")
}

func TestTimeBucketMilestone_EarlyRiser(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userID, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)
	ctx := context.Background()

	// Ten workouts at 5am UTC on past days fill the early-morning bucket.
	for i := 1; i <= 10; i++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO activity_logs (id, user_id, kind, logged_at)
			VALUES ($1, $2, 'workout', date_trunc('day', NOW() AT TIME ZONE 'UTC') - make_interval(days => $3) + interval '5 hours')
		`, uuid.New(), userID, i)
		require.NoError(t, err)
	}

	resp, err := svc.LogActivity(ctx, clerkID, "workout")
	require.NoError(t, err)
	assert.Contains(t, resp.NewBadges, "Early Riser")
	assert.NotContains(t, resp.NewBadges, "Night Owl")

	// Another log keeps the bucket over the line, but the award must not
	// repeat.
	resp, err = svc.LogActivity(ctx, clerkID, "workout")
	require.NoError(t, err)
	assert.NotContains(t, resp.NewBadges, "Early Riser")

	var count int
	err = pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM badges b
		JOIN achievements a ON a.id = b.achievement_id
		WHERE b.user_id = $1 AND a.name = 'Early Riser'
	`, userID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetAllAchievements_CatalogEntries(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	svc := services.NewGamificationService(pool, nil)

	entries, err := svc.GetAllAchievements(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		assert.NotEmpty(t, e.Description, "achievement %q has no description", e.Name)
		assert.NotContains(t, e.Icon, "fas ", "achievement %q icon is not normalized", e.Name)
	}
}

func TestGetUserProgress_FreshUser(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	_, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)

	progress, err := svc.GetUserProgress(context.Background(), clerkID)
	require.NoError(t, err)

	// Zero totals are reported explicitly for both kinds.
	assert.Equal(t, 0, progress.TotalLogs[activity.KindMeal])
	assert.Equal(t, 0, progress.TotalLogs[activity.KindWorkout])
	assert.Empty(t, progress.CurrentStreaks)
}

func TestGetUserBadges_EarnedOrder(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userID, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)
	ctx := context.Background()

	_, err := svc.LogActivity(ctx, clerkID, "meal")
	require.NoError(t, err)
	backdateActivity(t, pool, userID, 1)
	_, err = svc.LogActivity(ctx, clerkID, "workout")
	require.NoError(t, err)

	badges, err := svc.GetUserBadges(ctx, clerkID)
	require.NoError(t, err)
	require.Len(t, badges, 2)
	assert.Equal(t, "First Meal Logged", badges[0].Name)
	assert.Equal(t, "First Workout Completed", badges[1].Name)
}

func TestLogActivityHandler_InvalidKind(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	_, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)
	handler := handlers.NewGamificationHandler(svc)

	body, _ := json.Marshal(map[string]string{"activity_type": "swimming"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gamification/log-activity", bytes.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID))

	rr := httptest.NewRecorder()
	handler.LogActivity(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogActivityHandler_Success(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	_, clerkID := helpers.CreateTestUser(t, pool)
	svc := services.NewGamificationService(pool, nil)
	handler := handlers.NewGamificationHandler(svc)

	body, _ := json.Marshal(map[string]string{"activity_type": "workout"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gamification/log-activity", bytes.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID))

	rr := httptest.NewRecorder()
	handler.LogActivity(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp activity.LogActivityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.CurrentStreak)
	assert.Contains(t, resp.NewBadges, "First Workout Completed")
}
