package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitTrackAPI/internal/achievement"
	"fitTrackAPI/internal/activity"
	"fitTrackAPI/internal/streak"
	"fitTrackAPI/middleware"
)

var (
	ErrInvalidActivityKind = errors.New("invalid activity type: use 'workout' or 'meal'")
	ErrUserNotFound        = errors.New("user not found")
)

// GamificationService turns raw activity events into streaks and badges.
// The activity_logs table is the append-only ground truth; streaks and
// badges are derived from it.
type GamificationService struct {
	db            *pgxpool.Pool
	notifications *NotificationService
}

func NewGamificationService(db *pgxpool.Pool, notifications *NotificationService) *GamificationService {
	return &GamificationService{db: db, notifications: notifications}
}

func (s *GamificationService) getUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
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

// LogActivity appends one ledger event, advances the streak if this is the
// first event of its kind today, and re-evaluates badge milestones against
// the updated counters.
//
// Ledger append and streak update commit together; badge evaluation runs
// after the commit and its failures are logged, never propagated, so a
// badge problem cannot roll back the log itself.
func (s *GamificationService) LogActivity(ctx context.Context, clerkID string, rawKind string) (*activity.LogActivityResponse, error) {
	kind, err := activity.ParseKind(rawKind)
	if err != nil {
		return nil, ErrInvalidActivityKind
	}

	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	day := streak.Day(now)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Make sure a streak row exists, then take a row lock on it. The lock
	// serializes concurrent same-day logs per (user, kind) so two requests
	// cannot both pass the first-of-day check and double-increment.
	_, err = tx.Exec(ctx, `
		INSERT INTO streaks (id, user_id, kind, current_streak, best_streak, last_updated)
		VALUES ($1, $2, $3, 0, 0, NULL)
		ON CONFLICT (user_id, kind) DO NOTHING
	`, uuid.New(), userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure streak row: %w", err)
	}

	st := streak.Streak{UserID: userID, Kind: kind}
	err = tx.QueryRow(ctx, `
		SELECT id, current_streak, best_streak, last_updated
		FROM streaks
		WHERE user_id = $1 AND kind = $2
		FOR UPDATE
	`, userID, kind).Scan(&st.ID, &st.CurrentStreak, &st.BestStreak, &st.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("failed to lock streak row: %w", err)
	}

	// The triggering event must be excluded from this check, so it runs
	// before the insert below.
	var loggedToday bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM activity_logs
			WHERE user_id = $1 AND kind = $2
			  AND logged_at >= $3 AND logged_at < $4
		)
	`, userID, kind, day, day.AddDate(0, 0, 1)).Scan(&loggedToday)
	if err != nil {
		return nil, fmt.Errorf("failed to check today's logs: %w", err)
	}

	event := activity.Event{ID: uuid.New(), UserID: userID, Kind: kind, LoggedAt: now}
	_, err = tx.Exec(ctx, `
		INSERT INTO activity_logs (id, user_id, kind, logged_at)
		VALUES ($1, $2, $3, $4)
	`, event.ID, event.UserID, event.Kind, event.LoggedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append activity log: %w", err)
	}

	if !loggedToday {
		// A row with last_updated NULL is the lazily created placeholder,
		// which Advance treats as "no streak yet".
		if st.LastUpdated == nil && st.CurrentStreak != 0 {
			log.Printf("LogActivity: streak row for user %s kind %s has count %d but no anchor day", userID, kind, st.CurrentStreak)
		}
		st.CurrentStreak, st.BestStreak = streak.Advance(st.CurrentStreak, st.BestStreak, st.LastUpdated, day)
		st.LastUpdated = &day

		_, err = tx.Exec(ctx, `
			UPDATE streaks
			SET current_streak = $1, best_streak = $2, last_updated = $3
			WHERE id = $4
		`, st.CurrentStreak, st.BestStreak, st.LastUpdated, st.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update streak: %w", err)
		}
	}

	var totalLogs int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM activity_logs WHERE user_id = $1 AND kind = $2
	`, userID, kind).Scan(&totalLogs)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity logs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit activity log: %w", err)
	}

	middleware.RecordActivityLogged(string(kind))

	newBadges, err := s.evaluateMilestones(ctx, userID, kind, st.CurrentStreak, totalLogs)
	if err != nil {
		// The log and streak are already committed; a badge hiccup must not
		// surface as a request failure.
		log.Printf("LogActivity: badge evaluation failed for user %s: %v", userID, err)
	}

	if len(newBadges) > 0 && s.notifications != nil {
		go s.notifications.NotifyBadgesEarned(context.Background(), userID, newBadges)
	}

	return &activity.LogActivityResponse{
		Message:       "Activity logged successfully",
		CurrentStreak: st.CurrentStreak,
		BestStreak:    st.BestStreak,
		TotalLogs:     totalLogs,
		NewBadges:     newBadges,
	}, nil
}

// evaluateMilestones walks the catalog rules for the event's kind and
// persists every newly satisfied milestone in one batch. Awards that already
// exist are skipped by the (user_id, achievement_id) unique constraint;
// milestone names with no seeded achievement row are skipped with a warning.
func (s *GamificationService) evaluateMilestones(ctx context.Context, userID uuid.UUID, kind activity.Kind, currentStreak, totalLogs int) ([]string, error) {
	var (
		qualified     []string
		triggerByName = map[string]achievement.Trigger{}
		otherLogs     = -1
	)

	for _, m := range achievement.MilestonesFor(kind) {
		satisfied := false

		switch m.Trigger {
		case achievement.TriggerStreak:
			// Exact match: a skipped check is not awarded retroactively.
			satisfied = currentStreak == m.Threshold

		case achievement.TriggerLogs:
			satisfied = totalLogs == m.Threshold

		case achievement.TriggerCompound:
			if otherLogs < 0 {
				other := activity.KindMeal
				if kind == activity.KindMeal {
					other = activity.KindWorkout
				}
				err := s.db.QueryRow(ctx, `
					SELECT COUNT(*) FROM activity_logs WHERE user_id = $1 AND kind = $2
				`, userID, other).Scan(&otherLogs)
				if err != nil {
					return nil, fmt.Errorf("failed to count %s logs: %w", other, err)
				}
			}
			satisfied = totalLogs >= m.Threshold && otherLogs >= m.Threshold

		case achievement.TriggerTimeBucket:
			var bucketLogs int
			err := s.db.QueryRow(ctx, `
				SELECT COUNT(*) FROM activity_logs
				WHERE user_id = $1 AND kind = $2
				  AND EXTRACT(HOUR FROM logged_at AT TIME ZONE 'UTC') >= $3
				  AND EXTRACT(HOUR FROM logged_at AT TIME ZONE 'UTC') < $4
			`, userID, kind, m.HourFrom, m.HourTo).Scan(&bucketLogs)
			if err != nil {
				return nil, fmt.Errorf("failed to count time-bucket logs: %w", err)
			}
			satisfied = bucketLogs >= m.MinLogs
		}

		if satisfied {
			qualified = append(qualified, m.Name)
			triggerByName[m.Name] = m.Trigger
		}
	}

	if len(qualified) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `SELECT id, name FROM achievements WHERE name = ANY($1)`, qualified)
	if err != nil {
		return nil, fmt.Errorf("failed to look up achievements: %w", err)
	}
	defer rows.Close()

	idByName := map[string]uuid.UUID{}
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		idByName[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", err)
	}

	batch := &pgx.Batch{}
	var batchNames []string
	for _, name := range qualified {
		id, ok := idByName[name]
		if !ok {
			log.Printf("evaluateMilestones: achievement %q is not seeded, skipping award", name)
			continue
		}
		award := achievement.Badge{ID: uuid.New(), UserID: userID, AchievementID: id}
		batch.Queue(`
			INSERT INTO badges (id, user_id, achievement_id, date_earned)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (user_id, achievement_id) DO NOTHING
		`, award.ID, award.UserID, award.AchievementID)
		batchNames = append(batchNames, name)
	}
	if batch.Len() == 0 {
		return nil, nil
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()

	var awarded []string
	for _, name := range batchNames {
		ct, err := br.Exec()
		if err != nil {
			return awarded, fmt.Errorf("failed to award badge %q: %w", name, err)
		}
		// RowsAffected 0 means the user already holds the badge.
		if ct.RowsAffected() == 1 {
			awarded = append(awarded, name)
			middleware.RecordBadgeAwarded(string(triggerByName[name]))
			log.Printf("Awarded badge %q to user %s", name, userID)
		}
	}

	return awarded, nil
}

// GetUserProgress composes the read-only progress view: current and best
// streaks plus lifetime counts per kind. No side effects.
func (s *GamificationService) GetUserProgress(ctx context.Context, clerkID string) (*activity.Progress, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	progress := &activity.Progress{
		CurrentStreaks: map[activity.Kind]int{},
		BestStreaks:    map[activity.Kind]int{},
		TotalLogs:      map[activity.Kind]int{},
	}

	rows, err := s.db.Query(ctx, `
		SELECT kind, current_streak, best_streak FROM streaks WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch streaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind          activity.Kind
			current, best int
		)
		if err := rows.Scan(&kind, &current, &best); err != nil {
			return nil, fmt.Errorf("failed to scan streak: %w", err)
		}
		progress.CurrentStreaks[kind] = current
		progress.BestStreaks[kind] = best
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read streaks: %w", err)
	}

	for _, kind := range activity.Kinds {
		var count int
		err := s.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM activity_logs WHERE user_id = $1 AND kind = $2
		`, userID, kind).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s logs: %w", kind, err)
		}
		progress.TotalLogs[kind] = count
	}

	return progress, nil
}

// GetUserBadges returns the user's earned badges in the order they were
// earned.
func (s *GamificationService) GetUserBadges(ctx context.Context, clerkID string) ([]*achievement.UserBadge, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT a.id, a.name, a.icon
		FROM badges b
		JOIN achievements a ON a.id = b.achievement_id
		WHERE b.user_id = $1
		ORDER BY b.date_earned ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}
	defer rows.Close()

	badges := []*achievement.UserBadge{}
	for rows.Next() {
		b := &achievement.UserBadge{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read badges: %w", err)
	}

	return badges, nil
}

// GetAllAchievements returns the full catalog, locked badges included, so
// clients can render greyed-out milestones. Icon classes are normalized for
// display.
func (s *GamificationService) GetAllAchievements(ctx context.Context) ([]*achievement.CatalogEntry, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, description, icon FROM achievements ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	entries := []*achievement.CatalogEntry{}
	for rows.Next() {
		var a achievement.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		entries = append(entries, &achievement.CatalogEntry{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        achievement.NormalizeIcon(a.Icon),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", err)
	}

	return entries, nil
}
