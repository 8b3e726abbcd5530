package achievement

import (
	"strings"

	"fitTrackAPI/internal/activity"
)

// Trigger says which counter a milestone is checked against.
type Trigger string

const (
	// TriggerStreak fires when the current streak length equals the
	// threshold exactly. Reaching 10 after skipping 7 does not award the
	// 7-day badge retroactively.
	TriggerStreak Trigger = "streak"
	// TriggerLogs fires when the lifetime log count equals the threshold
	// exactly.
	TriggerLogs Trigger = "logs"
	// TriggerCompound fires when lifetime counts of both kinds are at or
	// above the threshold. Evaluated on workout events only.
	TriggerCompound Trigger = "compound"
	// TriggerTimeBucket fires when at least MinLogs lifetime workout events
	// fall in the [HourFrom, HourTo) local-hour bucket.
	TriggerTimeBucket Trigger = "time_bucket"
)

// Milestone is one catalog rule. The whole table is immutable and built once
// at process start.
type Milestone struct {
	Kind      activity.Kind
	Trigger   Trigger
	Threshold int
	// Time bucket bounds, hours in [0,24). Only set for TriggerTimeBucket.
	HourFrom int
	HourTo   int
	MinLogs  int
	Name     string
}

var catalog = buildCatalog()

func buildCatalog() []Milestone {
	var ms []Milestone

	streaks := map[int]map[activity.Kind]string{
		7:  {activity.KindWorkout: "7-Day Workout Streak", activity.KindMeal: "7-Day Meal Logging Streak"},
		14: {activity.KindWorkout: "14-Day Workout Streak", activity.KindMeal: "14-Day Meal Logging Streak"},
		30: {activity.KindWorkout: "30-Day Workout Streak", activity.KindMeal: "30-Day Meal Logging Streak"},
		60: {activity.KindWorkout: "60-Day Workout Streak", activity.KindMeal: "60-Day Meal Logging Streak"},
	}
	logs := map[int]map[activity.Kind]string{
		1:   {activity.KindWorkout: "First Workout Completed", activity.KindMeal: "First Meal Logged"},
		10:  {activity.KindWorkout: "10 Workouts Completed", activity.KindMeal: "10 Meals Logged"},
		25:  {activity.KindWorkout: "25 Workouts Completed", activity.KindMeal: "25 Meals Logged"},
		50:  {activity.KindWorkout: "50 Workouts Completed", activity.KindMeal: "50 Meals Logged"},
		100: {activity.KindWorkout: "100 Workouts Completed", activity.KindMeal: "100 Meals Logged"},
	}

	for _, kind := range activity.Kinds {
		for threshold, names := range streaks {
			ms = append(ms, Milestone{Kind: kind, Trigger: TriggerStreak, Threshold: threshold, Name: names[kind]})
		}
		for threshold, names := range logs {
			ms = append(ms, Milestone{Kind: kind, Trigger: TriggerLogs, Threshold: threshold, Name: names[kind]})
		}
	}

	// Compound and time-of-day milestones only re-evaluate on workout events.
	ms = append(ms,
		Milestone{Kind: activity.KindWorkout, Trigger: TriggerCompound, Threshold: 30, Name: "Consistency King"},
		Milestone{Kind: activity.KindWorkout, Trigger: TriggerCompound, Threshold: 50, Name: "Halfway to Transformation"},
		Milestone{Kind: activity.KindWorkout, Trigger: TriggerCompound, Threshold: 100, Name: "Fitness Legend"},
		Milestone{Kind: activity.KindWorkout, Trigger: TriggerTimeBucket, HourFrom: 0, HourTo: 6, MinLogs: 10, Name: "Early Riser"},
		Milestone{Kind: activity.KindWorkout, Trigger: TriggerTimeBucket, HourFrom: 22, HourTo: 24, MinLogs: 10, Name: "Night Owl"},
	)

	return ms
}

// MilestonesFor returns the catalog rules evaluated after an event of the
// given kind. The returned slice must not be mutated.
func MilestonesFor(kind activity.Kind) []Milestone {
	var out []Milestone
	for _, m := range catalog {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

const defaultIcon = "question-circle"

// NormalizeIcon strips the FontAwesome style prefix ("fas ") from a stored
// icon class and falls back to a placeholder when the value is empty or not
// a FontAwesome class at all.
func NormalizeIcon(icon string) string {
	if icon == "" || !strings.Contains(icon, "fa-") {
		return defaultIcon
	}
	return strings.TrimSpace(strings.ReplaceAll(icon, "fas ", ""))
}
