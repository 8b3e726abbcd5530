package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitTrackAPI/internal/activity"
)

func findMilestone(t *testing.T, kind activity.Kind, name string) Milestone {
	t.Helper()
	for _, m := range MilestonesFor(kind) {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("milestone %q not found for kind %s", name, kind)
	return Milestone{}
}

func TestCatalogStreakMilestonesPerKind(t *testing.T) {
	workout := MilestonesFor(activity.KindWorkout)
	meal := MilestonesFor(activity.KindMeal)

	wantStreaks := map[int]bool{7: true, 14: true, 30: true, 60: true}
	for _, ms := range [][]Milestone{workout, meal} {
		got := map[int]bool{}
		for _, m := range ms {
			if m.Trigger == TriggerStreak {
				got[m.Threshold] = true
			}
		}
		assert.Equal(t, wantStreaks, got)
	}
}

func TestCatalogLogMilestonesPerKind(t *testing.T) {
	want := map[int]bool{1: true, 10: true, 25: true, 50: true, 100: true}
	for _, kind := range activity.Kinds {
		got := map[int]bool{}
		for _, m := range MilestonesFor(kind) {
			if m.Trigger == TriggerLogs {
				got[m.Threshold] = true
			}
		}
		assert.Equal(t, want, got, "kind %s", kind)
	}
}

func TestCompoundMilestonesOnlyOnWorkouts(t *testing.T) {
	for _, m := range MilestonesFor(activity.KindMeal) {
		assert.NotEqual(t, TriggerCompound, m.Trigger)
		assert.NotEqual(t, TriggerTimeBucket, m.Trigger)
	}

	consistency := findMilestone(t, activity.KindWorkout, "Consistency King")
	require.Equal(t, TriggerCompound, consistency.Trigger)
	assert.Equal(t, 30, consistency.Threshold)

	legend := findMilestone(t, activity.KindWorkout, "Fitness Legend")
	assert.Equal(t, 100, legend.Threshold)
}

func TestTimeBucketMilestones(t *testing.T) {
	early := findMilestone(t, activity.KindWorkout, "Early Riser")
	assert.Equal(t, 0, early.HourFrom)
	assert.Equal(t, 6, early.HourTo)
	assert.Equal(t, 10, early.MinLogs)

	night := findMilestone(t, activity.KindWorkout, "Night Owl")
	assert.Equal(t, 22, night.HourFrom)
	assert.Equal(t, 24, night.HourTo)
	assert.Equal(t, 10, night.MinLogs)
}

func TestMilestoneNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, kind := range activity.Kinds {
		for _, m := range MilestonesFor(kind) {
			assert.False(t, seen[m.Name], "duplicate milestone name %q", m.Name)
			seen[m.Name] = true
		}
	}
}

func TestNormalizeIcon(t *testing.T) {
	assert.Equal(t, "fa-dumbbell", NormalizeIcon("fas fa-dumbbell"))
	assert.Equal(t, "fa-fire", NormalizeIcon("fa-fire"))
	assert.Equal(t, "question-circle", NormalizeIcon(""))
	assert.Equal(t, "question-circle", NormalizeIcon("trophy"))
	assert.NotContains(t, NormalizeIcon("fas  fa-crown"), "fas ")
}
