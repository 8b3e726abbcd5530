package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("workout")
	assert.NoError(t, err)
	assert.Equal(t, KindWorkout, kind)

	kind, err = ParseKind("meal")
	assert.NoError(t, err)
	assert.Equal(t, KindMeal, kind)
}

func TestParseKindRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "run", "Meal", "WORKOUT", "meals"} {
		_, err := ParseKind(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}
