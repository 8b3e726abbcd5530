package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAdvanceFirstEver(t *testing.T) {
	current, best := Advance(0, 0, nil, day("2026-03-01"))
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, best)
}

func TestAdvanceConsecutiveDay(t *testing.T) {
	last := day("2026-03-01")
	current, best := Advance(1, 1, &last, day("2026-03-02"))
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, best)
}

func TestAdvanceGapResets(t *testing.T) {
	last := day("2026-03-02")
	current, best := Advance(2, 2, &last, day("2026-03-04"))
	assert.Equal(t, 1, current, "a skipped day restarts the streak")
	assert.Equal(t, 2, best, "best streak survives the reset")
}

func TestAdvanceLongGapResets(t *testing.T) {
	last := day("2026-01-10")
	current, best := Advance(14, 20, &last, day("2026-03-04"))
	assert.Equal(t, 1, current)
	assert.Equal(t, 20, best)
}

func TestAdvanceSameDayIsNoOp(t *testing.T) {
	last := day("2026-03-02")
	current, best := Advance(5, 7, &last, day("2026-03-02"))
	assert.Equal(t, 5, current)
	assert.Equal(t, 7, best)
}

func TestAdvanceIgnoresTimeOfDay(t *testing.T) {
	last := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	event := time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)
	current, best := Advance(3, 3, &last, event)
	assert.Equal(t, 4, current)
	assert.Equal(t, 4, best)
}

func TestBestNeverBelowCurrent(t *testing.T) {
	var last *time.Time
	current, best := 0, 0
	d := day("2026-03-01")
	for i := 0; i < 90; i++ {
		current, best = Advance(current, best, last, d)
		assert.GreaterOrEqual(t, best, current)
		anchor := d
		last = &anchor
		// Break the chain every 10th day.
		if i%10 == 9 {
			d = d.AddDate(0, 0, 2)
		} else {
			d = d.AddDate(0, 0, 1)
		}
	}
}
