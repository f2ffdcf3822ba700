package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(999))
	assert.Equal(t, 2, LevelForXP(1000))
	assert.Equal(t, 3, LevelForXP(2500))
}

func TestApplyXP_LevelNeverDecreases(t *testing.T) {
	total := 0
	prevLevel := 1
	for _, delta := range []int{0, 30, 146, 500, 999, 1000, 25} {
		var level int
		total, level = ApplyXP(total, delta)
		assert.GreaterOrEqual(t, level, prevLevel)
		prevLevel = level
	}
	assert.Equal(t, 2700, total)
	assert.Equal(t, 3, prevLevel)
}

func TestNextStreak_SameDayDoesNotChange(t *testing.T) {
	today := date(2025, time.March, 10)
	last := today

	next := NextStreak(StreakState{Current: 4, Longest: 9}, &last, today)

	assert.Equal(t, 4, next.Current)
	assert.Equal(t, 9, next.Longest)
}

func TestNextStreak_ConsecutiveDayIncrements(t *testing.T) {
	today := date(2025, time.March, 10)
	yesterday := date(2025, time.March, 9)

	next := NextStreak(StreakState{Current: 4, Longest: 9}, &yesterday, today)

	assert.Equal(t, 5, next.Current)
	assert.Equal(t, 9, next.Longest)
}

func TestNextStreak_IncrementUpdatesLongestWhenExceeded(t *testing.T) {
	today := date(2025, time.March, 10)
	yesterday := date(2025, time.March, 9)

	next := NextStreak(StreakState{Current: 9, Longest: 9}, &yesterday, today)

	assert.Equal(t, 10, next.Current)
	assert.Equal(t, 10, next.Longest)
}

func TestNextStreak_GapResetsToOne(t *testing.T) {
	today := date(2025, time.March, 10)
	lastWeek := date(2025, time.March, 3)

	next := NextStreak(StreakState{Current: 6, Longest: 12}, &lastWeek, today)

	assert.Equal(t, 1, next.Current)
	assert.Equal(t, 12, next.Longest)
}

func TestNextStreak_FirstActivityStartsAtOne(t *testing.T) {
	next := NextStreak(StreakState{}, nil, date(2025, time.March, 10))

	assert.Equal(t, 1, next.Current)
	assert.Equal(t, 1, next.Longest)
}

func TestMemoryGameXP(t *testing.T) {
	// 50 base + 50 hard + 60/10 time bonus + 40 turn bonus
	assert.Equal(t, 146, MemoryGameXP("hard", 40, 10))

	// slow and turn-heavy play earns base + difficulty only
	assert.Equal(t, 75, MemoryGameXP("medium", 200, 80))
	assert.Equal(t, 50, MemoryGameXP("easy", 100, 50))
}

func TestTrainerXP_Decay(t *testing.T) {
	assert.Equal(t, 30, TrainerXP(1))
	assert.Equal(t, 25, TrainerXP(2))
	assert.Equal(t, 15, TrainerXP(4))
	assert.Equal(t, 10, TrainerXP(6))
	assert.Equal(t, 10, TrainerXP(20))
}
