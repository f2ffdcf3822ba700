package gamification

import "time"

// XPPerLevel is the flat XP cost of each level.
const XPPerLevel = 1000

// LevelForXP derives the level from a lifetime XP total. Level 1 starts at 0 XP.
func LevelForXP(totalXP int) int {
	return totalXP/XPPerLevel + 1
}

// ApplyXP adds a non-negative delta to a total and returns the new total and level.
func ApplyXP(totalXP, delta int) (int, int) {
	newTotal := totalXP + delta
	return newTotal, LevelForXP(newTotal)
}

type StreakState struct {
	Current int
	Longest int
}

// NextStreak advances a streak for an activity happening on today. The caller
// supplies today so the calendar day is decided once, in the deployment
// timezone, not per call site. lastActivity is nil for a brand new profile.
//
// Same day: no change, the day is already counted. Yesterday: streak grows by
// one. Any gap (or no previous activity): streak resets to 1.
func NextStreak(prev StreakState, lastActivity *time.Time, today time.Time) StreakState {
	if lastActivity != nil {
		// Compare calendar days in each value's own location: dates read
		// back from a DATE column are midnight UTC while today carries the
		// deployment timezone.
		if sameDay(*lastActivity, today) {
			return prev
		}
		if sameDay(*lastActivity, today.AddDate(0, 0, -1)) {
			next := StreakState{Current: prev.Current + 1, Longest: prev.Longest}
			if next.Current > next.Longest {
				next.Longest = next.Current
			}
			return next
		}
	}

	next := StreakState{Current: 1, Longest: prev.Longest}
	if next.Longest < 1 {
		next.Longest = 1
	}
	return next
}

// MemoryGameXP scores a finished memory game: 50 base, a difficulty bonus,
// 1 XP per 10 seconds under 100, and 1 XP per turn under 50. No upper cap.
func MemoryGameXP(difficulty string, timeInSeconds, turns int) int {
	xp := 50

	switch difficulty {
	case "medium":
		xp += 25
	case "hard":
		xp += 50
	}

	timeBonus := 100 - timeInSeconds
	if timeBonus < 0 {
		timeBonus = 0
	}
	xp += timeBonus / 10

	turnBonus := 50 - turns
	if turnBonus < 0 {
		turnBonus = 0
	}
	xp += turnBonus

	return xp
}

// TrainerXP is the award for getting a scenario right on the given attempt
// number: 30 on the first try, 5 less per extra attempt, floored at 10.
func TrainerXP(attempts int) int {
	xp := 30 - (attempts-1)*5
	if xp < 10 {
		return 10
	}
	return xp
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
