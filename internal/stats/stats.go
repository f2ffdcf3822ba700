package stats

type UserStats struct {
	TodayStatus          bool `json:"today_status"`
	ChallengesToday      int  `json:"challenges_today"`
	XPToday              int  `json:"xp_today"`
	TotalChallengesDone  int  `json:"total_challenges_done"`
	TotalXP              int  `json:"total_xp"`
	Level                int  `json:"level"`
	CurrentStreak        int  `json:"current_streak"`
	LongestStreak        int  `json:"longest_streak"`
	Rank                 int  `json:"rank"`
	ScenariosCorrect     int  `json:"scenarios_correct"`
	MemoryGamesCompleted int  `json:"memory_games_completed"`
}
