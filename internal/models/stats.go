package models

// UserStats is the per-account aggregate. Amount fields are decimal
// strings of smallest token units; block heights are chain heights.
type UserStats struct {
	AccountID           string `json:"account_id" redis:"account_id"`
	TotalBet            string `json:"total_bet" redis:"total_bet"`
	TotalWon            string `json:"total_won" redis:"total_won"`
	TotalLost           string `json:"total_lost" redis:"total_lost"`
	WithdrawableBalance string `json:"withdrawable_balance" redis:"withdrawable_balance"`
	GamesPlayed         uint64 `json:"games_played" redis:"games_played"`
	GamesWon            uint64 `json:"games_won" redis:"games_won"`
	JoinDate            uint64 `json:"join_date" redis:"join_date"`
	LastPlayDate        uint64 `json:"last_play_date" redis:"last_play_date"`
}

func NewUserStats(accountID string, blockHeight uint64) *UserStats {
	return &UserStats{
		AccountID:           accountID,
		TotalBet:            "0",
		TotalWon:            "0",
		TotalLost:           "0",
		WithdrawableBalance: "0",
		JoinDate:            blockHeight,
		LastPlayDate:        blockHeight,
	}
}

// GameTypeStats is the per-(account, game type) breakdown.
type GameTypeStats struct {
	AccountID              string `json:"account_id" redis:"account_id"`
	GameType               string `json:"game_type" redis:"game_type"`
	TotalBets              string `json:"total_bets" redis:"total_bets"`
	TotalWon               string `json:"total_won" redis:"total_won"`
	TotalLost              string `json:"total_lost" redis:"total_lost"`
	GamesPlayed            uint64 `json:"games_played" redis:"games_played"`
	GamesWon               uint64 `json:"games_won" redis:"games_won"`
	BestMultiplierPercent  uint64 `json:"best_multiplier_percent" redis:"best_multiplier_percent"`
	TotalMultiplierPercent uint64 `json:"total_multiplier_percent" redis:"total_multiplier_percent"`
}

func NewGameTypeStats(accountID, gameType string) *GameTypeStats {
	return &GameTypeStats{
		AccountID: accountID,
		GameType:  gameType,
		TotalBets: "0",
		TotalWon:  "0",
		TotalLost: "0",
	}
}

// ContractStats aggregates every UserStats record. The totals are decimal
// strings so consumers never round them through float64.
type ContractStats struct {
	TotalUsers    int64  `json:"total_users"`
	TotalBets     string `json:"total_bets"`
	TotalWinnings string `json:"total_winnings"`
	TotalGames    int64  `json:"total_games"`
}
