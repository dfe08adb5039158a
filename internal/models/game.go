package models

type GameStatus string

const (
	GameStatusPending GameStatus = "pending"
	GameStatusWon     GameStatus = "won"
	GameStatusLost    GameStatus = "lost"
)

const (
	// DefaultGameType is recorded when the caller supplies no category.
	DefaultGameType = "unknown"

	// DefaultMultiplierPercent is the placeholder multiplier before
	// resolution and the value used when the resolver omits one.
	// 100 means 1.0x.
	DefaultMultiplierPercent uint64 = 100
)

type Game struct {
	ID                string     `json:"id" redis:"id"`
	Player            string     `json:"player" redis:"player"`
	Amount            string     `json:"amount" redis:"amount"`
	Status            GameStatus `json:"status" redis:"status"`
	BlockHeight       uint64     `json:"block_height" redis:"block_height"`
	GameType          string     `json:"game_type" redis:"game_type"`
	MultiplierPercent uint64     `json:"multiplier_percent" redis:"multiplier_percent"`
}
