package ledger

import (
	"context"

	"oracle-bets-backend/internal/models"
)

// Store is the persistence port for the ledger. Lookups return nil with
// no error when the record is absent. The multi-record writers persist
// everything they are handed as one batch.
type Store interface {
	GetUserStats(ctx context.Context, accountID string) (*models.UserStats, error)
	GetGame(ctx context.Context, gameID string) (*models.Game, error)
	GetGameTypeStats(ctx context.Context, accountID, gameType string) (*models.GameTypeStats, error)

	// CreateGame persists a new pending game together with the player's
	// upserted stats. Returns models.ErrDuplicateGame when the id is taken.
	CreateGame(ctx context.Context, game *models.Game, stats *models.UserStats) error

	// SaveResolution persists the resolved game with the player's updated
	// aggregate and game-type stats.
	SaveResolution(ctx context.Context, game *models.Game, stats *models.UserStats, typeStats *models.GameTypeStats) error

	// ZeroWithdrawable atomically reads the account's withdrawable balance,
	// persists it as zero, and returns the prior value ("0" when the
	// account is unknown or already empty).
	ZeroWithdrawable(ctx context.Context, accountID string) (string, error)

	// CreditWithdrawable adds amount back onto the withdrawable balance.
	// Used to roll back a zeroing whose transfer was rejected.
	CreditWithdrawable(ctx context.Context, accountID, amount string) error

	ListGameTypeStats(ctx context.Context, accountID string) ([]*models.GameTypeStats, error)
	ListPendingGames(ctx context.Context) ([]string, error)
	ListUsers(ctx context.Context, start, limit int64) ([]string, error)
	AllUserStats(ctx context.Context) ([]*models.UserStats, error)
	CountUsers(ctx context.Context) (int64, error)
	CountGames(ctx context.Context) (int64, error)
}

// Broadcaster pushes ledger lifecycle events to connected clients.
// Implemented by the websocket hub; every method must be non-blocking.
type Broadcaster interface {
	GameStarted(game *models.Game)
	GameResolved(game *models.Game, winnings string)
	BalanceWithdrawn(receipt *models.WithdrawReceipt)
}
