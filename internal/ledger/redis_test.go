package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oracle-bets-backend/internal/config"
	"oracle-bets-backend/internal/ledger"
	"oracle-bets-backend/internal/models"
)

// Exercises RedisStore against a local redis; skipped when unavailable.
func TestRedisStore(t *testing.T) {
	cfg := &config.Config{
		RedisURL:  "localhost:6379",
		RedisPass: "",
		RedisDB:   0,
	}

	store, err := ledger.NewRedisStore(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	account := "redis-test-" + suffix + ".near"
	gameID := "redis-test-game-" + suffix

	defer func() {
		store.DeleteGame(ctx, gameID)
		store.DeleteUser(ctx, account)
	}()

	stats := models.NewUserStats(account, 77)
	game := &models.Game{
		ID:                gameID,
		Player:            account,
		Amount:            "1000000000000000000000000",
		Status:            models.GameStatusPending,
		BlockHeight:       77,
		GameType:          "crash",
		MultiplierPercent: models.DefaultMultiplierPercent,
	}

	require.NoError(t, store.CreateGame(ctx, game, stats))
	assert.ErrorIs(t, store.CreateGame(ctx, game, stats), models.ErrDuplicateGame)

	loaded, err := store.GetGame(ctx, gameID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, game.Amount, loaded.Amount)
	assert.Equal(t, models.GameStatusPending, loaded.Status)

	pending, err := store.ListPendingGames(ctx)
	require.NoError(t, err)
	assert.Contains(t, pending, gameID)

	// Resolve as a win at 2.0x.
	game.Status = models.GameStatusWon
	game.MultiplierPercent = 200
	stats.TotalBet = game.Amount
	stats.TotalWon = "2000000000000000000000000"
	stats.WithdrawableBalance = "2000000000000000000000000"
	stats.GamesPlayed = 1
	stats.GamesWon = 1

	typeStats := models.NewGameTypeStats(account, "crash")
	typeStats.TotalBets = game.Amount
	typeStats.TotalWon = stats.TotalWon
	typeStats.GamesPlayed = 1
	typeStats.GamesWon = 1
	typeStats.BestMultiplierPercent = 200
	typeStats.TotalMultiplierPercent = 200

	require.NoError(t, store.SaveResolution(ctx, game, stats, typeStats))

	pending, err = store.ListPendingGames(ctx)
	require.NoError(t, err)
	assert.NotContains(t, pending, gameID)

	byType, err := store.ListGameTypeStats(ctx, account)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, uint64(200), byType[0].BestMultiplierPercent)

	prior, err := store.ZeroWithdrawable(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000000000000", prior)

	reloaded, err := store.GetUserStats(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, "0", reloaded.WithdrawableBalance)
	assert.Equal(t, "2000000000000000000000000", reloaded.TotalWon)

	// Second zeroing sees nothing: the double-withdraw guard.
	prior, err = store.ZeroWithdrawable(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, "0", prior)

	require.NoError(t, store.CreditWithdrawable(ctx, account, "5"))
	reloaded, err = store.GetUserStats(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, "5", reloaded.WithdrawableBalance)

	count, err := store.CountGames(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(1))
}

func TestRedisStoreZeroWithdrawableUnknownAccount(t *testing.T) {
	cfg := &config.Config{RedisURL: "localhost:6379"}

	store, err := ledger.NewRedisStore(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer store.Close()

	prior, err := store.ZeroWithdrawable(context.Background(), "ghost.near")
	require.NoError(t, err)
	assert.Equal(t, "0", prior)
}
