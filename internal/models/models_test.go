package models_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oracle-bets-backend/internal/models"
)

func TestParseAmount(t *testing.T) {
	n, err := models.ParseAmount("1000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000", n.String())

	_, err = models.ParseAmount("")
	assert.Error(t, err)

	_, err = models.ParseAmount("12.5")
	assert.Error(t, err)

	_, err = models.ParseAmount("-1")
	assert.Error(t, err)

	n, err = models.ParseAmount("0")
	require.NoError(t, err)
	assert.Equal(t, 0, n.Sign())
}

func TestAddAmountsBeyondUint64(t *testing.T) {
	sum := models.AddAmounts("1000000000000000000000000", "500000000000000000000000")
	assert.Equal(t, "1500000000000000000000000", sum)
}

func TestWinningsFloors(t *testing.T) {
	// floor(amount * percent / 100)
	assert.Equal(t, "15", models.Winnings("10", 150))
	assert.Equal(t, "0", models.Winnings("1", 50))
	assert.Equal(t, "10", models.Winnings("10", 100))
	assert.Equal(t, "0", models.Winnings("10", 0))

	// 10^24 at 2.0x needs a wide intermediate.
	assert.Equal(t, "2000000000000000000000000",
		models.Winnings("1000000000000000000000000", 200))
}

func TestIsPositiveAmount(t *testing.T) {
	assert.True(t, models.IsPositiveAmount("1"))
	assert.False(t, models.IsPositiveAmount("0"))
	assert.False(t, models.IsPositiveAmount("garbage"))
}

func TestGameTypeKey(t *testing.T) {
	assert.Equal(t, "alice.near|crash", models.GameTypeKey("alice.near", "crash"))

	assert.True(t, models.ValidGameType("crash"))
	assert.False(t, models.ValidGameType("crash|extra"))
}

func TestNewUserStats(t *testing.T) {
	stats := models.NewUserStats("alice.near", 42)
	assert.Equal(t, "0", stats.TotalBet)
	assert.Equal(t, "0", stats.WithdrawableBalance)
	assert.Equal(t, uint64(42), stats.JoinDate)
	assert.Equal(t, uint64(42), stats.LastPlayDate)
}

func TestGenerateReceiptID(t *testing.T) {
	id := models.GenerateReceiptID()
	assert.True(t, strings.HasPrefix(id, "rcpt_"))
	assert.NotEqual(t, id, models.GenerateReceiptID())
}
