package models

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GameTypeDelimiter joins account id and game type into the composite
// stats key. Game types containing it are rejected at start_game so a
// category can never collide with another account's prefix.
const GameTypeDelimiter = "|"

func GameTypeKey(accountID, gameType string) string {
	return accountID + GameTypeDelimiter + gameType
}

func ValidGameType(gameType string) bool {
	return !strings.Contains(gameType, GameTypeDelimiter)
}

// ParseAmount parses a decimal string of smallest token units. Amounts
// routinely exceed uint64 (1 NEAR = 10^24 units), hence big.Int.
func ParseAmount(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	return n, nil
}

// dec decodes a stored amount. Stored values are always written by the
// ledger, so an unreadable one is treated as zero rather than panicking.
func dec(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

func AddAmounts(a, b string) string {
	return new(big.Int).Add(dec(a), dec(b)).String()
}

func IsPositiveAmount(s string) bool {
	return dec(s).Sign() > 0
}

// Winnings computes floor(amount * multiplierPercent / 100) in full
// precision. A 64-bit multiply would overflow on token-unit magnitudes.
func Winnings(amount string, multiplierPercent uint64) string {
	n := new(big.Int).Mul(dec(amount), new(big.Int).SetUint64(multiplierPercent))
	return n.Quo(n, big.NewInt(100)).String()
}

func GenerateReceiptID() string {
	return fmt.Sprintf("rcpt_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}
