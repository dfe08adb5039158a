package ledger

import "time"

const (
	KeyUserStats     = "user:%s:stats"
	KeyGame          = "game:%s"
	KeyGameTypeStats = "gamestats:%s" // composite "{account}|{type}" key
	KeyUserGameTypes = "user:%s:gametypes"
	KeyUsersIndex    = "users:index"
	KeyPendingGames  = "games:pending"
	KeyGamesCount    = "games:count"
	KeyRateLimit     = "ratelimit:%s:%s"

	DefaultRateLimitStarts    = 30 // game starts per account per minute
	DefaultRateLimitWithdraws = 10 // withdraw attempts per account per minute
	RateLimitWindow           = time.Minute
)
