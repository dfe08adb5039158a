package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"oracle-bets-backend/internal/config"
	"oracle-bets-backend/internal/models"
)

// RedisStore implements Store on Redis. Records are JSON documents; the
// user index is a zset scored by join height so listing is paginated and
// stable; pending games and per-user game types are sets.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) GetUserStats(ctx context.Context, accountID string) (*models.UserStats, error) {
	var stats models.UserStats
	ok, err := s.getJSON(ctx, fmt.Sprintf(KeyUserStats, accountID), &stats)
	if err != nil || !ok {
		return nil, err
	}
	return &stats, nil
}

func (s *RedisStore) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	var game models.Game
	ok, err := s.getJSON(ctx, fmt.Sprintf(KeyGame, gameID), &game)
	if err != nil || !ok {
		return nil, err
	}
	return &game, nil
}

func (s *RedisStore) GetGameTypeStats(ctx context.Context, accountID, gameType string) (*models.GameTypeStats, error) {
	var stats models.GameTypeStats
	key := fmt.Sprintf(KeyGameTypeStats, models.GameTypeKey(accountID, gameType))
	ok, err := s.getJSON(ctx, key, &stats)
	if err != nil || !ok {
		return nil, err
	}
	return &stats, nil
}

func (s *RedisStore) CreateGame(ctx context.Context, game *models.Game, stats *models.UserStats) error {
	gameData, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %v", err)
	}
	statsData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal user stats: %v", err)
	}

	// SETNX is the uniqueness gate for game ids.
	created, err := s.client.SetNX(ctx, fmt.Sprintf(KeyGame, game.ID), gameData, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create game: %v", err)
	}
	if !created {
		return models.ErrDuplicateGame
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(KeyUserStats, stats.AccountID), statsData, 0)
	pipe.ZAddNX(ctx, KeyUsersIndex, redis.Z{
		Score:  float64(stats.JoinDate),
		Member: stats.AccountID,
	})
	pipe.SAdd(ctx, KeyPendingGames, game.ID)
	pipe.Incr(ctx, KeyGamesCount)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to persist game start: %v", err)
	}
	return nil
}

func (s *RedisStore) SaveResolution(ctx context.Context, game *models.Game, stats *models.UserStats, typeStats *models.GameTypeStats) error {
	gameData, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %v", err)
	}
	statsData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal user stats: %v", err)
	}
	typeData, err := json.Marshal(typeStats)
	if err != nil {
		return fmt.Errorf("failed to marshal game type stats: %v", err)
	}

	typeKey := fmt.Sprintf(KeyGameTypeStats, models.GameTypeKey(typeStats.AccountID, typeStats.GameType))

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(KeyGame, game.ID), gameData, 0)
	pipe.Set(ctx, fmt.Sprintf(KeyUserStats, stats.AccountID), statsData, 0)
	pipe.Set(ctx, typeKey, typeData, 0)
	pipe.SAdd(ctx, fmt.Sprintf(KeyUserGameTypes, typeStats.AccountID), typeStats.GameType)
	pipe.SRem(ctx, KeyPendingGames, game.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to persist resolution: %v", err)
	}
	return nil
}

// zeroWithdrawableScript swaps withdrawable_balance for "0" and returns
// the prior value in one atomic step, so two concurrent withdrawals can
// never both observe a positive balance.
var zeroWithdrawableScript = redis.NewScript(`
	local data = redis.call("GET", KEYS[1])
	if not data then
		return "0"
	end

	local stats = cjson.decode(data)
	local prior = stats.withdrawable_balance
	if prior == "0" then
		return "0"
	end

	stats.withdrawable_balance = "0"
	redis.call("SET", KEYS[1], cjson.encode(stats))

	return prior
`)

func (s *RedisStore) ZeroWithdrawable(ctx context.Context, accountID string) (string, error) {
	key := fmt.Sprintf(KeyUserStats, accountID)
	prior, err := zeroWithdrawableScript.Run(ctx, s.client, []string{key}).Text()
	if err != nil {
		return "", fmt.Errorf("failed to zero withdrawable balance: %v", err)
	}
	return prior, nil
}

func (s *RedisStore) CreditWithdrawable(ctx context.Context, accountID, amount string) error {
	stats, err := s.GetUserStats(ctx, accountID)
	if err != nil {
		return err
	}
	if stats == nil {
		return nil
	}

	stats.WithdrawableBalance = models.AddAmounts(stats.WithdrawableBalance, amount)
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal user stats: %v", err)
	}
	return s.client.Set(ctx, fmt.Sprintf(KeyUserStats, accountID), data, 0).Err()
}

func (s *RedisStore) ListGameTypeStats(ctx context.Context, accountID string) ([]*models.GameTypeStats, error) {
	gameTypes, err := s.client.SMembers(ctx, fmt.Sprintf(KeyUserGameTypes, accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list game types: %v", err)
	}

	out := make([]*models.GameTypeStats, 0, len(gameTypes))
	for _, gameType := range gameTypes {
		stats, err := s.GetGameTypeStats(ctx, accountID, gameType)
		if err != nil {
			return nil, err
		}
		if stats != nil {
			out = append(out, stats)
		}
	}
	return out, nil
}

func (s *RedisStore) ListPendingGames(ctx context.Context) ([]string, error) {
	games, err := s.client.SMembers(ctx, KeyPendingGames).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending games: %v", err)
	}
	return games, nil
}

func (s *RedisStore) ListUsers(ctx context.Context, start, limit int64) ([]string, error) {
	if start < 0 {
		start = 0
	}
	stop := int64(-1)
	if limit > 0 {
		stop = start + limit - 1
	}

	users, err := s.client.ZRange(ctx, KeyUsersIndex, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %v", err)
	}
	return users, nil
}

func (s *RedisStore) AllUserStats(ctx context.Context) ([]*models.UserStats, error) {
	accounts, err := s.client.ZRange(ctx, KeyUsersIndex, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan user index: %v", err)
	}
	if len(accounts) == 0 {
		return []*models.UserStats{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(accounts))
	for i, accountID := range accounts {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf(KeyUserStats, accountID))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to fetch user stats: %v", err)
	}

	out := make([]*models.UserStats, 0, len(accounts))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}
		var stats models.UserStats
		if err := json.Unmarshal([]byte(data), &stats); err != nil {
			continue
		}
		out = append(out, &stats)
	}
	return out, nil
}

func (s *RedisStore) CountUsers(ctx context.Context) (int64, error) {
	return s.client.ZCard(ctx, KeyUsersIndex).Result()
}

func (s *RedisStore) CountGames(ctx context.Context) (int64, error) {
	count, err := s.client.Get(ctx, KeyGamesCount).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

// CheckRateLimit counts calls per account and action inside a window.
func (s *RedisStore) CheckRateLimit(ctx context.Context, accountID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, accountID, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}
	if count == 1 {
		s.client.Expire(ctx, key, window)
	}
	return count <= int64(limit), nil
}

// DeleteGame and DeleteUser exist for test cleanup only; the ledger
// itself never deletes records.
func (s *RedisStore) DeleteGame(ctx context.Context, gameID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, fmt.Sprintf(KeyGame, gameID))
	pipe.SRem(ctx, KeyPendingGames, gameID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) DeleteUser(ctx context.Context, accountID string) error {
	gameTypes, err := s.client.SMembers(ctx, fmt.Sprintf(KeyUserGameTypes, accountID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, fmt.Sprintf(KeyUserStats, accountID))
	pipe.Del(ctx, fmt.Sprintf(KeyUserGameTypes, accountID))
	for _, gameType := range gameTypes {
		pipe.Del(ctx, fmt.Sprintf(KeyGameTypeStats, models.GameTypeKey(accountID, gameType)))
	}
	pipe.ZRem(ctx, KeyUsersIndex, accountID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %v", key, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %v", key, err)
	}
	return true, nil
}
