package ledger

import (
	"context"
	"sort"
	"sync"

	"oracle-bets-backend/internal/models"
)

// MemoryStore implements Store with mutex-guarded maps. It backs the unit
// tests and mirrors RedisStore's semantics record for record.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*models.UserStats
	games     map[string]*models.Game
	typeStats map[string]*models.GameTypeStats
	userOrder []string // account ids in join order
	gameTypes map[string][]string
	pending   map[string]struct{}
	gameCount int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*models.UserStats),
		games:     make(map[string]*models.Game),
		typeStats: make(map[string]*models.GameTypeStats),
		gameTypes: make(map[string][]string),
		pending:   make(map[string]struct{}),
	}
}

func (m *MemoryStore) GetUserStats(ctx context.Context, accountID string) (*models.UserStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, ok := m.users[accountID]
	if !ok {
		return nil, nil
	}
	c := *stats
	return &c, nil
}

func (m *MemoryStore) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	game, ok := m.games[gameID]
	if !ok {
		return nil, nil
	}
	c := *game
	return &c, nil
}

func (m *MemoryStore) GetGameTypeStats(ctx context.Context, accountID, gameType string) (*models.GameTypeStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, ok := m.typeStats[models.GameTypeKey(accountID, gameType)]
	if !ok {
		return nil, nil
	}
	c := *stats
	return &c, nil
}

func (m *MemoryStore) CreateGame(ctx context.Context, game *models.Game, stats *models.UserStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[game.ID]; exists {
		return models.ErrDuplicateGame
	}

	g := *game
	m.games[game.ID] = &g
	m.pending[game.ID] = struct{}{}
	m.gameCount++

	if _, known := m.users[stats.AccountID]; !known {
		m.userOrder = append(m.userOrder, stats.AccountID)
	}
	s := *stats
	m.users[stats.AccountID] = &s

	return nil
}

func (m *MemoryStore) SaveResolution(ctx context.Context, game *models.Game, stats *models.UserStats, typeStats *models.GameTypeStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := *game
	m.games[game.ID] = &g
	delete(m.pending, game.ID)

	s := *stats
	m.users[stats.AccountID] = &s

	key := models.GameTypeKey(typeStats.AccountID, typeStats.GameType)
	if _, known := m.typeStats[key]; !known {
		m.gameTypes[typeStats.AccountID] = append(m.gameTypes[typeStats.AccountID], typeStats.GameType)
	}
	ts := *typeStats
	m.typeStats[key] = &ts

	return nil
}

func (m *MemoryStore) ZeroWithdrawable(ctx context.Context, accountID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.users[accountID]
	if !ok {
		return "0", nil
	}
	prior := stats.WithdrawableBalance
	stats.WithdrawableBalance = "0"
	return prior, nil
}

func (m *MemoryStore) CreditWithdrawable(ctx context.Context, accountID, amount string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.users[accountID]
	if !ok {
		return nil
	}
	stats.WithdrawableBalance = models.AddAmounts(stats.WithdrawableBalance, amount)
	return nil
}

func (m *MemoryStore) ListGameTypeStats(ctx context.Context, accountID string) ([]*models.GameTypeStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.GameTypeStats, 0, len(m.gameTypes[accountID]))
	for _, gameType := range m.gameTypes[accountID] {
		if stats, ok := m.typeStats[models.GameTypeKey(accountID, gameType)]; ok {
			c := *stats
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListPendingGames(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.pending))
	for id := range m.pending {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) ListUsers(ctx context.Context, start, limit int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if start < 0 || start >= int64(len(m.userOrder)) {
		return []string{}, nil
	}
	end := start + limit
	if limit <= 0 || end > int64(len(m.userOrder)) {
		end = int64(len(m.userOrder))
	}

	out := make([]string, end-start)
	copy(out, m.userOrder[start:end])
	return out, nil
}

func (m *MemoryStore) AllUserStats(ctx context.Context) ([]*models.UserStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.UserStats, 0, len(m.userOrder))
	for _, accountID := range m.userOrder {
		c := *m.users[accountID]
		out = append(out, &c)
	}
	return out, nil
}

func (m *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MemoryStore) CountGames(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gameCount, nil
}
