// Package ledger holds the betting ledger core: the game lifecycle state
// machine, the resolver authorization gate, winnings arithmetic, and the
// zero-before-transfer withdraw sequencing.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"oracle-bets-backend/internal/chain"
	"oracle-bets-backend/internal/models"
	"oracle-bets-backend/pkg/logger"
)

type Service struct {
	store    Store
	chain    chain.Client
	resolver string
	events   Broadcaster

	// Serializes the state-changing operations: the ledger commits each
	// call's reads and writes as one unit, single-writer semantics.
	mu sync.Mutex
}

// NewService builds the ledger. The resolver account is fixed for the
// lifetime of the process; there is no rotation mechanism.
func NewService(store Store, chainClient chain.Client, resolverAccountID string) (*Service, error) {
	if resolverAccountID == "" {
		return nil, fmt.Errorf("%w: resolver account id is empty", models.ErrInvalidArgument)
	}
	return &Service{
		store:    store,
		chain:    chainClient,
		resolver: resolverAccountID,
	}, nil
}

func (s *Service) SetBroadcaster(b Broadcaster) {
	s.events = b
}

// StartGame creates a pending game staked with the caller's deposit and
// upserts the caller's stats record.
func (s *Service) StartGame(ctx context.Context, caller string, req *models.StartGameRequest) (*models.Game, error) {
	if req.GameID == "" {
		return nil, fmt.Errorf("%w: game id is empty", models.ErrInvalidArgument)
	}
	if !models.ValidGameType(req.GameType) {
		return nil, fmt.Errorf("%w: game type must not contain %q",
			models.ErrInvalidArgument, models.GameTypeDelimiter)
	}

	deposit, err := models.ParseAmount(req.Deposit)
	if err != nil || deposit.Sign() == 0 {
		return nil, models.ErrInvalidDeposit
	}

	gameType := req.GameType
	if gameType == "" {
		gameType = models.DefaultGameType
	}

	height, err := s.chain.BlockHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read block height: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.store.GetUserStats(ctx, caller)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = models.NewUserStats(caller, height)
	}
	stats.LastPlayDate = height

	game := &models.Game{
		ID:                req.GameID,
		Player:            caller,
		Amount:            deposit.String(),
		Status:            models.GameStatusPending,
		BlockHeight:       height,
		GameType:          gameType,
		MultiplierPercent: models.DefaultMultiplierPercent,
	}

	if err := s.store.CreateGame(ctx, game, stats); err != nil {
		return nil, err
	}

	logger.Info().
		Str("player", caller).
		Str("game_id", game.ID).
		Str("game_type", game.GameType).
		Str("amount", game.Amount).
		Uint64("block_height", height).
		Msg("game started")

	if s.events != nil {
		s.events.GameStarted(game)
	}
	return game, nil
}

// ResolveGame records the outcome of a pending game. Only the configured
// resolver may call it; this is the single security-critical check in the
// system.
func (s *Service) ResolveGame(ctx context.Context, caller string, req *models.ResolveGameRequest) (*models.Game, error) {
	if caller != s.resolver {
		return nil, models.ErrUnauthorized
	}

	multiplier := models.DefaultMultiplierPercent
	if req.MultiplierPercent != nil {
		multiplier = *req.MultiplierPercent
	}
	didWin := req.DidWin != nil && *req.DidWin

	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.store.GetGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, models.ErrGameNotFound
	}
	if game.Status != models.GameStatusPending {
		return nil, models.ErrAlreadyResolved
	}

	stats, err := s.store.GetUserStats(ctx, game.Player)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = models.NewUserStats(game.Player, game.BlockHeight)
	}

	typeStats, err := s.store.GetGameTypeStats(ctx, game.Player, game.GameType)
	if err != nil {
		return nil, err
	}
	if typeStats == nil {
		typeStats = models.NewGameTypeStats(game.Player, game.GameType)
	}

	stats.TotalBet = models.AddAmounts(stats.TotalBet, game.Amount)
	stats.GamesPlayed++
	typeStats.TotalBets = models.AddAmounts(typeStats.TotalBets, game.Amount)
	typeStats.GamesPlayed++
	typeStats.TotalMultiplierPercent += multiplier
	if multiplier > typeStats.BestMultiplierPercent {
		typeStats.BestMultiplierPercent = multiplier
	}
	game.MultiplierPercent = multiplier

	var winnings string
	if didWin {
		winnings = models.Winnings(game.Amount, multiplier)
		stats.TotalWon = models.AddAmounts(stats.TotalWon, winnings)
		stats.WithdrawableBalance = models.AddAmounts(stats.WithdrawableBalance, winnings)
		stats.GamesWon++
		typeStats.TotalWon = models.AddAmounts(typeStats.TotalWon, winnings)
		typeStats.GamesWon++
		game.Status = models.GameStatusWon
	} else {
		// The stake stays in the pooled balance.
		stats.TotalLost = models.AddAmounts(stats.TotalLost, game.Amount)
		typeStats.TotalLost = models.AddAmounts(typeStats.TotalLost, game.Amount)
		game.Status = models.GameStatusLost
	}

	if err := s.store.SaveResolution(ctx, game, stats, typeStats); err != nil {
		return nil, err
	}

	logger.Info().
		Str("game_id", game.ID).
		Str("player", game.Player).
		Bool("won", didWin).
		Uint64("multiplier_percent", multiplier).
		Str("winnings", winnings).
		Msg("game resolved")

	if s.events != nil {
		s.events.GameResolved(game, winnings)
	}
	return game, nil
}

// Withdraw moves the caller's whole withdrawable balance out through a
// native-token transfer. The balance is zeroed and persisted before the
// transfer is issued; a transfer rejection rolls the zeroing back.
func (s *Service) Withdraw(ctx context.Context, caller string) (*models.WithdrawReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, err := s.store.ZeroWithdrawable(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !models.IsPositiveAmount(amount) {
		return nil, models.ErrNothingToWithdraw
	}

	receiptID, err := s.chain.Transfer(ctx, caller, amount)
	if err != nil {
		if restoreErr := s.store.CreditWithdrawable(ctx, caller, amount); restoreErr != nil {
			// Balance already zeroed and the credit failed: funds are
			// stuck pending manual remediation.
			logger.Error().
				Str("account", caller).
				Str("amount", amount).
				Err(restoreErr).
				Msg("failed to restore balance after rejected transfer")
			return nil, fmt.Errorf("transfer failed and balance restore failed: %v", restoreErr)
		}
		return nil, fmt.Errorf("transfer failed: %v", err)
	}

	receipt := &models.WithdrawReceipt{
		ReceiptID: receiptID,
		AccountID: caller,
		Amount:    amount,
	}

	logger.Info().
		Str("account", caller).
		Str("amount", amount).
		Str("receipt_id", receiptID).
		Msg("withdrawal transferred")

	if s.events != nil {
		s.events.BalanceWithdrawn(receipt)
	}
	return receipt, nil
}

// ---- Read-only views ----

func (s *Service) UserStats(ctx context.Context, accountID string) (*models.UserStats, error) {
	return s.store.GetUserStats(ctx, accountID)
}

func (s *Service) UserGameStats(ctx context.Context, accountID string) ([]*models.GameTypeStats, error) {
	return s.store.ListGameTypeStats(ctx, accountID)
}

func (s *Service) GameDetails(ctx context.Context, gameID string) (*models.Game, error) {
	return s.store.GetGame(ctx, gameID)
}

func (s *Service) ResolverAccount() string {
	return s.resolver
}

func (s *Service) PendingGames(ctx context.Context) ([]string, error) {
	return s.store.ListPendingGames(ctx)
}

func (s *Service) AllUsers(ctx context.Context, start, limit int64) ([]string, error) {
	return s.store.ListUsers(ctx, start, limit)
}

// ContractStats aggregates every user record. Totals stay decimal strings
// end to end so values past float64 precision survive the trip.
func (s *Service) ContractStats(ctx context.Context) (*models.ContractStats, error) {
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	games, err := s.store.CountGames(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.store.AllUserStats(ctx)
	if err != nil {
		return nil, err
	}

	totalBets, totalWinnings := "0", "0"
	for _, stats := range all {
		totalBets = models.AddAmounts(totalBets, stats.TotalBet)
		totalWinnings = models.AddAmounts(totalWinnings, stats.TotalWon)
	}

	return &models.ContractStats{
		TotalUsers:    users,
		TotalBets:     totalBets,
		TotalWinnings: totalWinnings,
		TotalGames:    games,
	}, nil
}
