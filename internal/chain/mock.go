package chain

import (
	"context"
	"sync"

	"oracle-bets-backend/internal/models"
)

// MockTransfer records one Transfer call made against the Mock.
type MockTransfer struct {
	ReceiverID string
	Amount     string
	ReceiptID  string
}

// Mock implements Client for tests. Height is advanced manually and
// TransferErr injects a failing transfer.
type Mock struct {
	mu          sync.Mutex
	height      uint64
	transfers   []MockTransfer
	TransferErr error
}

func NewMock(height uint64) *Mock {
	return &Mock{height: height}
}

func (m *Mock) BlockHeight(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.height, nil
}

func (m *Mock) AdvanceBlocks(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.height += n
}

func (m *Mock) Transfer(ctx context.Context, receiverID, amount string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.TransferErr != nil {
		return "", m.TransferErr
	}

	receipt := models.GenerateReceiptID()
	m.transfers = append(m.transfers, MockTransfer{
		ReceiverID: receiverID,
		Amount:     amount,
		ReceiptID:  receipt,
	})
	return receipt, nil
}

// Transfers returns a copy of everything sent so far.
func (m *Mock) Transfers() []MockTransfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockTransfer, len(m.transfers))
	copy(out, m.transfers)
	return out
}
