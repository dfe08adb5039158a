package models

type StartGameRequest struct {
	GameID   string `json:"game_id" binding:"required"`
	GameType string `json:"game_type"`
	Deposit  string `json:"deposit" binding:"required"`
}

type ResolveGameRequest struct {
	GameID            string  `json:"game_id" binding:"required"`
	DidWin            *bool   `json:"did_win" binding:"required"`
	MultiplierPercent *uint64 `json:"multiplier_percent"`
}

// WithdrawReceipt identifies the outbound transfer issued by withdraw.
type WithdrawReceipt struct {
	ReceiptID string `json:"receipt_id"`
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
}
