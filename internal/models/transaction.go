package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID        int             `json:"id"`
	CardID    int             `json:"card_id"`
	UserID    int             `json:"user_id"`
	Type      string          `json:"transaction_type"`
	Amount    decimal.Decimal `json:"amount"`
	Recipient string          `json:"recipient"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

const (
	TransactionTypeIncoming = "incoming"
	TransactionTypeOutgoing = "outgoing"
)

const TransactionStatusCompleted = "completed"

type TransferRequest struct {
	FromCardID   int             `json:"from_card_id"`
	ToIdentifier string          `json:"to_identifier"`
	Amount       decimal.Decimal `json:"amount"`
}

type RequestCardPayload struct {
	CardCategory string `json:"card_category"`
}
