package services

import (
	"database/sql"
	"fmt"

	"cardbank/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type TransferService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTransferService(db *sql.DB, logger zerolog.Logger) *TransferService {
	return &TransferService{
		db:     db,
		logger: logger,
	}
}

// Transfer moves funds between two cards and records the matched ledger
// pair. All four writes (two balance updates, two ledger inserts) commit
// atomically; both cards are locked FOR UPDATE and the source balance is
// re-checked under the lock so concurrent transfers cannot drive it
// negative.
//
// A missing, foreign, or inactive source card reports the same error as
// insufficient funds; the reason is deliberately not leaked.
func (s *TransferService) Transfer(userID int, req *models.TransferRequest) error {
	if req.FromCardID == 0 || req.ToIdentifier == "" || !req.Amount.IsPositive() {
		return fmt.Errorf("%w: invalid transfer data", ErrInvalidInput)
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting transfer transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var fromCardID, fromUserID int
	var fromBalance decimal.Decimal
	var fromMasked string
	err = tx.QueryRow(
		"SELECT id, user_id, balance, masked_number FROM cards WHERE id = ? AND user_id = ? AND status = ? FOR UPDATE",
		req.FromCardID, userID, models.CardStatusActive,
	).Scan(&fromCardID, &fromUserID, &fromBalance, &fromMasked)

	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: insufficient funds or invalid card", ErrInvalidInput)
	}
	if err != nil {
		s.logger.Error().Err(err).Int("card_id", req.FromCardID).Msg("Error fetching source card")
		return fmt.Errorf("database error: %w", err)
	}

	if fromBalance.LessThan(req.Amount) {
		return fmt.Errorf("%w: insufficient funds or invalid card", ErrInvalidInput)
	}

	toCardID, toUserID, err := s.resolveRecipient(tx, req.ToIdentifier)
	if err != nil {
		return err
	}

	if toCardID == fromCardID {
		return fmt.Errorf("%w: cannot transfer to the same card", ErrInvalidInput)
	}

	_, err = tx.Exec("UPDATE cards SET balance = balance - ? WHERE id = ?", req.Amount, fromCardID)
	if err != nil {
		s.logger.Error().Err(err).Int("card_id", fromCardID).Msg("Error debiting source card")
		return fmt.Errorf("failed to debit source card: %w", err)
	}

	_, err = tx.Exec("UPDATE cards SET balance = balance + ? WHERE id = ?", req.Amount, toCardID)
	if err != nil {
		s.logger.Error().Err(err).Int("card_id", toCardID).Msg("Error crediting destination card")
		return fmt.Errorf("failed to credit destination card: %w", err)
	}

	_, err = tx.Exec(
		"INSERT INTO transactions (card_id, user_id, transaction_type, amount, recipient, status) VALUES (?, ?, ?, ?, ?, ?)",
		fromCardID, fromUserID, models.TransactionTypeOutgoing, req.Amount, req.ToIdentifier, models.TransactionStatusCompleted,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error recording outgoing transaction")
		return fmt.Errorf("failed to record outgoing transaction: %w", err)
	}

	_, err = tx.Exec(
		"INSERT INTO transactions (card_id, user_id, transaction_type, amount, recipient, status) VALUES (?, ?, ?, ?, ?, ?)",
		toCardID, toUserID, models.TransactionTypeIncoming, req.Amount, fromMasked, models.TransactionStatusCompleted,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error recording incoming transaction")
		return fmt.Errorf("failed to record incoming transaction: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing transfer")
		return fmt.Errorf("failed to commit transfer: %w", err)
	}

	s.logger.Info().
		Int("from_card_id", fromCardID).
		Int("to_card_id", toCardID).
		Str("amount", req.Amount.String()).
		Msg("Transfer completed")

	return nil
}

// resolveRecipient finds the destination card inside the transfer
// transaction. A "+"-prefixed identifier is treated as the recipient's
// phone number; otherwise it is matched as a card number with spaces and
// mask dots stripped. Multiple active cards on one phone resolve to the
// oldest card.
func (s *TransferService) resolveRecipient(tx *sql.Tx, identifier string) (cardID, userID int, err error) {
	if models.IsPhoneIdentifier(identifier) {
		err = tx.QueryRow(
			`SELECT c.id, c.user_id FROM cards c
			 JOIN users u ON c.user_id = u.id
			 WHERE u.phone = ? AND c.status = ?
			 ORDER BY c.created_at ASC
			 LIMIT 1 FOR UPDATE`,
			identifier, models.CardStatusActive,
		).Scan(&cardID, &userID)
	} else {
		err = tx.QueryRow(
			`SELECT id, user_id FROM cards
			 WHERE card_number = ? AND status = ?
			 ORDER BY created_at ASC
			 LIMIT 1 FOR UPDATE`,
			models.NormalizeCardNumber(identifier), models.CardStatusActive,
		).Scan(&cardID, &userID)
	}

	if err == sql.ErrNoRows {
		return 0, 0, fmt.Errorf("%w: recipient", ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("identifier", identifier).Msg("Error resolving recipient")
		return 0, 0, fmt.Errorf("database error: %w", err)
	}

	return cardID, userID, nil
}
