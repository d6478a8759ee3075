package services

import (
	"database/sql"
	"fmt"

	"cardbank/internal/models"

	"github.com/rs/zerolog"
)

const transactionHistoryLimit = 50

type CardService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewCardService(db *sql.DB, logger zerolog.Logger) *CardService {
	return &CardService{
		db:     db,
		logger: logger,
	}
}

// ListCards returns the caller's cards that have not been soft-deleted,
// newest first.
func (s *CardService) ListCards(userID int) ([]*models.Card, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, card_number, masked_number, card_type, card_category, balance, color_scheme, status, is_active, created_at
		 FROM cards
		 WHERE user_id = ? AND is_active = TRUE
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching cards")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		var card models.Card
		var colorScheme sql.NullString
		err := rows.Scan(
			&card.ID, &card.UserID, &card.CardNumber, &card.MaskedNumber, &card.CardType,
			&card.CardCategory, &card.Balance, &colorScheme, &card.Status, &card.IsActive, &card.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning card: %w", err)
		}
		card.ColorScheme = colorScheme.String
		cards = append(cards, &card)
	}

	return cards, rows.Err()
}

// RequestCard records a pending card issuance request for the caller.
func (s *CardService) RequestCard(userID int, category string) (*models.CardRequest, error) {
	if !models.ValidCardCategory(category) {
		return nil, fmt.Errorf("%w: invalid card category", ErrInvalidInput)
	}

	result, err := s.db.Exec(
		"INSERT INTO card_requests (user_id, card_category, status) VALUES (?, ?, ?)",
		userID, category, models.RequestStatusPending,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error creating card request")
		return nil, fmt.Errorf("failed to create card request: %w", err)
	}

	requestID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get request ID: %w", err)
	}

	var req models.CardRequest
	err = s.db.QueryRow(
		"SELECT id, user_id, card_category, status, created_at FROM card_requests WHERE id = ?",
		requestID,
	).Scan(&req.ID, &req.UserID, &req.CardCategory, &req.Status, &req.CreatedAt)
	if err != nil {
		s.logger.Error().Err(err).Int64("request_id", requestID).Msg("Error fetching card request")
		return nil, fmt.Errorf("database error: %w", err)
	}

	s.logger.Info().
		Int("user_id", userID).
		Int("request_id", req.ID).
		Str("category", category).
		Msg("Card request created")

	return &req, nil
}

// ListRequests returns all of the caller's card requests, any status,
// newest first.
func (s *CardService) ListRequests(userID int) ([]*models.CardRequest, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, card_category, status, admin_comment, created_at, processed_at
		 FROM card_requests
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching card requests")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var requests []*models.CardRequest
	for rows.Next() {
		var req models.CardRequest
		var comment sql.NullString
		var processedAt sql.NullTime
		err := rows.Scan(&req.ID, &req.UserID, &req.CardCategory, &req.Status, &comment, &req.CreatedAt, &processedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning card request: %w", err)
		}
		req.AdminComment = comment.String
		if processedAt.Valid {
			t := processedAt.Time
			req.ProcessedAt = &t
		}
		requests = append(requests, &req)
	}

	return requests, rows.Err()
}

// ListTransactions returns the most recent ledger rows across all of the
// caller's cards, capped at transactionHistoryLimit.
func (s *CardService) ListTransactions(userID int) ([]*models.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.card_id, t.user_id, t.transaction_type, t.amount, t.recipient, t.status, t.created_at
		 FROM transactions t
		 JOIN cards c ON t.card_id = c.id
		 WHERE c.user_id = ?
		 ORDER BY t.created_at DESC
		 LIMIT ?`,
		userID, transactionHistoryLimit,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching transactions")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		var recipient sql.NullString
		err := rows.Scan(&t.ID, &t.CardID, &t.UserID, &t.Type, &t.Amount, &recipient, &t.Status, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		t.Recipient = recipient.String
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}
