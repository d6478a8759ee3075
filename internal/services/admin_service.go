package services

import (
	"database/sql"
	"fmt"
	"math/rand"

	"cardbank/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cardColorSchemes is the fixed palette new cards draw from.
var cardColorSchemes = []string{
	"from-purple-500 to-pink-500",
	"from-blue-500 to-cyan-500",
	"from-orange-500 to-red-500",
	"from-green-500 to-emerald-500",
}

type AdminService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAdminService(db *sql.DB, logger zerolog.Logger) *AdminService {
	return &AdminService{
		db:     db,
		logger: logger,
	}
}

// ApproveCard issues a virtual card for a pending request and marks the
// request approved. Card insert and request update commit together. An
// already-processed request is terminal and reports a conflict.
func (s *AdminService) ApproveCard(requestID int, cardNumber string) error {
	if requestID == 0 || cardNumber == "" {
		return fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting approval transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var ownerID int
	var category, status string
	err = tx.QueryRow(
		"SELECT user_id, card_category, status FROM card_requests WHERE id = ? FOR UPDATE",
		requestID,
	).Scan(&ownerID, &category, &status)

	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: card request", ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Int("request_id", requestID).Msg("Error fetching card request")
		return fmt.Errorf("database error: %w", err)
	}

	if status != models.RequestStatusPending {
		return fmt.Errorf("%w: request already processed", ErrConflict)
	}

	var firstName, lastName string
	err = tx.QueryRow("SELECT first_name, last_name FROM users WHERE id = ?", ownerID).Scan(&firstName, &lastName)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", ownerID).Msg("Error fetching request owner")
		return fmt.Errorf("database error: %w", err)
	}

	masked := models.MaskCardNumber(cardNumber)
	colorScheme := cardColorSchemes[rand.Intn(len(cardColorSchemes))]

	_, err = tx.Exec(
		"INSERT INTO cards (user_id, card_number, masked_number, card_type, card_category, balance, color_scheme, status) VALUES (?, ?, ?, ?, ?, 0, ?, ?)",
		ownerID, cardNumber, masked, models.CardTypeVirtual, category, colorScheme, models.CardStatusActive,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("request_id", requestID).Msg("Error inserting card")
		return fmt.Errorf("failed to insert card: %w", err)
	}

	_, err = tx.Exec(
		"UPDATE card_requests SET status = ?, processed_at = CURRENT_TIMESTAMP WHERE id = ?",
		models.RequestStatusApproved, requestID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("request_id", requestID).Msg("Error approving card request")
		return fmt.Errorf("failed to approve request: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing approval")
		return fmt.Errorf("failed to commit approval: %w", err)
	}

	s.logger.Info().
		Int("request_id", requestID).
		Int("user_id", ownerID).
		Str("owner", firstName+" "+lastName).
		Str("masked_number", masked).
		Msg("Card approved and issued")

	return nil
}

// RejectCard marks a pending request rejected with the admin's comment.
// Approved and rejected requests are terminal.
func (s *AdminService) RejectCard(requestID int, comment string) error {
	if requestID == 0 {
		return fmt.Errorf("%w: missing request id", ErrInvalidInput)
	}

	var status string
	err := s.db.QueryRow("SELECT status FROM card_requests WHERE id = ?", requestID).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: card request", ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Int("request_id", requestID).Msg("Error fetching card request")
		return fmt.Errorf("database error: %w", err)
	}

	if status != models.RequestStatusPending {
		return fmt.Errorf("%w: request already processed", ErrConflict)
	}

	_, err = s.db.Exec(
		"UPDATE card_requests SET status = ?, admin_comment = ?, processed_at = CURRENT_TIMESTAMP WHERE id = ?",
		models.RequestStatusRejected, comment, requestID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("request_id", requestID).Msg("Error rejecting card request")
		return fmt.Errorf("failed to reject request: %w", err)
	}

	s.logger.Info().Int("request_id", requestID).Msg("Card request rejected")
	return nil
}

func (s *AdminService) UpdateCardStatus(cardID int, status string) error {
	if !models.ValidCardStatus(status) {
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	result, err := s.db.Exec("UPDATE cards SET status = ? WHERE id = ?", status, cardID)
	if err != nil {
		s.logger.Error().Err(err).Int("card_id", cardID).Msg("Error updating card status")
		return fmt.Errorf("failed to update card status: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		var existing int
		if s.db.QueryRow("SELECT id FROM cards WHERE id = ?", cardID).Scan(&existing) == sql.ErrNoRows {
			return fmt.Errorf("%w: card", ErrNotFound)
		}
	}

	s.logger.Info().Int("card_id", cardID).Str("status", status).Msg("Card status updated")
	return nil
}

// AddBalance applies an administrative balance adjustment. The amount
// may be negative, but the resulting balance must stay non-negative; the
// check runs under FOR UPDATE so concurrent transfers cannot slip in
// between.
func (s *AdminService) AddBalance(cardID int, amount decimal.Decimal) error {
	if cardID == 0 || amount.IsZero() {
		return fmt.Errorf("%w: missing card id or amount", ErrInvalidInput)
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting balance adjustment")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRow("SELECT balance FROM cards WHERE id = ? FOR UPDATE", cardID).Scan(&balance)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: card", ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Int("card_id", cardID).Msg("Error fetching card balance")
		return fmt.Errorf("database error: %w", err)
	}

	if balance.Add(amount).IsNegative() {
		return fmt.Errorf("%w: balance cannot go negative", ErrInvalidInput)
	}

	_, err = tx.Exec("UPDATE cards SET balance = balance + ? WHERE id = ?", amount, cardID)
	if err != nil {
		s.logger.Error().Err(err).Int("card_id", cardID).Msg("Error updating balance")
		return fmt.Errorf("failed to update balance: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing balance adjustment")
		return fmt.Errorf("failed to commit balance adjustment: %w", err)
	}

	s.logger.Info().Int("card_id", cardID).Str("amount", amount.String()).Msg("Balance adjusted")
	return nil
}

// DeleteCard soft-deletes a card. The row and its transaction history
// remain for audit.
func (s *AdminService) DeleteCard(cardID int) error {
	if cardID == 0 {
		return fmt.Errorf("%w: missing card id", ErrInvalidInput)
	}

	_, err := s.db.Exec("UPDATE cards SET is_active = FALSE WHERE id = ?", cardID)
	if err != nil {
		s.logger.Error().Err(err).Int("card_id", cardID).Msg("Error deleting card")
		return fmt.Errorf("failed to delete card: %w", err)
	}

	s.logger.Info().Int("card_id", cardID).Msg("Card soft-deleted")
	return nil
}

// ListCardRequests returns every request in the system joined with owner
// display fields, newest first.
func (s *AdminService) ListCardRequests() ([]*models.CardRequest, error) {
	rows, err := s.db.Query(
		`SELECT cr.id, cr.user_id, cr.card_category, cr.status, cr.admin_comment, cr.created_at, cr.processed_at,
		        u.username, u.first_name, u.last_name, u.phone
		 FROM card_requests cr
		 JOIN users u ON cr.user_id = u.id
		 ORDER BY cr.created_at DESC`,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching card requests")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var requests []*models.CardRequest
	for rows.Next() {
		var req models.CardRequest
		var comment sql.NullString
		var processedAt sql.NullTime
		err := rows.Scan(
			&req.ID, &req.UserID, &req.CardCategory, &req.Status, &comment, &req.CreatedAt, &processedAt,
			&req.Username, &req.FirstName, &req.LastName, &req.Phone,
		)
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

// ListAllCards returns every card in the system joined with owner
// display fields, newest first.
func (s *AdminService) ListAllCards() ([]*models.Card, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.user_id, c.card_number, c.masked_number, c.card_type, c.card_category, c.balance,
		        c.color_scheme, c.status, c.is_active, c.created_at,
		        u.username, u.first_name, u.last_name
		 FROM cards c
		 JOIN users u ON c.user_id = u.id
		 ORDER BY c.created_at DESC`,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching cards")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		var card models.Card
		var colorScheme sql.NullString
		err := rows.Scan(
			&card.ID, &card.UserID, &card.CardNumber, &card.MaskedNumber, &card.CardType, &card.CardCategory,
			&card.Balance, &colorScheme, &card.Status, &card.IsActive, &card.CreatedAt,
			&card.Username, &card.FirstName, &card.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning card: %w", err)
		}
		card.ColorScheme = colorScheme.String
		cards = append(cards, &card)
	}

	return cards, rows.Err()
}
