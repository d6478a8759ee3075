package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCardService(t *testing.T) (*CardService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCardService(db, zerolog.Nop()), mock
}

func TestListCards(t *testing.T) {
	svc, mock := newCardService(t)

	mock.ExpectQuery("FROM cards").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "card_number", "masked_number", "card_type", "card_category",
			"balance", "color_scheme", "status", "is_active", "created_at",
		}).
			AddRow(2, 10, "5555555555554444", "5555 •••• •••• 4444", "virtual", "credit", "0.00", "from-blue-500 to-cyan-500", "active", true, time.Now()).
			AddRow(1, 10, "4000123456789010", "4000 •••• •••• 9010", "virtual", "debit", "100.00", nil, "active", true, time.Now().Add(-time.Hour)))

	cards, err := svc.ListCards(10)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 2, cards[0].ID)
	assert.True(t, cards[1].Balance.Equal(decimal.RequireFromString("100.00")))
	assert.Empty(t, cards[1].ColorScheme)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestCard(t *testing.T) {
	svc, mock := newCardService(t)

	mock.ExpectExec("INSERT INTO card_requests").
		WithArgs(10, "debit", "pending").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery("SELECT id, user_id, card_category, status, created_at FROM card_requests").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "card_category", "status", "created_at"}).
			AddRow(5, 10, "debit", "pending", time.Now()))

	req, err := svc.RequestCard(10, "debit")
	require.NoError(t, err)
	assert.Equal(t, 5, req.ID)
	assert.Equal(t, "pending", req.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestCardInvalidCategory(t *testing.T) {
	svc, mock := newCardService(t)

	for _, category := range []string{"", "prepaid", "DEBIT"} {
		_, err := svc.RequestCard(10, category)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRequests(t *testing.T) {
	svc, mock := newCardService(t)

	processed := time.Now()
	mock.ExpectQuery("FROM card_requests").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "card_category", "status", "admin_comment", "created_at", "processed_at",
		}).
			AddRow(6, 10, "credit", "pending", nil, time.Now(), nil).
			AddRow(5, 10, "debit", "rejected", "documents incomplete", time.Now().Add(-time.Hour), processed))

	requests, err := svc.ListRequests(10)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Nil(t, requests[0].ProcessedAt)
	assert.Equal(t, "documents incomplete", requests[1].AdminComment)
	require.NotNil(t, requests[1].ProcessedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactionsCapped(t *testing.T) {
	svc, mock := newCardService(t)

	mock.ExpectQuery("FROM transactions t").
		WithArgs(10, 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "card_id", "user_id", "transaction_type", "amount", "recipient", "status", "created_at",
		}).AddRow(1, 1, 10, "outgoing", "40.00", "+15551234567", "completed", time.Now()))

	transactions, err := svc.ListTransactions(10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "outgoing", transactions[0].Type)
	assert.True(t, transactions[0].Amount.Equal(decimal.RequireFromString("40.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
