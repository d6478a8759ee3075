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

func newAdminService(t *testing.T) (*AdminService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAdminService(db, zerolog.Nop()), mock
}

func TestApproveCard(t *testing.T) {
	svc, mock := newAdminService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, card_category, status FROM card_requests").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "card_category", "status"}).
			AddRow(10, "debit", "pending"))
	mock.ExpectQuery("SELECT first_name, last_name FROM users").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name"}).AddRow("Ada", "Lovelace"))
	mock.ExpectExec("INSERT INTO cards").
		WithArgs(10, "4000123456789010", "4000 •••• •••• 9010", "virtual", "debit", sqlmock.AnyArg(), "active").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE card_requests SET status = ").
		WithArgs("approved", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.ApproveCard(5, "4000123456789010")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveCardRequestNotFound(t *testing.T) {
	svc, mock := newAdminService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id, card_category, status FROM card_requests").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "card_category", "status"}))
	mock.ExpectRollback()

	err := svc.ApproveCard(99, "4000123456789010")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveCardAlreadyProcessed(t *testing.T) {
	svc, mock := newAdminService(t)

	for _, status := range []string{"approved", "rejected"} {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT user_id, card_category, status FROM card_requests").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "card_category", "status"}).
				AddRow(10, "debit", status))
		mock.ExpectRollback()

		err := svc.ApproveCard(5, "4000123456789010")
		assert.ErrorIs(t, err, ErrConflict)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveCardMissingFields(t *testing.T) {
	svc, mock := newAdminService(t)

	assert.ErrorIs(t, svc.ApproveCard(0, "4000123456789010"), ErrInvalidInput)
	assert.ErrorIs(t, svc.ApproveCard(5, ""), ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectCard(t *testing.T) {
	svc, mock := newAdminService(t)

	mock.ExpectQuery("SELECT status FROM card_requests").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectExec("UPDATE card_requests SET status = ").
		WithArgs("rejected", "documents incomplete", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.RejectCard(5, "documents incomplete")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectCardAlreadyProcessed(t *testing.T) {
	svc, mock := newAdminService(t)

	mock.ExpectQuery("SELECT status FROM card_requests").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("rejected"))

	err := svc.RejectCard(5, "again")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCardStatus(t *testing.T) {
	svc, mock := newAdminService(t)

	mock.ExpectExec("UPDATE cards SET status = ").
		WithArgs("blocked", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.UpdateCardStatus(3, "blocked")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCardStatusInvalid(t *testing.T) {
	svc, mock := newAdminService(t)

	err := svc.UpdateCardStatus(3, "melted")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddBalance(t *testing.T) {
	svc, mock := newAdminService(t)

	amount := decimal.RequireFromString("25.00")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM cards").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("10.00"))
	mock.ExpectExec("UPDATE cards SET balance = balance \\+ ").
		WithArgs(amount, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.AddBalance(3, amount)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddBalanceNegativeAdjustment(t *testing.T) {
	svc, mock := newAdminService(t)

	amount := decimal.RequireFromString("-5.00")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM cards").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("10.00"))
	mock.ExpectExec("UPDATE cards SET balance = balance \\+ ").
		WithArgs(amount, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.AddBalance(3, amount)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddBalanceCannotOverdraw(t *testing.T) {
	svc, mock := newAdminService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT balance FROM cards").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("10.00"))
	mock.ExpectRollback()

	err := svc.AddBalance(3, decimal.RequireFromString("-20.00"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCard(t *testing.T) {
	svc, mock := newAdminService(t)

	mock.ExpectExec("UPDATE cards SET is_active = FALSE").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.DeleteCard(3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCardRequestsJoinsOwner(t *testing.T) {
	svc, mock := newAdminService(t)

	mock.ExpectQuery("FROM card_requests cr").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "card_category", "status", "admin_comment", "created_at", "processed_at",
			"username", "first_name", "last_name", "phone",
		}).AddRow(5, 10, "debit", "pending", nil, time.Now(), nil, "ada", "Ada", "Lovelace", "+15551234567"))

	requests, err := svc.ListCardRequests()
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "ada", requests[0].Username)
	assert.Equal(t, "pending", requests[0].Status)
	assert.Nil(t, requests[0].ProcessedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
