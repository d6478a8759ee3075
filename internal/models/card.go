package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Card struct {
	ID           int             `json:"id"`
	UserID       int             `json:"user_id"`
	CardNumber   string          `json:"card_number,omitempty"`
	MaskedNumber string          `json:"masked_number"`
	CardType     string          `json:"card_type"`
	CardCategory string          `json:"card_category"`
	Balance      decimal.Decimal `json:"balance"`
	ColorScheme  string          `json:"color_scheme"`
	Status       string          `json:"status"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`

	// Owner display fields, populated on admin listings only.
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type CardRequest struct {
	ID           int        `json:"id"`
	UserID       int        `json:"user_id"`
	CardCategory string     `json:"card_category"`
	Status       string     `json:"status"`
	AdminComment string     `json:"admin_comment,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`

	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

const (
	CardTypeVirtual  = "virtual"
	CardTypePhysical = "physical"
)

const (
	CardCategoryDebit  = "debit"
	CardCategoryCredit = "credit"
)

const (
	CardStatusActive  = "active"
	CardStatusBlocked = "blocked"
	CardStatusFrozen  = "frozen"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

const maskDot = "•"

// MaskCardNumber builds the display form of a card number: first four
// digits, two masked groups, last four digits.
func MaskCardNumber(number string) string {
	if len(number) < 8 {
		return number
	}
	return number[:4] + " " + strings.Repeat(maskDot, 4) + " " + strings.Repeat(maskDot, 4) + " " + number[len(number)-4:]
}

// NormalizeCardNumber strips spaces and mask dots from a user-supplied
// card identifier so it can be matched against the stored full number.
func NormalizeCardNumber(identifier string) string {
	s := strings.ReplaceAll(identifier, " ", "")
	return strings.ReplaceAll(s, maskDot, "")
}

// IsPhoneIdentifier reports whether a transfer recipient identifier is a
// phone number rather than a card number.
func IsPhoneIdentifier(identifier string) bool {
	return strings.HasPrefix(identifier, "+")
}

func ValidCardCategory(category string) bool {
	return category == CardCategoryDebit || category == CardCategoryCredit
}

func ValidCardStatus(status string) bool {
	switch status {
	case CardStatusActive, CardStatusBlocked, CardStatusFrozen:
		return true
	}
	return false
}
