package handlers

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"

	"cardbank/internal/models"
	"cardbank/internal/services"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	adminService *services.AdminService
	userService  *services.UserService
	logger       zerolog.Logger
}

func NewAdminHandler(db *sql.DB, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: services.NewAdminService(db, logger),
		userService:  services.NewUserService(db, logger),
		logger:       logger,
	}
}

// Get dispatches GET /admin on the action query parameter.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action == "" {
		action = "users"
	}

	switch action {
	case "users":
		users, err := h.userService.ListUsers()
		if err != nil {
			h.logger.Error().Err(err).Msg("Listing users failed")
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"users": users})

	case "card_requests":
		requests, err := h.adminService.ListCardRequests()
		if err != nil {
			h.logger.Error().Err(err).Msg("Listing card requests failed")
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})

	case "all_cards":
		cards, err := h.adminService.ListAllCards()
		if err != nil {
			h.logger.Error().Err(err).Msg("Listing cards failed")
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"cards": cards})

	default:
		respondActionNotAllowed(w)
	}
}

// Post dispatches POST /admin on the body's action tag.
func (h *AdminHandler) Post(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	var envelope struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	switch envelope.Action {
	case "approve_card":
		h.approveCard(w, body)
	case "reject_card":
		h.rejectCard(w, body)
	case "update_card_status":
		h.updateCardStatus(w, body)
	case "add_balance":
		h.addBalance(w, body)
	case "update_user":
		h.updateUser(w, body)
	default:
		respondActionNotAllowed(w)
	}
}

// Delete dispatches DELETE /admin on the body's action tag.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	var payload struct {
		Action string `json:"action"`
		CardID int    `json:"card_id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if payload.Action != "delete_card" {
		respondActionNotAllowed(w)
		return
	}

	if err := h.adminService.DeleteCard(payload.CardID); err != nil {
		h.logger.Warn().Err(err).Int("card_id", payload.CardID).Msg("Card deletion failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Card deleted",
	})
}

func (h *AdminHandler) approveCard(w http.ResponseWriter, body []byte) {
	var payload struct {
		RequestID  int    `json:"request_id"`
		CardNumber string `json:"card_number"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.adminService.ApproveCard(payload.RequestID, payload.CardNumber); err != nil {
		h.logger.Warn().Err(err).Int("request_id", payload.RequestID).Msg("Card approval failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Card approved and issued",
	})
}

func (h *AdminHandler) rejectCard(w http.ResponseWriter, body []byte) {
	var payload struct {
		RequestID int    `json:"request_id"`
		Comment   string `json:"comment"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.adminService.RejectCard(payload.RequestID, payload.Comment); err != nil {
		h.logger.Warn().Err(err).Int("request_id", payload.RequestID).Msg("Card rejection failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Card request rejected",
	})
}

func (h *AdminHandler) updateCardStatus(w http.ResponseWriter, body []byte) {
	var payload struct {
		CardID int    `json:"card_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.adminService.UpdateCardStatus(payload.CardID, payload.Status); err != nil {
		h.logger.Warn().Err(err).Int("card_id", payload.CardID).Msg("Card status update failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Card " + payload.Status,
	})
}

func (h *AdminHandler) addBalance(w http.ResponseWriter, body []byte) {
	var payload struct {
		CardID int             `json:"card_id"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.adminService.AddBalance(payload.CardID, payload.Amount); err != nil {
		h.logger.Warn().Err(err).Int("card_id", payload.CardID).Msg("Balance adjustment failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Balance updated",
	})
}

func (h *AdminHandler) updateUser(w http.ResponseWriter, body []byte) {
	var payload struct {
		UserID  int                `json:"user_id"`
		Updates models.UserUpdates `json:"updates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.userService.UpdateUser(payload.UserID, payload.Updates); err != nil {
		h.logger.Warn().Err(err).Int("user_id", payload.UserID).Msg("User update failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated",
	})
}
