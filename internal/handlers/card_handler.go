package handlers

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"

	"cardbank/internal/middleware"
	"cardbank/internal/models"
	"cardbank/internal/services"

	"github.com/rs/zerolog"
)

type CardHandler struct {
	cardService     *services.CardService
	transferService *services.TransferService
	logger          zerolog.Logger
}

func NewCardHandler(db *sql.DB, logger zerolog.Logger) *CardHandler {
	return &CardHandler{
		cardService:     services.NewCardService(db, logger),
		transferService: services.NewTransferService(db, logger),
		logger:          logger,
	}
}

// Get dispatches GET /cards on the action query parameter.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	action := r.URL.Query().Get("action")
	if action == "" {
		action = "list"
	}

	switch action {
	case "list":
		cards, err := h.cardService.ListCards(userID)
		if err != nil {
			h.logger.Error().Err(err).Msg("Listing cards failed")
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"cards": cards})

	case "requests":
		requests, err := h.cardService.ListRequests(userID)
		if err != nil {
			h.logger.Error().Err(err).Msg("Listing card requests failed")
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})

	case "transactions":
		transactions, err := h.cardService.ListTransactions(userID)
		if err != nil {
			h.logger.Error().Err(err).Msg("Listing transactions failed")
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"transactions": transactions})

	default:
		respondActionNotAllowed(w)
	}
}

// Post dispatches POST /cards on the body's action tag.
func (h *CardHandler) Post(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

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
	case "request_card":
		h.requestCard(w, userID, body)
	case "transfer":
		h.transfer(w, userID, body)
	default:
		respondActionNotAllowed(w)
	}
}

func (h *CardHandler) requestCard(w http.ResponseWriter, userID int, body []byte) {
	var payload models.RequestCardPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	request, err := h.cardService.RequestCard(userID, payload.CardCategory)
	if err != nil {
		h.logger.Warn().Err(err).Int("user_id", userID).Msg("Card request failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"request": request,
	})
}

func (h *CardHandler) transfer(w http.ResponseWriter, userID int, body []byte) {
	var req models.TransferRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.transferService.Transfer(userID, &req); err != nil {
		h.logger.Warn().Err(err).Int("user_id", userID).Msg("Transfer failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Transfer completed",
	})
}
