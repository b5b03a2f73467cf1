package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evyataryagoni/geoip-leaderboard/internal/models"
	"github.com/evyataryagoni/geoip-leaderboard/internal/service"
)

// LeaderboardHandler handles HTTP requests for the leaderboard API.
// It deals with HTTP concerns only: parsing bodies, mapping service
// errors to status codes, and encoding JSON responses.
type LeaderboardHandler struct {
	service *service.LeaderboardService
}

// NewLeaderboardHandler creates a new handler with the given service.
func NewLeaderboardHandler(service *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
	}
}

// GetLeaderboard handles GET /leaderboard.
//
// Responses:
//
//	200 {"leaderboard": [...], "source": "cache"|"store"}
//	500 {"error", "message"} when the store is unavailable
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	records, source, err := h.service.GetLeaderboard(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to fetch leaderboard", err.Error())
		return
	}

	// An empty leaderboard is [] on the wire, never null
	if records == nil {
		records = []models.IPRecord{}
	}

	h.respondJSON(w, http.StatusOK, models.LeaderboardResponse{
		Leaderboard: records,
		Source:      source,
	})
}

// TrackIP handles POST /track with body {"ip": "a.b.c.d"}.
//
// Responses:
//
//	200 {"success": true, "ip", "location"}
//	400 {"error"} for a missing or malformed IP
//	500 {"error", "message"} when the store is unavailable
func (h *LeaderboardHandler) TrackIP(w http.ResponseWriter, r *http.Request) {
	var req models.TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if req.IP == "" {
		h.respondError(w, http.StatusBadRequest, "IP address is required", "")
		return
	}

	location, err := h.service.TrackSighting(r.Context(), req.IP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			h.respondError(w, http.StatusBadRequest, "Invalid IP address format", "")
		case errors.Is(err, service.ErrStoreUnavailable):
			h.respondError(w, http.StatusInternalServerError, "Failed to track IP", err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "Failed to track IP", "")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, models.TrackResponse{
		Success:  true,
		IP:       req.IP,
		Location: location,
	})
}

// respondJSON writes a JSON response with the given status code.
func (h *LeaderboardHandler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing left to do but bail
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes an error response with consistent formatting.
func (h *LeaderboardHandler) respondError(w http.ResponseWriter, statusCode int, errMsg, message string) {
	h.respondJSON(w, statusCode, models.ErrorResponse{
		Error:   errMsg,
		Message: message,
	})
}
