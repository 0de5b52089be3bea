package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"goMatchServer/config"
	"goMatchServer/db"
)

// HandleGetMatchHistory returns the most recent verified matches
// GET /api/match?limit=N
func HandleGetMatchHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET.")
		return
	}

	limit := config.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			sendError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
		if limit > config.MaxHistoryLimit {
			limit = config.MaxHistoryLimit
		}
	}

	records, err := db.GetRecentMatches(r.Context(), limit)
	if err != nil {
		log.Printf("❌ Failed to load match history: %v", err)
		sendError(w, http.StatusInternalServerError, "Failed to load match history")
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(records),
		"matches": records,
	})
}

// HandleGetMatchDetail returns a single verified match by ID
// GET /api/match/:id
func HandleGetMatchDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET.")
		return
	}

	matchID := strings.TrimPrefix(r.URL.Path, "/api/match/")
	if matchID == "" || strings.Contains(matchID, "/") {
		sendError(w, http.StatusBadRequest, "Match ID is required")
		return
	}

	record, err := db.GetVerifiedMatch(r.Context(), matchID)
	if err != nil {
		log.Printf("❌ Failed to load match %s: %v", matchID, err)
		sendError(w, http.StatusInternalServerError, "Failed to load match record")
		return
	}
	if record == nil {
		sendError(w, http.StatusNotFound, "Match not found")
		return
	}
	sendJSON(w, http.StatusOK, record)
}
