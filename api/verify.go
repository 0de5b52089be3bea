package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"goMatchServer/db"
	"goMatchServer/match"
)

// ReverifyRequest asks for a tamper check on a stored match (by ID) or on
// a record supplied inline by the caller.
type ReverifyRequest struct {
	MatchID string                     `json:"matchId,omitempty"`
	Record  *match.VerifiedMatchRecord `json:"record,omitempty"`
}

// HandleVerifyMatch seals an incoming match record and stores it
// POST /api/verify
func HandleVerifyMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.")
		return
	}

	s := getSealer()
	if s == nil {
		sendError(w, http.StatusServiceUnavailable, "Verification is not configured")
		return
	}

	var record match.MatchRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	verified, err := s.Verify(&record)
	if err != nil {
		var vErr *match.ValidationError
		if errors.As(err, &vErr) {
			sendError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		log.Printf("❌ Failed to seal match %s: %v", record.ID, err)
		sendError(w, http.StatusInternalServerError, "Failed to seal match record")
		return
	}

	ctx := r.Context()
	if err := db.StoreVerifiedMatch(ctx, verified); err != nil {
		log.Printf("⚠️  Failed to store match %s: %v", verified.ID, err)
		sendError(w, http.StatusInternalServerError, "Failed to store match record")
		return
	}
	if err := db.IndexShareCode(ctx, verified.ShareCode, verified.ID); err != nil {
		log.Printf("⚠️  Failed to index share code for %s: %v", verified.ID, err)
	}

	log.Printf("✅ Match verified - ID: %s, Proof: %s", verified.ID, verified.Proof)
	sendJSON(w, http.StatusOK, verified)
}

// HandleReverifyMatch recomputes digest and seal for a record and reports
// what (if anything) no longer matches
// POST /api/reverify
func HandleReverifyMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.")
		return
	}

	s := getSealer()
	if s == nil {
		sendError(w, http.StatusServiceUnavailable, "Verification is not configured")
		return
	}

	var req ReverifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	record := req.Record
	fromStore := false

	if record == nil {
		if req.MatchID == "" {
			sendError(w, http.StatusBadRequest, "Provide either matchId or record")
			return
		}

		// A stored record cannot change behind our back, so a cached
		// finding is good for its TTL.
		if cached, err := db.GetCachedFinding(ctx, req.MatchID); err == nil && cached != nil {
			sendJSON(w, http.StatusOK, cached)
			return
		}

		stored, err := db.GetVerifiedMatch(ctx, req.MatchID)
		if err != nil {
			log.Printf("❌ Failed to load match %s: %v", req.MatchID, err)
			sendError(w, http.StatusInternalServerError, "Failed to load match record")
			return
		}
		if stored == nil {
			sendError(w, http.StatusNotFound, "Match not found")
			return
		}
		record = stored
		fromStore = true
	}

	finding := s.Reverify(record)

	// Cache only findings computed for the stored record. A finding for a
	// caller-supplied copy must never be served under the copy's matchId,
	// or a tampered copy could shadow the stored record for the TTL.
	if fromStore {
		if err := db.CacheFinding(ctx, req.MatchID, &finding); err != nil {
			log.Printf("⚠️  Failed to cache finding for %s: %v", req.MatchID, err)
		}
	}

	if !finding.StillValid {
		log.Printf("🚨 Tampered match detected - ID: %s, Details: %v", record.ID, finding.Details)
	}
	sendJSON(w, http.StatusOK, finding)
}

// HandleResolveProof resolves a share code to its stored match record
// GET /api/proof/:code
func HandleResolveProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET.")
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/proof/")
	if code == "" || strings.Contains(code, "/") {
		sendError(w, http.StatusBadRequest, "Share code is required")
		return
	}
	code = strings.ToUpper(code)

	ctx := r.Context()

	// Redis index first, PostgreSQL as fallback
	if matchID, err := db.ResolveShareCode(ctx, code); err == nil && matchID != "" {
		record, err := db.GetVerifiedMatch(ctx, matchID)
		if err == nil && record != nil {
			sendJSON(w, http.StatusOK, record)
			return
		}
	}

	record, err := db.GetMatchByShareCode(ctx, code)
	if err != nil {
		log.Printf("❌ Failed to resolve share code %s: %v", code, err)
		sendError(w, http.StatusInternalServerError, "Failed to resolve share code")
		return
	}
	if record == nil {
		sendError(w, http.StatusNotFound, "No match found for this share code")
		return
	}
	sendJSON(w, http.StatusOK, record)
}
