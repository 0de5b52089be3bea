package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"goMatchServer/config"
	"goMatchServer/match"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

var (
	sealer   *match.Sealer
	sealerMu sync.RWMutex
)

// SetSealer injects the sealer used by the verify/reverify endpoints
func SetSealer(s *match.Sealer) {
	sealerMu.Lock()
	defer sealerMu.Unlock()
	sealer = s
	log.Println("✅ Sealer configured for verification endpoints")
}

func getSealer() *match.Sealer {
	sealerMu.RLock()
	defer sealerMu.RUnlock()
	return sealer
}

func sendError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message})
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// CORSMiddleware adds CORS headers to allow frontend requests
func CORSMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = config.AllowOrigin
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight OPTIONS request
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler(w, r)
	}
}
