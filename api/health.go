package api

import (
	"net/http"

	"goMatchServer/db"
)

// HandleHealthCheck reports the state of everything verification and
// replay depend on: the sealer, the finding cache and the match store
// GET /api/health
func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET.")
		return
	}

	ctx := r.Context()

	sealerHealth := "ok"
	if getSealer() == nil {
		sealerHealth = "error: sealer not configured"
	}

	redisHealth := "ok"
	if err := db.HealthCheck(ctx); err != nil {
		redisHealth = "error: " + err.Error()
	}

	postgresHealth := "ok"
	if err := db.HealthCheckPostgres(ctx); err != nil {
		postgresHealth = "error: " + err.Error()
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"sealer":   sealerHealth,
		"redis":    redisHealth,
		"postgres": postgresHealth,
	})
}
