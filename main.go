package main

import (
	"log"
	"net/http"

	"goMatchServer/api"
	"goMatchServer/config"
	"goMatchServer/crypto"
	"goMatchServer/db"
	"goMatchServer/match"
	"goMatchServer/ws"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables")
	} else {
		log.Println("✅ Loaded environment variables from .env")
	}

	// Load the seal key. Without a persistent key, records sealed by this
	// process cannot be reverified after a restart.
	key, err := crypto.LoadSealKey()
	if err != nil {
		log.Printf("⚠️  Warning: %v", err)
		log.Println("   Generating an ephemeral seal key - seals will NOT survive a restart")
		key, _ = crypto.GenerateSealKey()
	}
	sealer, err := match.NewSealer(key)
	if err != nil {
		log.Fatalf("❌ Failed to create sealer: %v", err)
	}
	api.SetSealer(sealer)

	// Initialize database connections
	if err := db.InitPostgres(); err != nil {
		log.Printf("⚠️  Warning: PostgreSQL initialization failed: %v", err)
		log.Println("   Match history and replay-by-id features will be disabled")
	}
	defer db.ClosePostgres()

	if err := db.InitRedis(); err != nil {
		log.Printf("⚠️  Warning: Redis initialization failed: %v", err)
		log.Println("   Finding cache and share-code index will be disabled")
	}
	defer db.CloseRedis()

	// WebSocket endpoints
	http.HandleFunc("/ws/replay", ws.HandleReplayWS)

	// API endpoints
	http.HandleFunc("/api/verify", api.CORSMiddleware(api.HandleVerifyMatch))
	http.HandleFunc("/api/reverify", api.CORSMiddleware(api.HandleReverifyMatch))
	http.HandleFunc("/api/proof/", api.CORSMiddleware(api.HandleResolveProof))
	http.HandleFunc("/api/match", api.CORSMiddleware(api.HandleGetMatchHistory))
	http.HandleFunc("/api/match/", api.CORSMiddleware(api.HandleGetMatchDetail))
	http.HandleFunc("/api/health", api.CORSMiddleware(api.HandleHealthCheck))

	addr := config.ServerHost + ":" + config.ServerPort
	log.Printf("🚀 Server starting on %s", addr)
	log.Println("")
	log.Println("📡 WebSocket Endpoints:")
	log.Println("   ws://localhost:8080/ws/replay?matchId=<id> - Match replay stream")
	log.Println("   - Send {\"type\":\"play\"} / \"pause\" / \"stop\"")
	log.Println("   - Send {\"type\":\"seek\",\"targetMs\":n} to jump (snapshot comes back)")
	log.Println("   - Send {\"type\":\"speed\",\"multiplier\":x} to change playback speed")
	log.Println("")
	log.Println("🔌 API Endpoints:")
	log.Println("   POST /api/verify - Seal a completed match record")
	log.Println("   POST /api/reverify - Tamper-check a stored or supplied record")
	log.Println("   GET  /api/proof/:code - Resolve a share code")
	log.Println("   GET  /api/match - Recent verified matches")
	log.Println("   GET  /api/match/:id - Single verified match")
	log.Println("   GET  /api/health - Health check (Redis + PostgreSQL)")
	log.Println("")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal("❌ Server error:", err)
	}
}
