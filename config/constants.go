package config

import "time"

/* =========================
   MATCH VALIDATION
========================= */

const (
	// Duration limits for incoming match records
	MinDurationMinutes = 1
	MaxDurationMinutes = 120

	// Maximum events accepted in a single match log
	MaxEventsPerMatch = 2000

	// Maximum lengths for free-text fields
	MaxTeamNameLength    = 64
	MaxActorLength       = 64
	MaxDescriptionLength = 256
	MaxParticipantLength = 128
)

/* =========================
   INTEGRITY / PROOF ENCODING
========================= */

const (
	// Hash algorithm name recorded alongside every digest
	DigestAlgorithm = "sha256"

	// Proof string: MV1-<ProofDigestChars hex>-<4 hex checksum>
	ProofTag         = "MV1"
	ProofDigestChars = 20

	// Share code: Crockford base32, grouped XXXX-XXXX-XXXX
	ShareCodeChars     = 12
	ShareCodeGroupSize = 4

	// Environment variable holding the hex-encoded seal key
	SealKeyEnv = "SEAL_KEY"
)

/* =========================
   REPLAY DEFAULTS
========================= */

const (
	DefaultSpeedMultiplier = 1.0
	MaxSpeedMultiplier     = 64.0
)

/* =========================
   REDIS TTL CONFIGURATION
========================= */

const (
	// Cached reverification findings (10 minutes)
	// Key: verify:finding:{matchId}
	FindingCacheTTL = 10 * time.Minute

	// Share code -> match id index (30 days)
	// Key: match:share:{code}
	ShareCodeTTL = 30 * 24 * time.Hour
)

/* =========================
   REDIS KEY PATTERNS
========================= */

const (
	RedisFindingKey   = "verify:finding:%s" // verify:finding:{matchId}
	RedisShareCodeKey = "match:share:%s"    // match:share:{code}
)

/* =========================
   POSTGRESQL CONFIGURATION
========================= */

const (
	// Connection pool settings
	MaxOpenConns    = 25
	MinIdleConns    = 5
	ConnMaxLifetime = 5 * time.Minute
)

/* =========================
   API CONFIGURATION
========================= */

const (
	// Server settings
	ServerPort = "8080"
	ServerHost = "0.0.0.0"

	// CORS settings
	AllowOrigin = "*"

	// Default and maximum page size for match history listing
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

/* =========================
   WEBSOCKET CONFIGURATION
========================= */

const (
	// WebSocket settings
	WSReadDeadline  = 120 * time.Second
	WSWriteDeadline = 10 * time.Second

	// Ping cadence; must fire well inside WSReadDeadline so an idle but
	// healthy viewer keeps its connection through long event gaps
	WSPingInterval = 45 * time.Second

	// Buffer sizes
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024

	// Message size limits
	MaxMessageSize = 64 * 1024 // 64KB control messages
)
