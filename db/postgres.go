package db

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"goMatchServer/config"
	"goMatchServer/match"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// PostgresPool is the global PostgreSQL connection pool
	PostgresPool *pgxpool.Pool
)

// InitPostgres initializes the PostgreSQL connection pool
func InitPostgres() error {
	log.Println("🔌 Connecting to PostgreSQL...")

	// Get DATABASE_URL from environment
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = config.MaxOpenConns
	poolConfig.MinConns = config.MinIdleConns
	poolConfig.MaxConnLifetime = config.ConnMaxLifetime

	PostgresPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := PostgresPool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ PostgreSQL connected successfully")

	// Initialize schema
	if err := InitSchema(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// ClosePostgres closes the PostgreSQL connection pool
func ClosePostgres() {
	if PostgresPool != nil {
		log.Println("🔌 Closing PostgreSQL connection...")
		PostgresPool.Close()
	}
}

// InitSchema creates the database tables if they don't exist
func InitSchema(ctx context.Context) error {
	log.Println("📋 Initializing database schema...")

	matchHistorySchema := `
	CREATE TABLE IF NOT EXISTS match_history (
		id SERIAL PRIMARY KEY,
		match_id TEXT NOT NULL UNIQUE,
		participant_id TEXT NOT NULL,
		home_team_name TEXT NOT NULL,
		away_team_name TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		home_score INTEGER NOT NULL,
		away_score INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		events JSONB NOT NULL,
		digest TEXT NOT NULL,
		digest_algorithm TEXT NOT NULL,
		seal TEXT NOT NULL,
		proof TEXT NOT NULL,
		share_code TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Index on match_id for fast lookups
	CREATE INDEX IF NOT EXISTS idx_match_history_match_id ON match_history(match_id);

	-- Index on participant_id for per-player history
	CREATE INDEX IF NOT EXISTS idx_match_history_participant ON match_history(participant_id);

	-- Index on share_code for proof resolution
	CREATE INDEX IF NOT EXISTS idx_match_history_share_code ON match_history(share_code);

	-- Index on created_at for time-based queries
	CREATE INDEX IF NOT EXISTS idx_match_history_created_at ON match_history(created_at DESC);
	`

	if _, err := PostgresPool.Exec(ctx, matchHistorySchema); err != nil {
		return fmt.Errorf("failed to create match_history table: %w", err)
	}

	log.Println("✅ Database schema initialized")
	return nil
}

/* =========================
   MATCH HISTORY
========================= */

// StoreVerifiedMatch stores a sealed match record in PostgreSQL
func StoreVerifiedMatch(ctx context.Context, rec *match.VerifiedMatchRecord) error {
	if PostgresPool == nil {
		log.Println("⚠️  PostgreSQL not initialized, skipping match storage")
		return nil
	}

	eventsJSON, err := json.Marshal(rec.Events)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	query := `
		INSERT INTO match_history
		(match_id, participant_id, home_team_name, away_team_name, duration_minutes,
		 home_score, away_score, outcome, events, digest, digest_algorithm, seal,
		 proof, share_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (match_id) DO NOTHING
	`

	_, err = PostgresPool.Exec(
		ctx,
		query,
		rec.ID,
		rec.ParticipantID,
		rec.HomeTeamName,
		rec.AwayTeamName,
		rec.DurationMinutes,
		rec.HomeScore,
		rec.AwayScore,
		string(rec.Outcome),
		eventsJSON,
		hex.EncodeToString(rec.Digest.Value),
		rec.Digest.Algorithm,
		hex.EncodeToString(rec.Seal),
		rec.Proof,
		rec.ShareCode,
		time.Now().UTC(),
	)

	if err != nil {
		return fmt.Errorf("failed to store match history: %w", err)
	}

	log.Printf("✅ Stored match - ID: %s, Score: %d-%d, Participant: %s",
		rec.ID, rec.HomeScore, rec.AwayScore, rec.ParticipantID)
	return nil
}

// GetVerifiedMatch retrieves a sealed match record by match ID
func GetVerifiedMatch(ctx context.Context, matchID string) (*match.VerifiedMatchRecord, error) {
	if PostgresPool == nil {
		return nil, nil
	}

	query := `
		SELECT match_id, participant_id, home_team_name, away_team_name, duration_minutes,
		       home_score, away_score, outcome, events, digest, digest_algorithm, seal,
		       proof, share_code
		FROM match_history
		WHERE match_id = $1
	`

	rec, err := scanVerifiedMatch(PostgresPool.QueryRow(ctx, query, matchID))
	if err == pgx.ErrNoRows {
		return nil, nil // Match not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match history: %w", err)
	}
	return rec, nil
}

// GetMatchByShareCode resolves a share code to its sealed match record
func GetMatchByShareCode(ctx context.Context, shareCode string) (*match.VerifiedMatchRecord, error) {
	if PostgresPool == nil {
		return nil, nil
	}

	query := `
		SELECT match_id, participant_id, home_team_name, away_team_name, duration_minutes,
		       home_score, away_score, outcome, events, digest, digest_algorithm, seal,
		       proof, share_code
		FROM match_history
		WHERE share_code = $1
	`

	rec, err := scanVerifiedMatch(PostgresPool.QueryRow(ctx, query, shareCode))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve share code: %w", err)
	}
	return rec, nil
}

// GetRecentMatches retrieves the N most recent sealed matches
func GetRecentMatches(ctx context.Context, limit int) ([]*match.VerifiedMatchRecord, error) {
	if PostgresPool == nil {
		return []*match.VerifiedMatchRecord{}, nil
	}

	query := `
		SELECT match_id, participant_id, home_team_name, away_team_name, duration_minutes,
		       home_score, away_score, outcome, events, digest, digest_algorithm, seal,
		       proof, share_code
		FROM match_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := PostgresPool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match history: %w", err)
	}
	defer rows.Close()

	var records []*match.VerifiedMatchRecord
	for rows.Next() {
		rec, err := scanVerifiedMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVerifiedMatch(row rowScanner) (*match.VerifiedMatchRecord, error) {
	var rec match.VerifiedMatchRecord
	var outcome string
	var eventsJSON []byte
	var digestHex, sealHex string

	err := row.Scan(
		&rec.MatchRecord.ID,
		&rec.ParticipantID,
		&rec.HomeTeamName,
		&rec.AwayTeamName,
		&rec.DurationMinutes,
		&rec.HomeScore,
		&rec.AwayScore,
		&outcome,
		&eventsJSON,
		&digestHex,
		&rec.Digest.Algorithm,
		&sealHex,
		&rec.Proof,
		&rec.ShareCode,
	)
	if err != nil {
		return nil, err
	}

	rec.Outcome = match.Outcome(outcome)
	if err := json.Unmarshal(eventsJSON, &rec.Events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode digest: %w", err)
	}
	seal, err := hex.DecodeString(sealHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seal: %w", err)
	}
	rec.Digest.Value = digest
	rec.Seal = seal
	rec.IntegrityVerified = true
	return &rec, nil
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheckPostgres performs a PostgreSQL health check
func HealthCheckPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return fmt.Errorf("PostgreSQL connection pool not initialized")
	}
	return PostgresPool.Ping(ctx)
}
