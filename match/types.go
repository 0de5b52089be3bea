package match

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// EventKind identifies what happened at a point in the match.
type EventKind string

const (
	EventGoal         EventKind = "goal"
	EventAssist       EventKind = "assist"
	EventShot         EventKind = "shot"
	EventTackle       EventKind = "tackle"
	EventFoul         EventKind = "foul"
	EventCard         EventKind = "card"
	EventSave         EventKind = "save"
	EventSubstitution EventKind = "substitution"
	EventPenalty      EventKind = "penalty"
	EventInjury       EventKind = "injury"
)

// Team identifies which side an event belongs to.
type Team string

const (
	TeamHome Team = "home"
	TeamAway Team = "away"
)

// Outcome is the result claimed by the participant.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// MatchEvent is a single entry in the append-only match log.
// SimulatedTimeMs is non-decreasing across the log; equal timestamps keep
// their insertion order.
type MatchEvent struct {
	Kind            EventKind         `json:"kind"`
	SimulatedTimeMs int64             `json:"simulatedTimeMs"`
	Team            Team              `json:"team"`
	Actor           string            `json:"actor"`
	Description     string            `json:"description"`
	Extra           map[string]string `json:"extra,omitempty"` // kind-specific, e.g. card color
}

// MatchRecord is a completed match as produced by the upstream simulation.
type MatchRecord struct {
	ID              string       `json:"id"`
	HomeTeamName    string       `json:"homeTeamName"`
	AwayTeamName    string       `json:"awayTeamName"`
	DurationMinutes int          `json:"durationMinutes"`
	HomeScore       int          `json:"homeScore"`
	AwayScore       int          `json:"awayScore"`
	Events          []MatchEvent `json:"events"`
	ParticipantID   string       `json:"participantId"`
	Outcome         Outcome      `json:"outcome"`
}

// DurationMs returns the match length in simulated milliseconds.
func (r *MatchRecord) DurationMs() int64 {
	return int64(r.DurationMinutes) * 60 * 1000
}

// HexBytes marshals as a hex string, which is how digests and seals
// travel over the API and land in storage.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex value: %w", err)
	}
	*h = decoded
	return nil
}

// Digest is the integrity hash over a record's canonical bytes.
type Digest struct {
	Value     HexBytes `json:"value"`
	Algorithm string   `json:"algorithm"`
}

// VerifiedMatchRecord is a MatchRecord after sealing. Created once by
// Sealer.Verify; reverification reports findings instead of mutating it.
type VerifiedMatchRecord struct {
	MatchRecord
	Digest            Digest   `json:"digest"`
	Seal              HexBytes `json:"seal"`
	Proof             string   `json:"proof"`
	ShareCode         string   `json:"shareCode"`
	IntegrityVerified bool     `json:"integrityVerified"`
}

// VerificationFinding is the reverifier's report. Tampering is an
// expected user-facing outcome, so it is a value, never an error.
type VerificationFinding struct {
	StillValid bool     `json:"stillValid"`
	Details    []string `json:"details"`
}

// ValidationError rejects a malformed input record before it reaches
// canonicalization. Nothing is silently coerced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid match record: %s: %s", e.Field, e.Reason)
}
