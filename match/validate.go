package match

import (
	"fmt"

	"goMatchServer/config"
)

var validKinds = map[EventKind]bool{
	EventGoal:         true,
	EventAssist:       true,
	EventShot:         true,
	EventTackle:       true,
	EventFoul:         true,
	EventCard:         true,
	EventSave:         true,
	EventSubstitution: true,
	EventPenalty:      true,
	EventInjury:       true,
}

// Validate checks a record against the input contract. The score/goal-count
// invariant is deliberately NOT checked here: it is the fact the integrity
// scheme protects, and the reverifier reports on it instead.
func Validate(r *MatchRecord) error {
	if r == nil {
		return &ValidationError{Field: "record", Reason: "is nil"}
	}
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if r.HomeTeamName == "" || len(r.HomeTeamName) > config.MaxTeamNameLength {
		return &ValidationError{Field: "homeTeamName", Reason: fmt.Sprintf("must be 1-%d characters", config.MaxTeamNameLength)}
	}
	if r.AwayTeamName == "" || len(r.AwayTeamName) > config.MaxTeamNameLength {
		return &ValidationError{Field: "awayTeamName", Reason: fmt.Sprintf("must be 1-%d characters", config.MaxTeamNameLength)}
	}
	if r.DurationMinutes < config.MinDurationMinutes || r.DurationMinutes > config.MaxDurationMinutes {
		return &ValidationError{Field: "durationMinutes", Reason: fmt.Sprintf("must be %d-%d", config.MinDurationMinutes, config.MaxDurationMinutes)}
	}
	if r.HomeScore < 0 {
		return &ValidationError{Field: "homeScore", Reason: "must be a non-negative integer"}
	}
	if r.AwayScore < 0 {
		return &ValidationError{Field: "awayScore", Reason: "must be a non-negative integer"}
	}
	if r.ParticipantID == "" || len(r.ParticipantID) > config.MaxParticipantLength {
		return &ValidationError{Field: "participantId", Reason: fmt.Sprintf("must be 1-%d characters", config.MaxParticipantLength)}
	}
	switch r.Outcome {
	case OutcomeWin, OutcomeLoss, OutcomeDraw:
	default:
		return &ValidationError{Field: "outcome", Reason: fmt.Sprintf("unknown outcome %q", r.Outcome)}
	}
	if len(r.Events) > config.MaxEventsPerMatch {
		return &ValidationError{Field: "events", Reason: fmt.Sprintf("too many events (max %d)", config.MaxEventsPerMatch)}
	}

	durationMs := r.DurationMs()
	prev := int64(0)
	for i, ev := range r.Events {
		field := fmt.Sprintf("events[%d]", i)
		if !validKinds[ev.Kind] {
			return &ValidationError{Field: field + ".kind", Reason: fmt.Sprintf("unknown kind %q", ev.Kind)}
		}
		if ev.SimulatedTimeMs < 0 {
			return &ValidationError{Field: field + ".simulatedTimeMs", Reason: "must be non-negative"}
		}
		if ev.SimulatedTimeMs < prev {
			return &ValidationError{Field: field + ".simulatedTimeMs", Reason: "timestamps must be non-decreasing"}
		}
		if ev.SimulatedTimeMs > durationMs {
			return &ValidationError{Field: field + ".simulatedTimeMs", Reason: "beyond match duration"}
		}
		if ev.Team != TeamHome && ev.Team != TeamAway {
			return &ValidationError{Field: field + ".team", Reason: fmt.Sprintf("unknown team %q", ev.Team)}
		}
		if ev.Actor == "" || len(ev.Actor) > config.MaxActorLength {
			return &ValidationError{Field: field + ".actor", Reason: fmt.Sprintf("must be 1-%d characters", config.MaxActorLength)}
		}
		if len(ev.Description) > config.MaxDescriptionLength {
			return &ValidationError{Field: field + ".description", Reason: fmt.Sprintf("longer than %d characters", config.MaxDescriptionLength)}
		}
		prev = ev.SimulatedTimeMs
	}
	return nil
}

// CountGoals independently recounts goal events per side. The reverifier
// compares this against the claimed score before blaming the digest.
func CountGoals(events []MatchEvent) (home, away int) {
	for _, ev := range events {
		if ev.Kind != EventGoal {
			continue
		}
		if ev.Team == TeamHome {
			home++
		} else {
			away++
		}
	}
	return home, away
}
