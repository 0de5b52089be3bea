package match

import (
	"bytes"
	"testing"
)

func testRecord() *MatchRecord {
	return &MatchRecord{
		ID:              "match-123",
		HomeTeamName:    "Crimson United",
		AwayTeamName:    "Azure City",
		DurationMinutes: 90,
		HomeScore:       2,
		AwayScore:       1,
		ParticipantID:   "player-alice",
		Outcome:         OutcomeWin,
		Events: []MatchEvent{
			{Kind: EventGoal, SimulatedTimeMs: 900000, Team: TeamHome, Actor: "Keane", Description: "Header from the corner"},
			{Kind: EventGoal, SimulatedTimeMs: 1800000, Team: TeamAway, Actor: "Moreno", Description: "Counter-attack finish"},
			{Kind: EventCard, SimulatedTimeMs: 2400000, Team: TeamAway, Actor: "Silva", Description: "Late challenge", Extra: map[string]string{"color": "yellow"}},
			{Kind: EventGoal, SimulatedTimeMs: 2700000, Team: TeamHome, Actor: "Adeyemi", Description: "Penalty, bottom left"},
		},
	}
}

func TestCanonicalize(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a := Canonicalize(testRecord())
		b := Canonicalize(testRecord())
		if !bytes.Equal(a, b) {
			t.Fatal("identical records produced different canonical bytes")
		}
	})

	t.Run("ExtraMapOrderIndependent", func(t *testing.T) {
		r1 := testRecord()
		r1.Events[2].Extra = map[string]string{"color": "yellow", "minute": "40"}
		r2 := testRecord()
		r2.Events[2].Extra = map[string]string{"minute": "40", "color": "yellow"}
		if !bytes.Equal(Canonicalize(r1), Canonicalize(r2)) {
			t.Fatal("extra map insertion order leaked into canonical bytes")
		}
	})

	t.Run("FieldSensitivity", func(t *testing.T) {
		base := Canonicalize(testRecord())

		mutations := map[string]func(*MatchRecord){
			"homeScore":       func(r *MatchRecord) { r.HomeScore = 3 },
			"awayScore":       func(r *MatchRecord) { r.AwayScore = 2 },
			"durationMinutes": func(r *MatchRecord) { r.DurationMinutes = 45 },
			"participantId":   func(r *MatchRecord) { r.ParticipantID = "player-mallory" },
			"outcome":         func(r *MatchRecord) { r.Outcome = OutcomeDraw },
			"eventKind":       func(r *MatchRecord) { r.Events[0].Kind = EventShot },
			"eventTime":       func(r *MatchRecord) { r.Events[0].SimulatedTimeMs++ },
			"eventTeam":       func(r *MatchRecord) { r.Events[0].Team = TeamAway },
			"eventActor":      func(r *MatchRecord) { r.Events[0].Actor = "Kean" },
			"eventExtra":      func(r *MatchRecord) { r.Events[2].Extra["color"] = "red" },
			"eventRemoved":    func(r *MatchRecord) { r.Events = r.Events[:len(r.Events)-1] },
			"eventAdded": func(r *MatchRecord) {
				r.Events = append(r.Events, MatchEvent{Kind: EventFoul, SimulatedTimeMs: 2800000, Team: TeamHome, Actor: "Dale"})
			},
			"eventsReordered": func(r *MatchRecord) {
				r.Events[0], r.Events[1] = r.Events[1], r.Events[0]
			},
		}

		for name, mutate := range mutations {
			r := testRecord()
			mutate(r)
			if bytes.Equal(base, Canonicalize(r)) {
				t.Errorf("mutation %q did not change canonical bytes", name)
			}
		}
	})

	t.Run("NoFieldBleed", func(t *testing.T) {
		// Moving a character across a field boundary must not collide,
		// which is what the length prefixes are for.
		r1 := testRecord()
		r1.HomeTeamName = "AB"
		r1.AwayTeamName = "C"
		r2 := testRecord()
		r2.HomeTeamName = "A"
		r2.AwayTeamName = "BC"
		if bytes.Equal(Canonicalize(r1), Canonicalize(r2)) {
			t.Fatal("adjacent string fields collided")
		}
	})
}
