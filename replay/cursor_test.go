package replay

import (
	"testing"

	"goMatchServer/match"
)

func testEvents() []match.MatchEvent {
	return []match.MatchEvent{
		{Kind: match.EventShot, SimulatedTimeMs: 420000, Team: match.TeamHome, Actor: "Keane"},
		{Kind: match.EventGoal, SimulatedTimeMs: 900000, Team: match.TeamHome, Actor: "Keane"},
		{Kind: match.EventGoal, SimulatedTimeMs: 1800000, Team: match.TeamAway, Actor: "Moreno"},
		{Kind: match.EventCard, SimulatedTimeMs: 1800000, Team: match.TeamAway, Actor: "Silva"},
		{Kind: match.EventGoal, SimulatedTimeMs: 2700000, Team: match.TeamHome, Actor: "Adeyemi"},
	}
}

func TestStateAt(t *testing.T) {
	events := testEvents()

	t.Run("BeforeFirstEvent", func(t *testing.T) {
		state := StateAt(events, 100)
		if state.HomeScore != 0 || state.AwayScore != 0 || len(state.Events) != 0 {
			t.Errorf("expected empty state, got %+v", state)
		}
	})

	t.Run("MidMatch", func(t *testing.T) {
		state := StateAt(events, 1000000)
		if state.HomeScore != 1 || state.AwayScore != 0 {
			t.Errorf("expected 1-0, got %d-%d", state.HomeScore, state.AwayScore)
		}
		if len(state.Events) != 2 {
			t.Errorf("expected 2 visible events, got %d", len(state.Events))
		}
	})

	t.Run("BoundaryInclusive", func(t *testing.T) {
		state := StateAt(events, 900000)
		if state.HomeScore != 1 {
			t.Errorf("event at exactly targetMs must be visible, got home=%d", state.HomeScore)
		}
	})

	t.Run("TiedTimestampsKeepOrder", func(t *testing.T) {
		state := StateAt(events, 1800000)
		if len(state.Events) != 4 {
			t.Fatalf("expected 4 visible events, got %d", len(state.Events))
		}
		if state.Events[2].Kind != match.EventGoal || state.Events[3].Kind != match.EventCard {
			t.Error("tied events delivered out of insertion order")
		}
		if state.HomeScore != 1 || state.AwayScore != 1 {
			t.Errorf("expected 1-1, got %d-%d", state.HomeScore, state.AwayScore)
		}
	})

	t.Run("FullMatch", func(t *testing.T) {
		state := StateAt(events, 5400000)
		if state.HomeScore != 2 || state.AwayScore != 1 {
			t.Errorf("expected 2-1, got %d-%d", state.HomeScore, state.AwayScore)
		}
		if len(state.Events) != len(events) {
			t.Errorf("expected all events visible, got %d", len(state.Events))
		}
	})

	t.Run("NegativeTargetClamps", func(t *testing.T) {
		state := StateAt(events, -50)
		if len(state.Events) != 0 {
			t.Errorf("expected empty state for negative target, got %d events", len(state.Events))
		}
	})

	t.Run("EmptyLog", func(t *testing.T) {
		// Scenario: no events, any target reconstructs to 0-0 with
		// nothing visible.
		for _, target := range []int64{0, 1, 2700000, 1 << 40} {
			state := StateAt(nil, target)
			if state.HomeScore != 0 || state.AwayScore != 0 || len(state.Events) != 0 {
				t.Errorf("target %d: expected {0,0,[]}, got %+v", target, state)
			}
		}
	})
}
