package replay

import "goMatchServer/match"

// State is the observable match state at a point in simulated time:
// running score plus the events visible so far.
type State struct {
	HomeScore int                `json:"homeScore"`
	AwayScore int                `json:"awayScore"`
	Events    []match.MatchEvent `json:"events"`
}

// StateAt reconstructs the state at targetMs in one pass over the log.
// An event at exactly targetMs counts as visible. The result is required
// to match what a play-through delivering events up to targetMs produces;
// the session's SkipTo relies on that equivalence instead of firing a
// callback per skipped event.
func StateAt(events []match.MatchEvent, targetMs int64) State {
	if targetMs < 0 {
		targetMs = 0
	}
	state := State{Events: []match.MatchEvent{}}
	for _, ev := range events {
		if ev.SimulatedTimeMs > targetMs {
			break
		}
		state.Events = append(state.Events, ev)
		if ev.Kind == match.EventGoal {
			if ev.Team == match.TeamHome {
				state.HomeScore++
			} else {
				state.AwayScore++
			}
		}
	}
	return state
}
