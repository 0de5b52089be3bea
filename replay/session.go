package replay

import (
	"errors"
	"sync"
	"time"

	"goMatchServer/config"
	"goMatchServer/match"
)

// RunState is the scheduler's lifecycle state.
type RunState string

const (
	StateIdle    RunState = "idle"
	StatePlaying RunState = "playing"
	StatePaused  RunState = "paused"
)

// ErrInvalidSpeed rejects setSpeed(0) and negative multipliers at the
// call boundary.
var ErrInvalidSpeed = errors.New("speed multiplier must be greater than zero")

// Session plays a match event log back in simulated time. One session
// per playback surface; sessions share nothing and may run concurrently.
//
// Internally every scheduled delivery carries the generation counter it
// was created under. Pause, SetSpeed, SkipTo and Stop bump the counter,
// so a timer that already left the gate finds its generation stale and
// does nothing. That is the whole cancellation model: no timer from
// before a speed change or seek can ever fire into the new horizon.
type Session struct {
	mu         sync.Mutex
	events     []match.MatchEvent
	durationMs int64

	cursorMs int64
	nextIdx  int
	speed    float64
	state    RunState

	// completed marks a session that has played out to full time. Play is
	// a no-op on a completed session until Stop or SkipTo resets it.
	completed bool

	// delivering is true while a batch's callbacks run outside the lock.
	// Control ops update state but leave rescheduling to the in-flight
	// delivery, so no timer can fire into the middle of a batch.
	delivering bool

	gen        uint64
	timer      *time.Timer
	onEvent    func(match.MatchEvent)
	onComplete func()
}

// NewSession creates an idle session over a match's event log. The log is
// expected to be sorted by simulated time (the record validator enforces
// this upstream); ties keep their insertion order.
func NewSession(events []match.MatchEvent, durationMs int64) *Session {
	if durationMs < 0 {
		durationMs = 0
	}
	return &Session{
		events:     events,
		durationMs: durationMs,
		speed:      config.DefaultSpeedMultiplier,
		state:      StateIdle,
	}
}

// SetOnComplete registers a callback fired when playback reaches the end
// of the match. Call before Play.
func (s *Session) SetOnComplete(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = fn
}

// Play starts or resumes delivery. Events are delivered strictly in log
// order at wall delay (eventMs - cursorMs) / speed. Calling Play while
// already playing, or after the session has completed, is a no-op; a
// completed session replays only after Stop or SkipTo. An empty log
// completes immediately without delivering any events.
func (s *Session) Play(onEvent func(match.MatchEvent)) {
	s.mu.Lock()

	if s.state == StatePlaying || s.completed {
		s.mu.Unlock()
		return
	}
	if onEvent != nil {
		s.onEvent = onEvent
	}
	if s.nextIdx >= len(s.events) {
		// Nothing left to deliver: an empty log completes immediately,
		// with no event callbacks.
		onComplete := s.completeLocked()
		s.mu.Unlock()
		if onComplete != nil {
			onComplete()
		}
		return
	}
	s.state = StatePlaying
	if !s.delivering {
		s.scheduleLocked()
	}
	s.mu.Unlock()
}

// Pause cancels pending deliveries. The cursor stays exactly where the
// last delivered event left it.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return
	}
	s.cancelLocked()
	s.state = StatePaused
}

// Stop cancels pending work and resets the session to the beginning.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.cursorMs = 0
	s.nextIdx = 0
	s.completed = false
	s.state = StateIdle
}

// SetSpeed changes the playback multiplier. Zero and negative values are
// rejected; values above the configured ceiling are clamped. While
// playing, the pending delivery is cancelled and rescheduled under the
// new speed in one step, so nothing fires twice and nothing is dropped.
func (s *Session) SetSpeed(multiplier float64) error {
	if multiplier <= 0 || multiplier != multiplier {
		return ErrInvalidSpeed
	}
	if multiplier > config.MaxSpeedMultiplier {
		multiplier = config.MaxSpeedMultiplier
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.speed = multiplier
	if s.state == StatePlaying && !s.delivering {
		s.cancelLocked()
		s.scheduleLocked()
	}
	return nil
}

// SkipTo moves the cursor to targetMs, clamped into [0, duration].
// Skipped-over events are not delivered individually; callers read the
// aggregate state with StateAt. While playing, remaining future events
// are rescheduled relative to the new cursor.
func (s *Session) SkipTo(targetMs int64) {
	if targetMs < 0 {
		targetMs = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if targetMs > s.durationMs {
		targetMs = s.durationMs
	}
	s.cancelLocked()
	s.cursorMs = targetMs
	s.completed = false

	// Events at exactly targetMs count as already seen, matching StateAt.
	s.nextIdx = 0
	for s.nextIdx < len(s.events) && s.events[s.nextIdx].SimulatedTimeMs <= targetMs {
		s.nextIdx++
	}

	if s.state == StatePlaying && !s.delivering {
		s.scheduleLocked()
	}
}

// StateAt is the read-only aggregate query over this session's log.
func (s *Session) StateAt(targetMs int64) State {
	s.mu.Lock()
	events := s.events
	duration := s.durationMs
	s.mu.Unlock()

	if targetMs > duration {
		targetMs = duration
	}
	return StateAt(events, targetMs)
}

// Cursor returns the current simulated-time position.
func (s *Session) Cursor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorMs
}

// Speed returns the current playback multiplier.
func (s *Session) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// RunState returns the scheduler state.
func (s *Session) RunState() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// DurationMs returns the session's total simulated length.
func (s *Session) DurationMs() int64 {
	return s.durationMs
}

// cancelLocked invalidates any pending delivery. Bumping the generation
// is what actually cancels; stopping the timer is just an optimization.
func (s *Session) cancelLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// scheduleLocked arms a timer for the next undelivered event, or for
// match completion when the log is exhausted.
func (s *Session) scheduleLocked() {
	gen := s.gen

	if s.nextIdx >= len(s.events) {
		delay := s.wallDelayLocked(s.durationMs)
		s.timer = time.AfterFunc(delay, func() { s.finish(gen) })
		return
	}

	delay := s.wallDelayLocked(s.events[s.nextIdx].SimulatedTimeMs)
	s.timer = time.AfterFunc(delay, func() { s.deliver(gen) })
}

func (s *Session) wallDelayLocked(targetMs int64) time.Duration {
	remaining := targetMs - s.cursorMs
	if remaining < 0 {
		remaining = 0
	}
	return time.Duration(float64(remaining) / s.speed * float64(time.Millisecond))
}

// deliver fires for the next event and every later event sharing its
// timestamp, preserving log order for ties. Callbacks run outside the
// lock so a callback may drive the session (pause on a red card, say)
// without deadlocking.
func (s *Session) deliver(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state != StatePlaying || s.nextIdx >= len(s.events) {
		s.mu.Unlock()
		return
	}

	due := s.events[s.nextIdx].SimulatedTimeMs
	s.cursorMs = due
	start := s.nextIdx
	for s.nextIdx < len(s.events) && s.events[s.nextIdx].SimulatedTimeMs == due {
		s.nextIdx++
	}
	batch := s.events[start:s.nextIdx]
	onEvent := s.onEvent
	s.delivering = true
	s.mu.Unlock()

	if onEvent != nil {
		for _, ev := range batch {
			onEvent(ev)
		}
	}

	// Arm the next delivery only after the batch has gone out, so a tight
	// pair of timestamps still arrives in log order. While delivering was
	// set, control ops (a mid-batch seek or speed change, from a callback
	// or another goroutine) updated cursor, index and speed but armed no
	// timer, so scheduling from here sees their final word.
	s.mu.Lock()
	s.delivering = false
	if s.state == StatePlaying {
		s.scheduleLocked()
	}
	s.mu.Unlock()
}

// finish transitions a played-out session back to idle at full time.
func (s *Session) finish(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	onComplete := s.completeLocked()
	s.mu.Unlock()

	if onComplete != nil {
		onComplete()
	}
}

func (s *Session) completeLocked() func() {
	s.cancelLocked()
	s.cursorMs = s.durationMs
	s.completed = true
	s.state = StateIdle
	return s.onComplete
}
