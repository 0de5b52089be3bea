package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"goMatchServer/config"
	"goMatchServer/db"
	"goMatchServer/match"
	"goMatchServer/replay"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  config.WSReadBufferSize,
	WriteBufferSize: config.WSWriteBufferSize,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var clientCount int64

// ControlMessage is what the playback UI sends over the socket
type ControlMessage struct {
	Type       string  `json:"type"` // play, pause, stop, seek, speed, state
	TargetMs   int64   `json:"targetMs,omitempty"`
	Multiplier float64 `json:"multiplier,omitempty"`
	AtMs       int64   `json:"atMs,omitempty"`
}

// replayClient wraps a connection with a write mutex so the timer
// goroutine delivering events and the read loop answering control
// messages never interleave frames.
type replayClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *replayClient) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
	return c.conn.WriteJSON(v)
}

func (c *replayClient) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(config.WSWriteDeadline))
}

func (c *replayClient) sendError(message string) {
	c.writeJSON(map[string]interface{}{
		"type":  "error",
		"error": message,
	})
}

// HandleReplayWS streams a stored match back to the browser UI
// GET /ws/replay?matchId=...
func HandleReplayWS(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		http.Error(w, "matchId query parameter is required", http.StatusBadRequest)
		return
	}

	record, err := db.GetVerifiedMatch(r.Context(), matchID)
	if err != nil {
		log.Printf("❌ Failed to load match %s for replay: %v", matchID, err)
		http.Error(w, "Failed to load match", http.StatusInternalServerError)
		return
	}
	if record == nil {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("❌ WebSocket upgrade failed:", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
	})

	atomic.AddInt64(&clientCount, 1)
	log.Printf("✅ Replay client connected - Match: %s, Total clients: %d", matchID, atomic.LoadInt64(&clientCount))
	defer func() {
		atomic.AddInt64(&clientCount, -1)
		log.Printf("👋 Replay client disconnected - Match: %s", matchID)
	}()

	client := &replayClient{conn: conn}

	// Replays can run far longer than the read deadline with no control
	// messages from the viewer; pings keep the pong handler refreshing it.
	pingDone := make(chan struct{})
	defer close(pingDone)
	go func() {
		ticker := time.NewTicker(config.WSPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := client.ping(); err != nil {
					return
				}
			case <-pingDone:
				return
			}
		}
	}()

	session := replay.NewSession(record.Events, record.DurationMs())
	// Dropping the connection drops the session; Stop cancels any
	// timer that is still armed.
	defer session.Stop()

	session.SetOnComplete(func() {
		client.writeJSON(map[string]interface{}{
			"type":     "complete",
			"cursorMs": session.DurationMs(),
		})
	})

	onEvent := func(ev match.MatchEvent) {
		client.writeJSON(map[string]interface{}{
			"type":     "event",
			"event":    ev,
			"cursorMs": ev.SimulatedTimeMs,
		})
	}

	client.writeJSON(map[string]interface{}{
		"type":       "loaded",
		"matchId":    record.ID,
		"homeTeam":   record.HomeTeamName,
		"awayTeam":   record.AwayTeamName,
		"durationMs": record.DurationMs(),
		"eventCount": len(record.Events),
		"proof":      record.Proof,
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))

		var msg ControlMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			client.sendError("Invalid control message")
			continue
		}

		switch msg.Type {
		case "play":
			session.Play(onEvent)

		case "pause":
			session.Pause()
			client.writeJSON(map[string]interface{}{
				"type":     "paused",
				"cursorMs": session.Cursor(),
			})

		case "stop":
			session.Stop()
			client.writeJSON(map[string]interface{}{
				"type":     "stopped",
				"cursorMs": 0,
			})

		case "speed":
			if err := session.SetSpeed(msg.Multiplier); err != nil {
				if errors.Is(err, replay.ErrInvalidSpeed) {
					client.sendError("Speed multiplier must be greater than zero")
				} else {
					client.sendError("Failed to set speed")
				}
				continue
			}
			client.writeJSON(map[string]interface{}{
				"type":       "speed",
				"multiplier": session.Speed(),
			})

		case "seek":
			session.SkipTo(msg.TargetMs)
			// Skipped events arrive as one aggregate snapshot, not as
			// individual deliveries.
			state := session.StateAt(session.Cursor())
			client.writeJSON(map[string]interface{}{
				"type":     "snapshot",
				"cursorMs": session.Cursor(),
				"state":    state,
			})

		case "state":
			state := session.StateAt(msg.AtMs)
			client.writeJSON(map[string]interface{}{
				"type":     "snapshot",
				"cursorMs": msg.AtMs,
				"state":    state,
			})

		default:
			client.sendError("Unknown control message type: " + msg.Type)
		}
	}
}
