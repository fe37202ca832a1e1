package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"makerbot/internal/domain"
	"makerbot/internal/keys"
)

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type replyEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type resizePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type clickPayload struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	HoldMs int64 `json:"holdMs"`
}

type keystrokePayload struct {
	Code   int   `json:"code"`
	HoldMs int64 `json:"holdMs"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Remote forwards every call to a remote input harness over a websocket.
// Each request is answered with an "ack" or an "error" envelope.
type Remote struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	strict  bool
	timeout time.Duration
}

// DialRemote connects to the harness at url
func DialRemote(ctx context.Context, url string, strict bool, timeout time.Duration) (*Remote, error) {
	if url == "" {
		return nil, fmt.Errorf("remote backend requires a harness URL")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, &domain.BackendIOError{Op: "dial", Err: err}
	}
	return &Remote{conn: conn, strict: strict, timeout: timeout}, nil
}

// Focus asks the harness to focus the emulator window
func (r *Remote) Focus(ctx context.Context) error {
	return r.call(ctx, envelope{Type: "focus"})
}

// ResizeAndMove asks the harness to position the emulator window
func (r *Remote) ResizeAndMove(ctx context.Context, x, y, w, h int) error {
	return r.call(ctx, envelope{Type: "resize", Payload: resizePayload{X: x, Y: y, W: w, H: h}})
}

// Click asks the harness to click at an absolute screen pixel
func (r *Remote) Click(ctx context.Context, x, y int, hold time.Duration) error {
	return r.call(ctx, envelope{Type: "click", Payload: clickPayload{X: x, Y: y, HoldMs: hold.Milliseconds()}})
}

// KeyPress asks the harness to hold a key
func (r *Remote) KeyPress(ctx context.Context, code keys.Code, hold time.Duration) error {
	return r.call(ctx, envelope{Type: "keystroke", Payload: keystrokePayload{Code: int(code), HoldMs: hold.Milliseconds()}})
}

// Close closes the harness connection
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = r.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return r.conn.Close()
}

func (r *Remote) call(ctx context.Context, req envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	deadline := time.Now().Add(r.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := r.conn.SetWriteDeadline(deadline); err != nil {
		return &domain.BackendIOError{Op: req.Type, Err: err}
	}
	if err := r.conn.WriteJSON(req); err != nil {
		return &domain.BackendIOError{Op: req.Type, Err: err}
	}

	if err := r.conn.SetReadDeadline(deadline); err != nil {
		return &domain.BackendIOError{Op: req.Type, Err: err}
	}
	var reply replyEnvelope
	if err := r.conn.ReadJSON(&reply); err != nil {
		return &domain.BackendIOError{Op: req.Type, Err: err}
	}

	switch reply.Type {
	case "ack":
		return nil
	case "error":
		var payload errorPayload
		_ = json.Unmarshal(reply.Payload, &payload)
		if r.strict {
			return &domain.BackendIOError{Op: req.Type, Err: errors.New(payload.Message)}
		}
		log.Printf("Backend: harness rejected %s (ignored): %s", req.Type, payload.Message)
		return nil
	default:
		return &domain.BackendIOError{Op: req.Type, Err: fmt.Errorf("unexpected reply %q", reply.Type)}
	}
}
