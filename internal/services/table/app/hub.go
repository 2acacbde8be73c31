package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/platform/timeouts"
	"github.com/louisbranch/voidlight/internal/services/table/app/templates"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

const (
	maxFramePayloadBytes   = 64 * 1024
	maxFramesPerSecond     = 20
	maxDecodeErrorsPerConn = 3

	frameState  = "table.state"
	frameAction = "table.action"
	frameResult = "table.result"
	framePing   = "table.ping"
	framePong   = "table.pong"
	frameError  = "table.error"
)

type wsFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type statePayload struct {
	Version uint64 `json:"version"`
	Mode    string `json:"mode"`
	HTML    string `json:"html"`
}

type wsError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type wsPeer struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	encoder *json.Encoder
	mode    domain.Mode
	locale  string
	version uint64
}

func (p *wsPeer) writeFrame(frame wsFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		_ = p.conn.SetWriteDeadline(time.Now().Add(timeouts.WebSocketWrite))
	}
	return p.encoder.Encode(frame)
}

// pushState renders view for the peer unless it already saw a newer one.
func (p *wsPeer) pushState(ctx context.Context, view domain.View, version uint64) error {
	p.mu.Lock()
	stale := version < p.version
	if !stale {
		p.version = version
	}
	p.mu.Unlock()
	if stale {
		return nil
	}
	var buf bytes.Buffer
	if err := templates.Board(model(view, version, p.locale)).Render(ctx, &buf); err != nil {
		return err
	}
	return p.writeFrame(wsFrame{Type: frameState, Payload: mustJSON(statePayload{
		Version: version,
		Mode:    p.mode.String(),
		HTML:    buf.String(),
	})})
}

// hub fans session changes out to live view peers.
type hub struct {
	controller *Controller
	mu         sync.Mutex
	peers      map[*wsPeer]struct{}
}

func newHub(controller *Controller) *hub {
	return &hub{controller: controller, peers: make(map[*wsPeer]struct{})}
}

func (h *hub) join(p *wsPeer) {
	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) leave(p *wsPeer) {
	h.mu.Lock()
	delete(h.peers, p)
	h.mu.Unlock()
}

func (h *hub) snapshot() []*wsPeer {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*wsPeer, 0, len(h.peers))
	for p := range h.peers {
		out = append(out, p)
	}
	return out
}

func (h *hub) broadcast(change Change) {
	for _, p := range h.snapshot() {
		view := change.Keeper
		if p.mode == domain.PlayerView {
			view = change.Player
		}
		if err := p.pushState(context.Background(), view, change.Version); err != nil {
			log.Printf("push state: %v", err)
		}
	}
}

func (h *hub) closeAll() {
	for _, p := range h.snapshot() {
		if p.conn != nil {
			_ = p.conn.Close()
		}
	}
}

func (h *hub) handler(modeFor func(*http.Request) (domain.Mode, error)) http.Handler {
	ws := websocket.Handler(func(conn *websocket.Conn) {
		r := conn.Request()
		mode, err := modeFor(r)
		if err != nil {
			_ = conn.Close()
			return
		}
		h.serve(conn, mode, requestLocale(r))
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := modeFor(r); err != nil {
			log.Printf("websocket unauthorized: remote=%s err=%v", r.RemoteAddr, err)
			writeError(w, r, err)
			return
		}
		ws.ServeHTTP(w, r)
	})
}

func (h *hub) serve(conn *websocket.Conn, mode domain.Mode, locale string) {
	defer func() {
		_ = conn.Close()
	}()
	peer := &wsPeer{conn: conn, encoder: json.NewEncoder(conn), mode: mode, locale: locale}
	h.join(peer)
	defer h.leave(peer)

	view, version := h.controller.View(mode)
	if err := peer.pushState(conn.Request().Context(), view, version); err != nil {
		log.Printf("push initial state: %v", err)
		return
	}

	decoder := json.NewDecoder(conn)
	windowStart := time.Now()
	framesInWindow := 0
	decodeErrors := 0
	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			log.Printf("websocket decode: %v", err)
			_ = writeWSError(peer, "", string(apperrors.CodeInvalidAction), "invalid frame payload")
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			decoder = json.NewDecoder(conn)
			continue
		}
		decodeErrors = 0

		if len(frame.Payload) > maxFramePayloadBytes {
			_ = writeWSError(peer, frame.RequestID, string(apperrors.CodeInvalidAction), "payload too large")
			continue
		}
		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > maxFramesPerSecond {
			_ = writeWSError(peer, frame.RequestID, string(apperrors.CodeInvalidAction), "rate limit exceeded")
			return
		}

		switch frame.Type {
		case framePing:
			_ = peer.writeFrame(wsFrame{Type: framePong, RequestID: frame.RequestID})
		case frameAction:
			h.handleAction(peer, frame)
		default:
			_ = writeWSError(peer, frame.RequestID, string(apperrors.CodeInvalidAction), "unsupported frame type")
		}
	}
}

func (h *hub) handleAction(peer *wsPeer, frame wsFrame) {
	if peer.mode != domain.KeeperView {
		_ = writeWSError(peer, frame.RequestID, string(apperrors.CodeUnauthorized),
			apperrors.UserMessage(apperrors.New(apperrors.CodeUnauthorized, "player view"), peer.locale))
		return
	}
	var action Action
	if err := json.Unmarshal(frame.Payload, &action); err != nil {
		_ = writeWSError(peer, frame.RequestID, string(apperrors.CodeInvalidAction), "invalid action payload")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Action)
	defer cancel()
	res, err := h.controller.Dispatch(ctx, action)
	if err != nil {
		_ = writeWSError(peer, frame.RequestID, string(apperrors.CodeOf(err)), apperrors.UserMessage(err, peer.locale))
		return
	}
	_ = peer.writeFrame(wsFrame{Type: frameResult, RequestID: frame.RequestID, Payload: mustJSON(res)})
}

func writeWSError(peer *wsPeer, requestID, code, message string) error {
	return peer.writeFrame(wsFrame{
		Type:      frameError,
		RequestID: requestID,
		Payload:   mustJSON(wsError{Code: code, Message: message}),
	})
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("marshal websocket payload: %v", err)
		return nil
	}
	return b
}
