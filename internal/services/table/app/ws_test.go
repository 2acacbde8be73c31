package app

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

type wsTestFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	Payload   json.RawMessage `json:"payload"`
}

func dialTable(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wsTestFrame {
	t.Helper()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	var got wsTestFrame
	if err := json.NewDecoder(conn).Decode(&got); err != nil {
		t.Fatalf("decode server frame: %v", err)
	}
	return got
}

func writeFrame(t *testing.T, conn *websocket.Conn, frame any) {
	t.Helper()
	if err := json.NewEncoder(conn).Encode(frame); err != nil {
		t.Fatalf("encode client frame: %v", err)
	}
}

func readState(t *testing.T, conn *websocket.Conn) statePayload {
	t.Helper()
	frame := readFrame(t, conn)
	if frame.Type != frameState {
		t.Fatalf("frame type = %q, want %q", frame.Type, frameState)
	}
	var state statePayload
	if err := json.Unmarshal(frame.Payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func TestWebSocketPushesInitialState(t *testing.T) {
	_, srv := newTestServer(t, Config{OpenKeeper: true})
	conn := dialTable(t, srv, "")

	state := readState(t, conn)
	if state.Mode != "keeper" || state.Version != 0 {
		t.Fatalf("state = %+v", state)
	}
	if !strings.Contains(state.HTML, `data-version="0"`) {
		t.Fatalf("state html missing version: %q", state.HTML)
	}
}

func TestWebSocketRejectsMissingToken(t *testing.T) {
	_, srv := newTestServer(t, Config{ViewSecret: testSecret})
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if _, err := websocket.Dial(wsURL, "", srv.URL); err == nil {
		t.Fatal("expected dial to fail without a view token")
	}
}

func TestWebSocketActionBroadcasts(t *testing.T) {
	_, srv := newTestServer(t, Config{ViewSecret: testSecret})
	keeper := dialTable(t, srv, "?t="+issue(t, domain.KeeperView))
	player := dialTable(t, srv, "?t="+issue(t, domain.PlayerView))
	readState(t, keeper)
	if state := readState(t, player); state.Mode != "player" {
		t.Fatalf("player mode = %s", state.Mode)
	}

	payload, _ := json.Marshal(Action{Type: "clock.add", Name: "Reactor Breach", Segments: 6, Hidden: true})
	writeFrame(t, keeper, wsFrame{Type: frameAction, RequestID: "r1", Payload: payload})

	var sawResult, sawState bool
	for i := 0; i < 2; i++ {
		frame := readFrame(t, keeper)
		switch frame.Type {
		case frameResult:
			if frame.RequestID != "r1" {
				t.Fatalf("request id = %q", frame.RequestID)
			}
			var res Result
			if err := json.Unmarshal(frame.Payload, &res); err != nil {
				t.Fatalf("decode result: %v", err)
			}
			if res.Version != 1 || res.Action != "clock.add" {
				t.Fatalf("result = %+v", res)
			}
			sawResult = true
		case frameState:
			var state statePayload
			_ = json.Unmarshal(frame.Payload, &state)
			if !strings.Contains(state.HTML, "Reactor Breach") {
				t.Fatal("keeper state missing hidden clock")
			}
			sawState = true
		default:
			t.Fatalf("unexpected frame %q", frame.Type)
		}
	}
	if !sawResult || !sawState {
		t.Fatalf("result = %v state = %v", sawResult, sawState)
	}

	state := readState(t, player)
	if state.Version != 1 {
		t.Fatalf("player version = %d", state.Version)
	}
	if strings.Contains(state.HTML, "Reactor Breach") {
		t.Fatal("player state shows hidden clock")
	}
}

func TestWebSocketPlayerCannotAct(t *testing.T) {
	_, srv := newTestServer(t, Config{ViewSecret: testSecret})
	player := dialTable(t, srv, "?t="+issue(t, domain.PlayerView))
	readState(t, player)

	payload, _ := json.Marshal(Action{Type: "fear.adjust", Delta: 1})
	writeFrame(t, player, wsFrame{Type: frameAction, RequestID: "r2", Payload: payload})
	frame := readFrame(t, player)
	if frame.Type != frameError || frame.RequestID != "r2" {
		t.Fatalf("frame = %+v", frame)
	}
	var wsErr wsError
	_ = json.Unmarshal(frame.Payload, &wsErr)
	if wsErr.Code != "UNAUTHORIZED" {
		t.Fatalf("code = %s", wsErr.Code)
	}
}

func TestWebSocketPingAndUnknownFrames(t *testing.T) {
	_, srv := newTestServer(t, Config{OpenKeeper: true})
	conn := dialTable(t, srv, "")
	readState(t, conn)

	writeFrame(t, conn, wsFrame{Type: framePing, RequestID: "p1"})
	if frame := readFrame(t, conn); frame.Type != framePong || frame.RequestID != "p1" {
		t.Fatalf("frame = %+v", frame)
	}

	writeFrame(t, conn, wsFrame{Type: "table.dance"})
	if frame := readFrame(t, conn); frame.Type != frameError {
		t.Fatalf("frame type = %q, want error", frame.Type)
	}
}

func TestWebSocketActionErrorIsLocalized(t *testing.T) {
	_, srv := newTestServer(t, Config{OpenKeeper: true})
	conn := dialTable(t, srv, "?lang=pt-BR")
	readState(t, conn)

	payload, _ := json.Marshal(Action{Type: "fear.spend", Amount: 2})
	writeFrame(t, conn, wsFrame{Type: frameAction, RequestID: "r3", Payload: payload})
	frame := readFrame(t, conn)
	var wsErr wsError
	_ = json.Unmarshal(frame.Payload, &wsErr)
	if wsErr.Code != "INSUFFICIENT_FEAR" || !strings.Contains(wsErr.Message, "0") {
		t.Fatalf("error = %+v", wsErr)
	}
}
