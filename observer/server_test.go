package observer

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/evosoup/game"
)

func testObservation(tick uint64) game.Observation {
	return game.Observation{
		RunID:  "run",
		Tick:   tick,
		Width:  800,
		Height: 600,
		Margin: 25,
		Agents: []game.AgentView{
			{ID: 1, X: 10, Y: 20, Facing: 0.5, IsCharging: true, Energy: 900},
		},
		Resources: []game.NodeView{{X: 30, Y: 40, Remaining: 299}},
	}
}

func TestLatestHandler(t *testing.T) {
	s := NewServer(slog.New(slog.DiscardHandler))
	ts := httptest.NewServer(s.Mux())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/observation")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status before publish = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}

	if err := s.Publish(testObservation(7)); err != nil {
		t.Fatal(err)
	}
	resp, err = http.Get(ts.URL + "/observation")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var got game.Observation
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Tick != 7 || len(got.Agents) != 1 || !got.Agents[0].IsCharging {
		t.Errorf("decoded %+v", got)
	}
	if !strings.Contains(string(body), `"is_charging":true`) {
		t.Errorf("body missing is_charging: %s", body)
	}
}

func TestWSStreamsObservations(t *testing.T) {
	s := NewServer(slog.New(slog.DiscardHandler))
	ts := httptest.NewServer(s.Mux())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never joined")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.Publish(testObservation(3)); err != nil {
		t.Fatal(err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var got game.Observation
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatal(err)
	}
	if got.Tick != 3 {
		t.Errorf("tick = %d, want 3", got.Tick)
	}
	if len(got.Resources) != 1 || got.Resources[0].Remaining != 299 {
		t.Errorf("resources = %+v", got.Resources)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for s.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never left")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:1234", true},
		{"[::1]:80", true},
		{"::1", true},
		{"10.0.0.2:5000", false},
		{"example.com:80", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isLoopbackRemote(tt.addr); got != tt.want {
			t.Errorf("isLoopbackRemote(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}
