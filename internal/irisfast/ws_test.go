package irisfast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// echoServer pushes one chat message and echoes replies back as messages.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		ctx := r.Context()
		sender := "Alice"
		if err := wsjson.Write(ctx, conn, Message{Msg: "!카드 도움", Room: "room1", Sender: &sender}); err != nil {
			return
		}
		for {
			var reply ReplyRequest
			if err := wsjson.Read(ctx, conn, &reply); err != nil {
				return
			}
			if err := wsjson.Write(ctx, conn, Message{Msg: "echo:" + reply.Data, Room: reply.Room}); err != nil {
				return
			}
		}
	}))
}

func TestWebSocketReceivesAndWrites(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	ws := NewWebSocket("ws"+strings.TrimPrefix(srv.URL, "http"), 0)
	msgs := make(chan *Message, 4)
	ws.OnMessage(func(m *Message) { msgs <- m })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ws.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer ws.Close(context.Background())

	select {
	case m := <-msgs:
		if m.Room != "room1" || m.SenderName() != "Alice" {
			t.Fatalf("unexpected message: %+v", m)
		}
	case <-ctx.Done():
		t.Fatalf("no message received")
	}

	eg := NewEgress(ModeWS, nil, ws, nil)
	if err := eg.SendText(ctx, "room1", "hi"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	select {
	case m := <-msgs:
		if m.Msg != "echo:hi" {
			t.Fatalf("unexpected echo: %+v", m)
		}
	case <-ctx.Done():
		t.Fatalf("no echo received")
	}
}

func TestWSEgressNotConnected(t *testing.T) {
	ws := NewWebSocket("ws://127.0.0.1:1/never", 0)
	if err := NewEgress(ModeWS, nil, ws, nil).SendText(context.Background(), "r", "m"); err != ErrNotConnected {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestAutoEgressFallsBackToHTTP(t *testing.T) {
	hits := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- r.URL.Path
	}))
	defer srv.Close()

	ws := NewWebSocket("ws://127.0.0.1:1/never", 0)
	eg := NewEgress(ModeAuto, NewClient(srv.URL), ws, nil)
	if err := eg.SendText(context.Background(), "r", "m"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if p := <-hits; p != "/reply" {
		t.Fatalf("path = %q", p)
	}
}
