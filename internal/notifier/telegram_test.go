package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	if err := n.Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "<b>hi</b>" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestTelegramNotifier_SendError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	if err := n.SendWithRetry(context.Background(), "hi", 0); err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestTelegramNotifier_Polling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	replies := make(chan string, 1)
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			if polls.Add(1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /screen "}}]}`))
				return
			}
			<-r.Context().Done()
		case "/botTOKEN/sendMessage":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			replies <- body["text"]
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL

	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string { return "got " + cmd })
		close(done)
	}()

	if reply := <-replies; reply != "got /screen" {
		t.Errorf("unexpected reply %q", reply)
	}
	cancel()
	<-done
}
