package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"homezy_backend/platform/logger"
)

type stubPushConfig struct {
	url     string
	enabled bool
}

func (c stubPushConfig) GetExpoPushURL() string     { return c.url }
func (c stubPushConfig) GetExpoAccessToken() string { return "" }
func (c stubPushConfig) IsPushEnabled() bool        { return c.enabled }

func TestNilClientDropsMessages(t *testing.T) {
	client := NewClient(stubPushConfig{enabled: false}, logger.New("test"))
	if client != nil {
		t.Fatal("expected nil client when push is disabled")
	}
	if err := client.Send(context.Background(), Message{To: "ExponentPushToken[x]"}); err != nil {
		t.Errorf("nil client Send: %v", err)
	}
}

func TestSendRejectsNonExpoToken(t *testing.T) {
	client := NewClient(stubPushConfig{enabled: true, url: "http://localhost:0"}, logger.New("test"))
	if err := client.Send(context.Background(), Message{To: "apns-token"}); err == nil {
		t.Error("expected error for non-expo token")
	}
}

func TestSendDeliversAndParsesTickets(t *testing.T) {
	var received []Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"status":"ok"}]}`))
	}))
	defer server.Close()

	client := NewClient(stubPushConfig{enabled: true, url: server.URL}, logger.New("test"))
	err := client.Send(context.Background(), Message{
		To:    "ExponentPushToken[abc]",
		Title: "Quote accepted",
		Body:  "Your quote was accepted.",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(received) != 1 || received[0].To != "ExponentPushToken[abc]" {
		t.Errorf("server received %+v, want one message to the token", received)
	}
	if received[0].Sound != "default" {
		t.Errorf("Sound = %q, want default applied", received[0].Sound)
	}
}

func TestSendSurfacesTicketError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"status":"error","message":"DeviceNotRegistered"}]}`))
	}))
	defer server.Close()

	client := NewClient(stubPushConfig{enabled: true, url: server.URL}, logger.New("test"))
	err := client.Send(context.Background(), Message{To: "ExponentPushToken[gone]"})
	if err == nil {
		t.Fatal("expected ticket error")
	}
}
