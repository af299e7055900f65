package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pharmacy-refill-dispatch/internal/socket"
)

func TestWebSocket_ReceivesSubmitEvent(t *testing.T) {
	router, _ := newTestRouter()
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws?store=157"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the handler a moment to register the subscription.
	time.Sleep(50 * time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/v1/refills/", "application/json",
		strings.NewReader(`{"rx_number":"2468024","store_id":"157","patient_name":"J"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit: %d", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var ev socket.Event
	if err := json.Unmarshal(message, &ev); err != nil {
		t.Fatalf("event decode: %v", err)
	}
	if ev.Type != "refill.submitted" || ev.StoreID != "157" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.RequestID == "" {
		t.Fatalf("event missing request id: %+v", ev)
	}
}

func TestWebSocket_UnknownStoreRejected(t *testing.T) {
	router, _ := newTestRouter()
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws?store=999"
	_, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial to an unknown store must fail")
	}
}
