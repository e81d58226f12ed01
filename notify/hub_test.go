package notify

import (
	"encoding/json"
	"testing"
	"time"

	"savoro/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send:  make(chan []byte, 10),
		Topic: "order:ord1",
	}

	hub.Register(client)

	// broadcast a status event
	evt := models.OrderEvent{
		Type:      "order_status",
		OrderID:   "ord1",
		Status:    models.StatusPreparing,
		Timestamp: time.Now().Unix(),
	}
	data, _ := json.Marshal(evt)
	hub.Broadcast("order:ord1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.Unregister(client)
}

func TestHubTopicIsolation(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	mine := &Client{Send: make(chan []byte, 10), Topic: "order:a"}
	other := &Client{Send: make(chan []byte, 10), Topic: "order:b"}
	hub.Register(mine)
	hub.Register(other)

	hub.Broadcast("order:a", []byte("ping"))

	select {
	case <-mine.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message on subscribed topic")
	}

	select {
	case msg := <-other.Send:
		t.Fatalf("unexpected message on other topic: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
