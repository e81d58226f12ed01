package mq

import (
	"context"
	"encoding/json"
	"log"

	"savoro/models"
	"savoro/notify"
	"savoro/rdx"
)

const orderEventsChannel = "order-events"

// Emitter publishes order events to Redis. Handlers publish here instead of
// touching the hub directly, so every server instance sees every event.
type Emitter struct {
	cache *rdx.Cache
}

func NewEmitter(cache *rdx.Cache) *Emitter {
	return &Emitter{cache: cache}
}

// Emit publishes an order event. Delivery is best-effort: a publish failure
// is logged, never surfaced to the request that triggered it.
func (e *Emitter) Emit(ctx context.Context, event models.OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}

	if err := e.cache.Conn.Publish(ctx, orderEventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
	}
}

// StartRelay subscribes to the order event channel and forwards each event to
// the websocket hub, scoped to the order's topic and the owning user's topic.
// Runs until ctx is cancelled.
func StartRelay(ctx context.Context, cache *rdx.Cache, hub *notify.Hub) {
	sub := cache.Conn.Subscribe(ctx, orderEventsChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[OrderRelay] Listening for order events...")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[OrderRelay] Failed to parse event: %v", err)
				continue
			}

			data := []byte(msg.Payload)
			hub.Broadcast("order:"+event.OrderID, data)
			if event.UserID != "" {
				hub.Broadcast("user:"+event.UserID, data)
			}
		}
	}
}
