package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/verdantech/greenhouse-core/internal/catalog"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/logging"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/mqtt"
)

// bus is the slice of the MQTT client the publisher needs.
type bus interface {
	PublishEvent(topic string, payload []byte) error
}

// message is the wire form of a catalog event.
type message struct {
	EventID   string `json:"eventID"`
	Entity    string `json:"entity"`
	Action    string `json:"action"`
	ID        int    `json:"id"`
	Timestamp string `json:"timestamp"`
}

// Publisher implements catalog.EventSink over MQTT.
//
// Publish returns immediately; the broker round-trip happens on a
// separate goroutine so catalog mutations never wait on the bus. Delivery
// failures are logged and dropped, the catalog file remains the source of
// truth.
type Publisher struct {
	bus    bus
	topics mqtt.Topics
	log    *logging.Logger
}

// NewPublisher wires a publisher over the given MQTT client.
func NewPublisher(client bus, log *logging.Logger) *Publisher {
	if log == nil {
		log = logging.Default()
	}
	return &Publisher{bus: client, log: log}
}

// Publish implements catalog.EventSink.
func (p *Publisher) Publish(e catalog.Event) {
	msg := message{
		EventID:   uuid.New().String(),
		Entity:    e.Entity,
		Action:    e.Action,
		ID:        e.ID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		p.log.Error("encoding catalog event", "error", err)
		return
	}
	topic := p.topics.RegistryEvent(e.Entity, e.Action)
	go func() {
		if err := p.bus.PublishEvent(topic, payload); err != nil {
			p.log.Warn("publishing catalog event",
				"topic", topic,
				"entity", e.Entity,
				"action", e.Action,
				"id", e.ID,
				"error", err,
			)
		}
	}()
}
