package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/verdantech/greenhouse-core/internal/catalog"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/mqtt"
)

type fakeBus struct {
	published chan struct {
		topic   string
		payload []byte
	}
	err error
}

func newFakeBus() *fakeBus {
	return &fakeBus{published: make(chan struct {
		topic   string
		payload []byte
	}, 16)}
}

func (b *fakeBus) PublishEvent(topic string, payload []byte) error {
	b.published <- struct {
		topic   string
		payload []byte
	}{topic, payload}
	return b.err
}

func TestPublisherSendsEvent(t *testing.T) {
	bus := newFakeBus()
	p := NewPublisher(bus, nil)

	p.Publish(catalog.Event{Entity: "device", Action: "registered", ID: 42})

	select {
	case got := <-bus.published:
		if got.topic != "greenhouse/registry/device/registered" {
			t.Errorf("topic = %q", got.topic)
		}
		var msg message
		if err := json.Unmarshal(got.payload, &msg); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if msg.Entity != "device" || msg.Action != "registered" || msg.ID != 42 {
			t.Errorf("payload = %+v", msg)
		}
		if msg.EventID == "" {
			t.Error("missing event ID")
		}
		if _, err := time.Parse(time.RFC3339, msg.Timestamp); err != nil {
			t.Errorf("timestamp %q not RFC3339: %v", msg.Timestamp, err)
		}
	case <-time.After(time.Second):
		t.Fatal("event never published")
	}
}

func TestPublisherSurvivesBusErrors(t *testing.T) {
	bus := newFakeBus()
	bus.err = errors.New("broker down")
	p := NewPublisher(bus, nil)

	p.Publish(catalog.Event{Entity: "zone", Action: "removed", ID: 7})
	select {
	case <-bus.published:
	case <-time.After(time.Second):
		t.Fatal("event never attempted")
	}
}

type fakeSubscriber struct {
	topic   string
	handler mqtt.MessageHandler
}

func (s *fakeSubscriber) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	s.topic = topic
	s.handler = handler
	return nil
}

type fakeToucher struct {
	touched []int
	err     error
}

func (f *fakeToucher) UpdateDevice(dev catalog.Device) (string, error) {
	f.touched = append(f.touched, dev.DeviceID)
	return "", f.err
}

func TestListenHeartbeatsRefreshesDevice(t *testing.T) {
	sub := &fakeSubscriber{}
	reg := &fakeToucher{}
	if err := ListenHeartbeats(sub, reg, nil); err != nil {
		t.Fatal(err)
	}
	if sub.topic != "greenhouse/device/+/heartbeat" {
		t.Errorf("subscribed to %q", sub.topic)
	}

	if err := sub.handler("greenhouse/device/42/heartbeat", nil); err != nil {
		t.Errorf("handler error = %v", err)
	}
	if len(reg.touched) != 1 || reg.touched[0] != 42 {
		t.Errorf("touched = %v, want [42]", reg.touched)
	}
}

func TestListenHeartbeatsIgnoresUnknownDevices(t *testing.T) {
	sub := &fakeSubscriber{}
	reg := &fakeToucher{err: catalog.ErrDeviceNotFound}
	if err := ListenHeartbeats(sub, reg, nil); err != nil {
		t.Fatal(err)
	}
	if err := sub.handler("greenhouse/device/99/heartbeat", nil); err != nil {
		t.Errorf("unknown device heartbeat should not error, got %v", err)
	}
}

type fakeWriter struct {
	sizes     int
	evictions []string
}

func (w *fakeWriter) WriteCatalogSize(_, _, _, _, _ int) { w.sizes++ }
func (w *fakeWriter) WriteEviction(entityType string, entityID int) {
	w.evictions = append(w.evictions, entityType)
}

type fakeViewer struct{}

func (fakeViewer) Snapshot() *catalog.Catalog { return catalog.NewCatalog() }

func TestMetricsSinkRecordsSizes(t *testing.T) {
	w := &fakeWriter{}
	sink := NewMetricsSink(fakeViewer{}, w)

	sink.Publish(catalog.Event{Entity: "device", Action: "registered", ID: 1})
	sink.Publish(catalog.Event{Entity: "device", Action: "evicted", ID: 1})

	if w.sizes != 2 {
		t.Errorf("size writes = %d, want 2", w.sizes)
	}
	if len(w.evictions) != 1 || w.evictions[0] != "device" {
		t.Errorf("evictions = %v, want [device]", w.evictions)
	}
}

func TestDeviceIDFromTopic(t *testing.T) {
	tests := []struct {
		topic   string
		want    int
		wantErr bool
	}{
		{"greenhouse/device/7/heartbeat", 7, false},
		{"greenhouse/device/abc/heartbeat", 0, true},
		{"greenhouse/zone/7/heartbeat", 0, true},
		{"greenhouse/device/7", 0, true},
	}
	for _, tt := range tests {
		got, err := deviceIDFromTopic(tt.topic)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.topic)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%s: got %d, %v", tt.topic, got, err)
		}
	}
}
