package events

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/verdantech/greenhouse-core/internal/catalog"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/logging"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/mqtt"
)

// subscriber is the slice of the MQTT client the listener needs.
type subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// deviceToucher refreshes a device's registration.
type deviceToucher interface {
	UpdateDevice(dev catalog.Device) (string, error)
}

// heartbeatQoS: at-least-once, a duplicate heartbeat is harmless.
const heartbeatQoS = 1

// ListenHeartbeats subscribes to greenhouse/device/+/heartbeat and
// refreshes the matching device's lastUpdate on every message. Heartbeats
// for unknown devices are logged at debug level and dropped; a device
// must register over HTTP before its heartbeats count.
func ListenHeartbeats(client subscriber, registry deviceToucher, log *logging.Logger) error {
	if log == nil {
		log = logging.Default()
	}
	topic := mqtt.Topics{}.AllHeartbeats()
	return client.Subscribe(topic, heartbeatQoS, func(topic string, _ []byte) error {
		deviceID, err := deviceIDFromTopic(topic)
		if err != nil {
			return err
		}
		if _, err := registry.UpdateDevice(catalog.Device{DeviceID: deviceID}); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				log.Debug("heartbeat from unregistered device", "device_id", deviceID)
				return nil
			}
			return err
		}
		return nil
	})
}

// deviceIDFromTopic extracts the device ID from
// greenhouse/device/{id}/heartbeat.
func deviceIDFromTopic(topic string) (int, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != mqtt.TopicRoot || parts[1] != "device" || parts[3] != "heartbeat" {
		return 0, fmt.Errorf("unexpected heartbeat topic %q", topic)
	}
	id, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("parsing device id from topic %q: %w", topic, err)
	}
	return id, nil
}
