// Package mqtt provides the MQTT client the catalog uses as its event bus.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing catalog lifecycle events with QoS guarantees
//   - Topic subscriptions with wildcard support (device heartbeats)
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The registry publishes a retained online/offline status plus one event
// per catalog mutation, and optionally listens for device heartbeats so
// constrained sensors can stay registered without speaking HTTP.
//
//	Catalog Registry ↔ MQTT Broker ↔ Devices / Control Services
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.RegistryEvent("device", "registered")
//	client.Publish(topic, payload, 1, false)
//
//	err = client.Subscribe(mqtt.Topics{}.AllHeartbeats(), 1,
//	    func(topic string, payload []byte) error {
//	        // refresh the device's lastUpdate
//	        return nil
//	    })
package mqtt
