package mqtt

import "fmt"

// Topic prefixes. All registry topics live under a single root so a
// deployment can namespace several installations on one broker by
// remapping the root with broker-side topic rewriting.
const (
	// TopicRoot is the base for all registry topics.
	TopicRoot = "greenhouse"

	// TopicPrefixRegistry is the base for catalog lifecycle events.
	TopicPrefixRegistry = "greenhouse/registry"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "greenhouse/system"
)

// Topics provides builders for registry MQTT topics. Using these helpers
// keeps topic naming consistent across publisher and subscribers.
//
//	topics := mqtt.Topics{}
//	topic := topics.RegistryEvent("device", "registered")
//	// Returns: "greenhouse/registry/device/registered"
type Topics struct{}

// RegistryEvent returns the topic for a catalog lifecycle event.
//
// Example: greenhouse/registry/zone/removed
func (Topics) RegistryEvent(entity, action string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixRegistry, entity, action)
}

// AllRegistryEvents returns the wildcard matching every lifecycle event.
//
// Example: greenhouse/registry/#
func (Topics) AllRegistryEvents() string {
	return TopicPrefixRegistry + "/#"
}

// DeviceHeartbeat returns the topic a device publishes its heartbeat on.
//
// Example: greenhouse/device/42/heartbeat
func (Topics) DeviceHeartbeat(deviceID int) string {
	return fmt.Sprintf("%s/device/%d/heartbeat", TopicRoot, deviceID)
}

// AllHeartbeats returns the wildcard matching every device heartbeat.
//
// Example: greenhouse/device/+/heartbeat
func (Topics) AllHeartbeats() string {
	return TopicRoot + "/device/+/heartbeat"
}

// SystemStatus returns the retained online/offline status topic.
//
// Example: greenhouse/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
