// Package events bridges catalog mutations onto the MQTT bus.
//
// Every successful mutation produces one event message on
// greenhouse/registry/{entity}/{action}. Control services subscribe to
// these instead of polling the catalog, so an evicted sensor or a removed
// zone propagates within a publish round-trip.
//
// The package also runs the heartbeat listener: devices too constrained
// to speak HTTP publish an empty message on
// greenhouse/device/{id}/heartbeat and the listener refreshes their
// registration.
package events
