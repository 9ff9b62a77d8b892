package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteCatalogSize records the current entity counts. Written after each
// mutation so dashboards can chart catalog growth.
//
// Writes are non-blocking; data is batched and sent asynchronously.
func (c *Client) WriteCatalogSize(devices, services, greenhouses, zones, users int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"catalog_size",
		map[string]string{},
		map[string]interface{}{
			"devices":     devices,
			"services":    services,
			"greenhouses": greenhouses,
			"zones":       zones,
			"users":       users,
		},
		time.Now(),
	)
	c.writeAPI.WritePoint(point)
}

// WriteEviction records one liveness eviction.
//
// entityType is "device" or "service".
func (c *Client) WriteEviction(entityType string, entityID int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"eviction",
		map[string]string{
			"entity_type": entityType,
		},
		map[string]interface{}{
			"entity_id": entityID,
		},
		time.Now(),
	)
	c.writeAPI.WritePoint(point)
}

// WriteSweep records the outcome of one sweeper pass.
func (c *Client) WriteSweep(evictedDevices, evictedServices int, took time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sweep",
		map[string]string{},
		map[string]interface{}{
			"evicted_devices":  evictedDevices,
			"evicted_services": evictedServices,
			"duration_ms":      took.Milliseconds(),
		},
		time.Now(),
	)
	c.writeAPI.WritePoint(point)
}
