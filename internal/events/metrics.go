package events

import (
	"github.com/verdantech/greenhouse-core/internal/catalog"
)

// catalogViewer is the slice of the registry the metrics sink needs.
type catalogViewer interface {
	Snapshot() *catalog.Catalog
}

// sizeWriter receives entity counts and evictions. Implemented by the
// InfluxDB client.
type sizeWriter interface {
	WriteCatalogSize(devices, services, greenhouses, zones, users int)
	WriteEviction(entityType string, entityID int)
}

// MetricsSink implements catalog.EventSink by recording the catalog's
// entity counts after every mutation. The write API batches points, so
// bursts of mutations cost one HTTP round-trip, not one each.
type MetricsSink struct {
	viewer catalogViewer
	writer sizeWriter
}

// NewMetricsSink wires a metrics sink over the registry and writer.
func NewMetricsSink(viewer catalogViewer, writer sizeWriter) *MetricsSink {
	return &MetricsSink{viewer: viewer, writer: writer}
}

// Publish implements catalog.EventSink.
func (s *MetricsSink) Publish(e catalog.Event) {
	if e.Action == "evicted" {
		s.writer.WriteEviction(e.Entity, e.ID)
	}
	snap := s.viewer.Snapshot()
	s.writer.WriteCatalogSize(
		len(snap.Devices),
		len(snap.Services),
		len(snap.Greenhouses),
		len(snap.Zones),
		len(snap.Users),
	)
}
