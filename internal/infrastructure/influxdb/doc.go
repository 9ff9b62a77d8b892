// Package influxdb records registry metrics in InfluxDB.
//
// The catalog itself never depends on these metrics; they exist for
// dashboards. Two measurement families are written: catalog_size (entity
// counts after each mutation) and eviction (one point per entity the
// liveness sweeper removes). Writes are batched and non-blocking, and the
// whole integration is optional (influxdb.enabled in config.yaml).
package influxdb
