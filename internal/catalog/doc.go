// Package catalog implements the greenhouse catalog registry: the
// authoritative hierarchical model of users, greenhouses, zones, devices
// and services that every other component of the deployment depends on.
//
// # Model
//
// The catalog is a single document with five top-level entity lists plus a
// global lastUpdate stamp. Ownership is expressed through reference lists
// embedded in the parent record:
//
//	user ──> greenhouses ──> zones ──> devices
//	                    └──> devices
//	services (flat, no ownership)
//
// Zone IDs are unique across the whole catalog, not just within their
// greenhouse. Removing an entity removes every reference to it and cascades
// to its owned children.
//
// # Invariants
//
//   - No two zones of the same greenhouse have overlapping temperature ranges.
//   - A zone's moisture threshold always resolves to a value in [0, 100].
//   - Every reference points at an entity present in its top-level list.
//   - Identifiers are unique within their list.
//
// # Concurrency and persistence
//
// The Store keeps the document resident in memory behind a readers-writer
// lock and flushes it atomically to a single JSON file after every
// successful mutation. Mutations are applied to a working copy and swapped
// in only once the flush succeeds, so a failed flush leaves the pre-image
// authoritative.
package catalog
