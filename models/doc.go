// Package models provides shared data structures for the choreosync project.
//
// This package contains the catalog entity model produced by the
// reconciliation engine and consumed by the catalog store and the read API.
// By keeping models in a separate package, they can be imported by the SDK,
// the engine, and the server without creating circular dependencies.
//
// The models in this package represent:
//   - Entities: catalog records identified by (kind, namespace, name)
//   - Entity specs: per-kind payloads (projects, components, environments, ...)
//   - Mutations: the full-set write contract against the catalog store
//   - Run results: the outcome of one reconciliation run
//
// All structs include JSON tags for API serialization and documentation
// comments explaining the purpose and constraints of each field.
package models
