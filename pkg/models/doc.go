// Package models defines the entities shared across the wordbook engine:
// word-list documents, the word-record line format, and the bookmark that
// records a viewer's position in a list.
//
// Typed IDs wrap UUIDs so that identifiers for different entities cannot be
// mixed up, and carry the marshaling glue (JSON, CBOR, database/sql) needed
// by the remote and local stores. The CBOR form marshals to a SurrealDB
// RecordID so records can be referenced directly in parameterized queries.
package models
