// Package wordbook wires the engine packages into the command line
// application: configuration parsing, backend selection (filesystem plus
// SQLite locally, SurrealDB remotely), and the view, lists, and put
// commands.
package wordbook
