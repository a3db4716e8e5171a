// Package driven defines the interfaces the core depends on.
// Adapters (SQLite storage, the EDINET client, the archive reader,
// the config file) implement these.
package driven
