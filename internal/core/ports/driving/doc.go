// Package driving defines the interfaces the core exposes to the
// CLI layer. Services implement these.
package driving
