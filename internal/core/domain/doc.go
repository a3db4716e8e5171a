// Package domain contains the core business entities for filings-cli.
// These types have no dependencies on infrastructure and represent
// the canonical model shared by all adapters and services.
package domain
