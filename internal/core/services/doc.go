// Package services implements the driving ports: the date-driven
// indexer, the search front, the download manager, and the content
// loader. Services depend only on domain types and driven ports; all
// collaborators are injected.
package services
