// Package metric provides Prometheus metrics for kvplay.
//
//   - prometheus.go: private registry with command and expiry metrics
//   - collector.go: collector reporting live keys of the current store
//
// The console has no HTTP surface, so metrics are read back with Summary
// for the :stats meta command and optionally written to a node_exporter
// textfile on exit.
package metric
