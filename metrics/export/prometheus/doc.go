// Package prometheus exports muhasabah engine metrics through
// client_golang.
//
// [NewCollector] adapts an engine to a prometheus.Collector so it can be
// registered wherever the caller keeps its registry. [Handler] is the
// shortcut used by the server: a private registry with the engine
// collector plus the Go runtime and process collectors.
//
// Counter names are prefixed muhasabah_ and end in _total; latency
// histograms end in _seconds. Nothing is registered globally.
package prometheus
