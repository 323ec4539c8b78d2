// Package otel publishes muhasabah engine metrics through OpenTelemetry.
//
// [NewExporter] registers one Int64ObservableCounter per engine counter and
// one Int64ObservableGauge per histogram bucket, all fed by a single
// callback that reads the engine snapshot on each collection.
// [NewMeterProvider] builds the OTLP/gRPC push pipeline the server uses
// when a collector endpoint is configured.
//
// The package never installs a global MeterProvider.
package otel
