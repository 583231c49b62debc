// Package metrics provides observability hooks for jekyll-studio.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	m := materialize.New(materialize.WithRecorder(recorder))
//
// The CLI swaps in a PrometheusRecorder when a metrics file is configured and
// exports the registry with WriteTextfile once the command finishes, for
// pickup by the node-exporter textfile collector.
package metrics
