// Package metrics provides the observability hooks of the site server.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless monitoring.metrics.enabled is
// set. When enabled, PrometheusRecorder registers its collectors on a
// dedicated registry which HTTPHandler exposes.
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
