// Package metrics records build and stage metrics.
//
// Components receive a Recorder and never check whether metrics are enabled:
// NoopRecorder is the default and does nothing. PrometheusRecorder registers
// its collectors on a registry, which WriteTextfile exports in the text
// exposition format for node_exporter's textfile collector.
//
//	reg := prom.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	// ... run the build with recorder ...
//	err := metrics.WriteTextfile(reg, "/var/lib/node_exporter/pagesmith.prom")
package metrics
