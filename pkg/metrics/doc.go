// Package metrics exports store and dev server activity as Prometheus
// metrics.
//
// A Collector implements store.Observer:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("vstore"))
//	s := store.New(initial, store.WithObserver(m))
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Metrics collected:
//   - vstore_updates_total: Counter of store updates by store
//   - vstore_update_duration_seconds: Histogram of update duration by store
//   - vstore_update_subscribers: Histogram of subscribers notified per update
//   - vstore_containers_active: Gauge of mounted containers by store
//   - vstore_containers_created_total: Counter of containers created by store
//   - vstore_sessions_active: Gauge of open dev server sessions
//   - vstore_renders_total: Counter of dev server renders
//   - vstore_websocket_errors_total: Counter of WebSocket errors by type
package metrics
