package systems

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "animares"

// Metrics are the prometheus collectors shared by the resource systems. A
// nil registerer builds working collectors that are not exported anywhere.
type Metrics struct {
	LiveResources   prometheus.Gauge
	PendingDisposal prometheus.Gauge
	ArenaBytesInUse prometheus.Gauge
	BackRefs        prometheus.Gauge
	Created         prometheus.Counter
	Disposed        prometheus.Counter
	Commits         prometheus.Counter
	Strings         prometheus.Gauge
	Buffers         prometheus.Gauge

	LocalLoaded   prometheus.Gauge
	LocalFailures prometheus.Counter
	Messages      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer, instance string) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"instance_id": instance}

	gauge := func(subsystem, name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	counter := func(subsystem, name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	return &Metrics{
		LiveResources:   gauge("remote", "live_resources", "Resources registered and not yet released."),
		PendingDisposal: gauge("remote", "pending_disposal", "Disposed resources kept alive by references."),
		ArenaBytesInUse: gauge("remote", "arena_bytes_in_use", "Bytes of the shared arena held by live regions."),
		BackRefs:        gauge("remote", "back_references", "Back-reference entries across all resources."),
		Created:         counter("remote", "resources_created_total", "Resources created."),
		Disposed:        counter("remote", "resources_released_total", "Resource regions released."),
		Commits:         counter("remote", "commits_total", "Snapshots published to readers."),
		Strings:         gauge("remote", "interned_strings", "Live string handles."),
		Buffers:         gauge("remote", "interned_buffers", "Live array buffer handles."),
		LocalLoaded:     gauge("local", "loaded_resources", "Local resources loaded on the reader side."),
		LocalFailures:   counter("local", "load_failures_total", "Local resource loads that returned an error."),
		Messages:        counter("local", "messages_applied_total", "Lifecycle messages applied by readers."),
	}
}
