package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "storemigration"

	metricLabelStore  = "store"
	metricLabelStatus = "status"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

var (
	// StoreCopyCounter counts copy-with-restamp operations per store kind
	StoreCopyCounter = newCounterVec(
		"store_copy_count",
		"Number of store files copied and restamped",
		metricLabelStore, metricLabelStatus,
	)
	// StoreCopyBytesCounter counts the data file bytes copied per store kind
	StoreCopyBytesCounter = newCounterVec(
		"store_copy_bytes_count",
		"Number of store data file bytes copied",
		metricLabelStore,
	)
	// LegacyReadersGauge keeps track of the legacy store readers currently open
	LegacyReadersGauge = newGaugeVec(
		"legacy_readers_open",
		"Number of currently open legacy store readers",
	)
	// ReaderCloseFailedCounter counts legacy readers that failed to release their file
	ReaderCloseFailedCounter = newCounterVec(
		"reader_close_failed_count",
		"Number of legacy store readers that failed to close",
	)
	// VerifyCounter counts verifications of copied stores
	VerifyCounter = newCounterVec(
		"verify_count",
		"Number of copied stores verified against their source",
		metricLabelStore, metricLabelStatus,
	)
)

func Status(err error) string {
	if err != nil {
		return StatusFailed
	}
	return StatusSuccess
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
