package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gitsync_webhook_store_reads_total",
			Help: "Total number of ConfigMap reads, partitioned by result",
		},
		[]string{"result"},
	)

	storeWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gitsync_webhook_store_writes_total",
			Help: "Total number of ConfigMap merge patches, partitioned by result",
		},
		[]string{"result"},
	)
)

// StoreRead counts one ConfigMap read and its result.
func StoreRead(err error) {
	storeReads.WithLabelValues(result(err)).Inc()
}

// StoreWrite counts one ConfigMap merge patch and its result.
func StoreWrite(err error) {
	storeWrites.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
