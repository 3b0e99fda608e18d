package device

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	poolHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loom_pool_hits_total",
		Help: "Total number of allocations served from the memory pool",
	})

	poolMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loom_pool_misses_total",
		Help: "Total number of pool misses that fell through to a raw allocation",
	})

	poolBlocks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "loom_pool_blocks_count",
		Help: "Current number of blocks tracked by the memory pool",
	})

	poolBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "loom_pool_size_bytes",
		Help: "Current total size of blocks tracked by the memory pool in bytes",
	})
)
