package metrics

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostCollector reports host memory and load average at scrape time.
type HostCollector struct {
	memory func(context.Context) (*mem.VirtualMemoryStat, error)
	load   func(context.Context) (*load.AvgStat, error)
	logger *slog.Logger

	memTotal *prometheus.Desc
	memUsed  *prometheus.Desc
	load1    *prometheus.Desc
}

// NewHostCollector creates a collector backed by gopsutil.
func NewHostCollector(logger *slog.Logger) *HostCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &HostCollector{
		memory: mem.VirtualMemoryWithContext,
		load:   load.AvgWithContext,
		logger: logger,
		memTotal: prometheus.NewDesc("edgegate_host_memory_total_bytes",
			"Total host memory", nil, nil),
		memUsed: prometheus.NewDesc("edgegate_host_memory_used_bytes",
			"Host memory in use", nil, nil),
		load1: prometheus.NewDesc("edgegate_host_load1",
			"Host 1-minute load average", nil, nil),
	}
}

// RegisterHost registers a HostCollector with reg.
func RegisterHost(reg prometheus.Registerer, logger *slog.Logger) error {
	return reg.Register(NewHostCollector(logger))
}

func (c *HostCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.memTotal
	ch <- c.memUsed
	ch <- c.load1
}

func (c *HostCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	if vm, err := c.memory(ctx); err != nil {
		c.logger.Debug("host memory unavailable", "error", err)
	} else {
		ch <- prometheus.MustNewConstMetric(c.memTotal, prometheus.GaugeValue, float64(vm.Total))
		ch <- prometheus.MustNewConstMetric(c.memUsed, prometheus.GaugeValue, float64(vm.Used))
	}

	if avg, err := c.load(ctx); err != nil {
		c.logger.Debug("host load unavailable", "error", err)
	} else {
		ch <- prometheus.MustNewConstMetric(c.load1, prometheus.GaugeValue, avg.Load1)
	}
}
