package workers

import (
	"chat-gateway/observability"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// MonitoringWorker samples the gateway and its own process on every tick,
// publishes the gauges and logs a summary line.
type MonitoringWorker struct {
	log      *slog.Logger
	stats    observability.StatsProvider
	manager  *observability.MonitoringManager
	interval time.Duration
}

func NewMonitoringWorker(
	log *slog.Logger,
	stats observability.StatsProvider,
	manager *observability.MonitoringManager,
	interval time.Duration,
) *MonitoringWorker {
	return &MonitoringWorker{log: log, stats: stats, manager: manager, interval: interval}
}

func (w *MonitoringWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Warn("Process metrics unavailable", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping monitoring")
			return nil
		case <-ticker.C:
			cpu, rss := w.sample(proc)
			stats := w.manager.Update(w.stats.Stats(), cpu, rss)
			w.log.Debug("Gateway stats",
				"connections", stats.Connections,
				"online_users", stats.OnlineUsers,
				"active_rooms", stats.ActiveRooms,
				"cpu_percent", stats.CPUPercent,
				"rss_mb", stats.RSSMb,
				"goroutines", stats.Goroutines,
			)
		}
	}
}

// sample reads CPU and resident memory, reporting zero for what cannot be read.
func (w *MonitoringWorker) sample(proc *process.Process) (float64, uint64) {
	if proc == nil {
		return 0, 0
	}
	cpu, err := proc.CPUPercent()
	if err != nil {
		w.log.Debug("Error while reading process cpu usage", "error", err)
		cpu = 0
	}
	mem, err := proc.MemoryInfo()
	if err != nil || mem == nil {
		w.log.Debug("Error while reading process memory", "error", err)
		return cpu, 0
	}
	return cpu, mem.RSS
}
