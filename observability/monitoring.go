package observability

import (
	"runtime"
	"sync"
	"time"
)

// GatewayStats is a point-in-time view of the gateway, logged by the monitoring worker.
type GatewayStats struct {
	Connections int `json:"connections"`
	OnlineUsers int `json:"online_users"`
	ActiveRooms int `json:"active_rooms"`

	// --- PROCESS ---
	CPUPercent float64 `json:"cpu_percent"`
	RSSMb      uint64  `json:"rss_mb"`
	AllocMemMb uint64  `json:"alloc_mem_mb"`
	NumGC      uint32  `json:"num_gc"`
	Goroutines int     `json:"goroutines"`

	At time.Time `json:"at"`
}

// StatsProvider exposes the live gateway counters.
type StatsProvider interface {
	Stats() GatewayStats
}

// MonitoringManager keeps the latest stats and mirrors them into the Prometheus gauges.
type MonitoringManager struct {
	mu          sync.RWMutex
	latestStats GatewayStats
}

func NewMonitoringManager() *MonitoringManager {
	return &MonitoringManager{}
}

// Update completes live stats with Go runtime figures, stores them and publishes the gauges.
func (mm *MonitoringManager) Update(stats GatewayStats, cpuPercent float64, rssBytes uint64) GatewayStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats.CPUPercent = cpuPercent
	stats.RSSMb = rssBytes / 1024 / 1024
	stats.AllocMemMb = m.Alloc / 1024 / 1024
	stats.NumGC = m.NumGC
	stats.Goroutines = runtime.NumGoroutine()
	stats.At = time.Now().UTC()

	ConnectionsActive.Set(float64(stats.Connections))
	UsersOnline.Set(float64(stats.OnlineUsers))
	RoomsActive.Set(float64(stats.ActiveRooms))
	ProcessCPUPercent.Set(cpuPercent)
	ProcessRSSBytes.Set(float64(rssBytes))

	mm.mu.Lock()
	mm.latestStats = stats
	mm.mu.Unlock()
	return stats
}

func (mm *MonitoringManager) GetLatest() GatewayStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latestStats
}
