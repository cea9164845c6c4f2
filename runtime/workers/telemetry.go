package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"notify-lab/observability"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker periodically logs the notification-layer counters together
// with the process's own CPU and memory usage. Observability only: losing a
// tick has no effect on delivery.
type TelemetryWorker struct {
	log            *slog.Logger
	monitor        *observability.Monitor
	metricInterval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, monitor *observability.Monitor, metricInterval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, monitor: monitor, metricInterval: metricInterval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.report(proc)
		}
	}
}

func (w *TelemetryWorker) report(proc *process.Process) {
	stats := w.monitor.GetLatest()

	args := []any{
		"open_streams", stats.OpenStreams,
		"events_published", stats.EventsPublished,
		"delivery_errors", stats.DeliveryErrors,
		"alloc_mem_mb", stats.AllocMemMb,
	}

	cpu, err := proc.CPUPercent()
	if err != nil {
		w.log.Debug("Error while finding process cpu usage", "err", err)
	} else {
		args = append(args, "cpu_percent", cpu)
	}

	ram, err := proc.MemoryPercent()
	if err != nil {
		w.log.Debug("Error while finding process ram usage", "err", err)
	} else {
		args = append(args, "ram_percent", ram)
	}

	w.log.Info("telemetry: notification layer stats", args...)
}
