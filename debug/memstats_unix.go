//go:build unix

package debug

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// StartMemLogger logs peak RSS next to Go heap stats every interval (default
// 10s), to tell native growth (Tk photos) from heap growth.
func StartMemLogger(interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var rusageErrLogged bool
		for range ticker.C {
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			var ru unix.Rusage
			var maxRSS uint64
			if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err == nil {
				maxRSS = maxRSSBytes(int64(ru.Maxrss))
			} else if !rusageErrLogged {
				logger.Warn("memlog: getrusage failed", slog.String("err", err.Error()))
				rusageErrLogged = true
			}
			logger.Debug("memstats",
				slog.Int("goroutines", runtime.NumGoroutine()),
				slog.String("max_rss", humanize.Bytes(maxRSS)),
				slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
				slog.String("heap_sys", humanize.Bytes(ms.HeapSys)),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
		}
	}()
}

// maxRSSBytes normalizes ru_maxrss, reported in bytes on darwin and KiB elsewhere.
func maxRSSBytes(v int64) uint64 {
	if v < 0 {
		return 0
	}
	if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
		return uint64(v)
	}
	return uint64(v) * 1024
}
