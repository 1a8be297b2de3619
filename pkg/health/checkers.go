package health

import (
	"context"
	"runtime"
	"time"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when the goroutine count exceeds threshold. A
// steadily growing count is the usual signature of a leak.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// GCMaxPauseCheck fails when any recent stop-the-world GC pause exceeds
// threshold, which points at memory pressure or an oversized heap. The
// runtime keeps the last 256 pauses, so a single slow collection keeps the
// probe failing until it ages out of the ring.
func GCMaxPauseCheck(threshold time.Duration) CheckFunc {
	return func(_ context.Context) error {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		recorded := min(ms.NumGC, uint32(len(ms.PauseNs)))
		var worst uint64
		for _, pause := range ms.PauseNs[:recorded] {
			if pause > worst {
				worst = pause
			}
		}
		if time.Duration(worst) > threshold {
			return errors.Errorf("GC pause %s exceeds threshold %s", time.Duration(worst), threshold)
		}
		return nil
	}
}
