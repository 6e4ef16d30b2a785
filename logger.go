package syncq

import (
	"context"
	"fmt"
	"log/slog"
)

// logf logs at debug level. The enablement check keeps the Sprintf
// off the hot path when the logger is the lg.Discard default.
func (q *Queue[T]) logf(format string, args ...any) {
	if !q.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	q.log.Debug(fmt.Sprintf(format, args...))
}
