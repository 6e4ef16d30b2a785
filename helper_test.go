package syncq_test

// File helper_test.go contains test helper functionality.

import (
	mrand "math/rand"
	"time"
)

const jitterFactor = 500

// jitter sleeps a randomized smidgen so that goroutine interleavings
// vary between runs instead of depending on incidental timing.
func jitter() {
	time.Sleep(time.Nanosecond * time.Duration(mrand.Intn(jitterFactor)))
}

// busyWork burns a little CPU between queue operations, widening the
// window in which other goroutines can cut in.
func busyWork() float64 {
	var f float64
	for j := 1; j < 200; j++ {
		f += float64(j) * 3.1453
	}
	return f
}
