package syncq

// File lock.go contains the lock helpers. Every public method funnels
// its mutex use through these, so a debug logger attached via
// WithLogger sees every acquisition and release, tagged with the
// operation that performed it.

func (q *Queue[T]) lock(op string) {
	q.logf("%s: lock: before", op)
	q.mu.Lock()
	q.logf("%s: lock: after", op)
}

func (q *Queue[T]) unlock(op string) {
	q.logf("%s: unlock: before", op)
	q.mu.Unlock()
	q.logf("%s: unlock: after", op)
}
