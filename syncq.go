// Package syncq provides a minimal synchronized FIFO queue for
// coordinating producers and consumers across goroutines. Any number
// of goroutines can invoke Queue.Push and Queue.Pop on a shared Queue
// without races, lost values, or double delivery of a single value to
// two consumers.
//
// Every operation is a short critical section: the queue's single
// mutex is acquired on entry and released on every exit path, and is
// never held across calls. Crucially, "look at the front element" and
// "remove the front element" are fused into the one Pop operation.
// Were they separate calls, two goroutines could each peek the same
// front element before either removed it, and one value would be
// consumed twice while its neighbor was consumed by nobody. Holding
// the lock across both the read and the structural removal eliminates
// that interface race entirely.
//
// The queue never blocks waiting for a value to arrive, and it has no
// capacity bound or backpressure. A consumer that wants to wait for
// data polls: call Pop (or check IsEmpty and then Pop) in a loop, and
// treat ErrEmpty as "nothing available right now". Note that IsEmpty
// is only ever a point-in-time snapshot; the lock is released before
// it returns, so a true result is not a promise that a subsequent Pop
// will succeed. Draining a queue therefore ends on Pop returning
// ErrEmpty, not on IsEmpty, and ErrEmpty is the expected, clean way
// for a drain loop to terminate.
package syncq

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/ef-ds/deque/v2"
	"github.com/neilotoole/fifomu"
	"github.com/neilotoole/sq/libsq/core/lg"
)

// ErrEmpty is returned by Queue.Pop and Queue.PopInto when the queue
// holds zero elements at the instant the lock is acquired. It is a
// recoverable condition, not a failure: a drain loop is expected to
// run until it sees ErrEmpty. Test for it with errors.Is.
var ErrEmpty = errors.New("queue is empty")

// Queue is a FIFO container safe for concurrent use by multiple
// goroutines. Values enter via Queue.Push and leave, in insertion
// order, via Queue.Pop or Queue.PopInto. The zero value is not usable;
// create a Queue with New. A Queue must not be copied after first use
// (it contains a lock); to duplicate its contents, use Queue.Clone.
type Queue[T any] struct {
	// mu guards all access to elems. No method may touch elems
	// without holding mu, and mu is held only for the duration of
	// a single method call.
	mu sync.Locker

	// log receives debug-level tracing of lock activity. It is
	// never nil; New defaults it to the discard logger.
	log *slog.Logger

	// elems is the ordered sequence. The deque itself is not
	// synchronized; mu provides all synchronization.
	elems deque.Deque[T]

	// fair records whether mu is a FIFO-fair mutex, so that Clone
	// can construct the copy with a lock of the same kind.
	fair bool
}

// Option configures a Queue returned by New.
type Option func(*options)

type options struct {
	log  *slog.Logger
	fair bool
}

// WithFairLock makes the queue's mutex hand off in FIFO order of
// lock requests, using neilotoole/fifomu instead of sync.Mutex.
// Insertion order is always decided by lock-acquisition order; with a
// fair lock, lock-acquisition order matches request order. This costs
// throughput and is rarely needed.
func WithFairLock() Option {
	return func(o *options) {
		o.fair = true
	}
}

// WithLogger sets a logger that traces lock acquisition and release
// at debug level. Useful when studying interleavings; by default the
// queue logs nothing.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// New returns a new empty Queue.
func New[T any](opts ...Option) *Queue[T] {
	o := options{log: lg.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	q := &Queue[T]{log: o.log, fair: o.fair}
	if o.fair {
		q.mu = &fifomu.Mutex{}
	} else {
		q.mu = &sync.Mutex{}
	}
	return q
}

// Push appends v to the back of the queue, taking ownership of it.
// Push never fails: the queue is unbounded, and an allocation failure
// while growing the backing storage is a fatal runtime condition, not
// an error the caller could handle.
func (q *Queue[T]) Push(v T) {
	q.lock("push")
	defer q.unlock("push")

	q.elems.PushBack(v)
}

// Pop removes the front element and returns it, transferring
// ownership to the caller. If the queue is empty when the lock is
// acquired, Pop returns the zero value of T and ErrEmpty, and the
// queue is unchanged.
//
// The peek and the removal happen under one lock hold, so no two
// callers can ever receive the same element. This is the preferred
// removal method; see Queue.PopInto for the caller-supplied-storage
// variant.
func (q *Queue[T]) Pop() (T, error) {
	q.lock("pop")
	defer q.unlock("pop")

	v, ok := q.elems.PopFront()
	if !ok {
		return v, ErrEmpty
	}
	return v, nil
}

// PopInto removes the front element and writes it to *dst. If the
// queue is empty when the lock is acquired, PopInto returns ErrEmpty
// and *dst is left untouched.
//
// PopInto exists for callers that want the removed value delivered
// into storage they have already arranged, so that delivery itself
// cannot fail after the element has left the queue. Most callers
// should prefer Queue.Pop.
func (q *Queue[T]) PopInto(dst *T) error {
	q.lock("pop into")
	defer q.unlock("pop into")

	v, ok := q.elems.PopFront()
	if !ok {
		return ErrEmpty
	}
	*dst = v
	return nil
}

// IsEmpty reports whether the queue held zero elements at the instant
// the lock was acquired. The result is a snapshot: by the time the
// caller acts on it, another goroutine may have pushed or popped.
// Callers must not treat a false result as a promise that a
// subsequent Pop will succeed; only Pop itself decides that,
// atomically, via ErrEmpty.
func (q *Queue[T]) IsEmpty() bool {
	q.lock("empty")
	defer q.unlock("empty")

	return q.elems.Len() == 0
}

// Len returns the number of elements in the queue at the instant the
// lock was acquired. Like IsEmpty, it is a snapshot.
func (q *Queue[T]) Len() int {
	q.lock("len")
	defer q.unlock("len")

	return q.elems.Len()
}

// Clone returns a new independent Queue containing the same elements
// in the same order as q at the instant of the snapshot. The source
// lock is held for the full duration of the copy, so the snapshot can
// never observe a half-applied mutation. The clone has its own fresh
// lock (of the same fairness as q's) and shares nothing with q:
// subsequent operations on either queue do not affect the other.
//
// Clone is the only way to duplicate a Queue. Copying the struct
// value would share the lock and the backing storage, which is why
// Queue documents itself as not copyable.
func (q *Queue[T]) Clone() *Queue[T] {
	c := &Queue[T]{log: q.log, fair: q.fair}
	if q.fair {
		c.mu = &fifomu.Mutex{}
	} else {
		c.mu = &sync.Mutex{}
	}

	q.lock("clone")
	defer q.unlock("clone")

	// The deque exposes no iterator, so the snapshot rotates q's
	// elements through one full PopFront/PushBack cycle. After
	// exactly Len iterations the source ordering is restored; the
	// lock is held throughout, so no caller can observe the
	// intermediate rotation.
	n := q.elems.Len()
	for i := 0; i < n; i++ {
		v, _ := q.elems.PopFront()
		c.elems.PushBack(v)
		q.elems.PushBack(v)
	}
	return c
}
