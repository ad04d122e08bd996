// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import (
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// boundedPair holds both capabilities, the ring, and the shared counters in
// a single allocation. The SPSC queue is embedded as a value; only its ring
// buffer is a separate heap object.
type boundedPair[T any] struct {
	tx       BoundedSender[T]
	rx       BoundedReceiver[T]
	data     lfq.SPSC[T]
	sent     atomix.Uint32
	received atomix.Uint32
	closed   atomix.Uint32
	tag      Tag
}

// BoundedSender is the sending capability of a pair created by [NewBounded].
// Single producer: at most one goroutine may send at a time.
type BoundedSender[T any] struct {
	pair *boundedPair[T]
	slot T
}

// BoundedReceiver is the receiving capability of a pair created by
// [NewBounded]. Single consumer: at most one goroutine may receive at a time.
type BoundedReceiver[T any] struct {
	pair *boundedPair[T]
}

// NewBounded creates a fixed-capacity single-producer/single-consumer
// channel pair on a lock-free SPSC ring, carrying the next [Tag].
// TrySend returns iox.ErrWouldBlock while the ring is full.
// Panics if capacity is not positive.
func NewBounded[T any](capacity int) (*BoundedSender[T], *BoundedReceiver[T]) {
	if capacity < 1 {
		panic("poll: bounded channel capacity must be positive")
	}
	pair := &boundedPair[T]{tag: nextTag()}
	pair.data.Init(capacity)
	pair.tx.pair = pair
	pair.rx.pair = pair
	return &pair.tx, &pair.rx
}

// Tag returns the immutable identifier of the sender's channel.
func (tx *BoundedSender[T]) Tag() Tag {
	return tx.pair.tag
}

// TrySend enqueues v without blocking.
// Returns iox.ErrWouldBlock while the ring is full and ErrClosed after
// Close. The value is staged in a per-sender slot so enqueueing does not
// heap-escape v.
func (tx *BoundedSender[T]) TrySend(v T) error {
	if tx.pair.closed.Load() != 0 {
		return ErrClosed
	}
	tx.slot = v
	if err := tx.pair.data.Enqueue(&tx.slot); err != nil {
		return err
	}
	tx.pair.sent.Add(1)
	return nil
}

// Send enqueues v, waiting past the iox.ErrWouldBlock boundary with
// adaptive backoff until ring space frees up. Returns ErrClosed after Close.
func (tx *BoundedSender[T]) Send(v T) error {
	var bo iox.Backoff
	for {
		err := tx.TrySend(v)
		if !iox.IsWouldBlock(err) {
			return err
		}
		bo.Wait()
	}
}

// Close closes the channel. Buffered values remain receivable, after which
// receive operations return ErrClosed. Close is idempotent.
func (tx *BoundedSender[T]) Close() {
	if tx.pair.closed.Load() == 0 {
		tx.pair.closed.Add(1)
	}
}

// Tag returns the immutable identifier of the receiver's channel.
func (rx *BoundedReceiver[T]) Tag() Tag {
	return rx.pair.tag
}

// TryRecv dequeues one value without blocking.
// Returns iox.ErrWouldBlock when the ring is empty with an open sender, and
// ErrClosed when it is empty after Close. The closed flag is sampled before
// the dequeue attempt so a value enqueued before Close is never reported as
// ErrClosed.
func (rx *BoundedReceiver[T]) TryRecv() (T, error) {
	closed := rx.pair.closed.Load() != 0
	v, err := rx.pair.data.Dequeue()
	if err == nil {
		rx.pair.received.Add(1)
		return v, nil
	}
	var zero T
	if closed {
		return zero, ErrClosed
	}
	return zero, iox.ErrWouldBlock
}

// Recv dequeues one value, waiting past the iox.ErrWouldBlock boundary with
// adaptive backoff. Returns ErrClosed once the channel is closed and
// drained; it never blocks on a closed channel.
func (rx *BoundedReceiver[T]) Recv() (T, error) {
	var bo iox.Backoff
	for {
		v, err := rx.TryRecv()
		if !iox.IsWouldBlock(err) {
			return v, err
		}
		bo.Wait()
	}
}

// RecvTimeout dequeues one value, waiting at most d.
// Returns ErrTimeout when nothing arrived in time and ErrClosed once the
// channel is closed and drained.
func (rx *BoundedReceiver[T]) RecvTimeout(d time.Duration) (T, error) {
	deadline := time.Now().Add(d)
	var bo iox.Backoff
	for {
		v, err := rx.TryRecv()
		if !iox.IsWouldBlock(err) {
			return v, err
		}
		if !time.Now().Before(deadline) {
			var zero T
			return zero, ErrTimeout
		}
		bo.Wait()
	}
}

// Len reports the number of buffered values.
func (rx *BoundedReceiver[T]) Len() int {
	return int(rx.pair.sent.Load() - rx.pair.received.Load())
}

// Ready implements [Pollable]: a value is buffered and receivable without
// blocking. Observation only; Ready never dequeues.
func (rx *BoundedReceiver[T]) Ready() bool {
	return rx.pair.sent.Load() != rx.pair.received.Load()
}
