// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import (
	"errors"
	"sync"
	"time"

	"code.hybscloud.com/iox"
	"github.com/eapache/queue"
)

// ErrClosed is returned by receive operations when every sender handle of
// the channel has been closed and no buffered value remains. It is never
// returned by [Poller.Poll].
var ErrClosed = errors.New("poll: channel closed")

// ErrTimeout is returned by [Receiver.RecvTimeout] when no value arrived
// within the given duration.
var ErrTimeout = errors.New("poll: receive timed out")

// channelCore is the state shared by all sender clones and the receiver of
// one channel. The buffer is an unbounded FIFO ring; buffer and sender count
// are guarded by one mutex so that the closed decision (empty AND no live
// senders) is a single consistent observation.
type channelCore[T any] struct {
	mu      sync.Mutex
	buf     *queue.Queue
	senders int
	tag     Tag
}

// Sender is the sending capability of a channel pair created by [New].
// Handles are cloneable for multi-producer use; the channel closes when the
// last live handle is closed.
type Sender[T any] struct {
	core   *channelCore[T]
	closed bool
}

// Receiver is the receiving capability of a channel pair created by [New].
// It does not own the buffer; it dequeues through the shared core.
type Receiver[T any] struct {
	core *channelCore[T]
}

// New creates an unbounded multi-producer channel pair carrying the next
// [Tag]. Send never blocks; values are received in send order.
func New[T any]() (*Sender[T], *Receiver[T]) {
	core := &channelCore[T]{
		buf:     queue.New(),
		senders: 1,
		tag:     nextTag(),
	}
	return &Sender[T]{core: core}, &Receiver[T]{core: core}
}

// Tag returns the immutable identifier of the sender's channel.
func (tx *Sender[T]) Tag() Tag {
	return tx.core.tag
}

// Send enqueues v. The buffer is unbounded, so Send never blocks and never
// returns iox.ErrWouldBlock. Returns ErrClosed after the handle was closed.
func (tx *Sender[T]) Send(v T) error {
	tx.core.mu.Lock()
	defer tx.core.mu.Unlock()
	if tx.closed {
		return ErrClosed
	}
	tx.core.buf.Add(v)
	return nil
}

// TrySend is Send under the non-blocking capability surface used by effect
// operations. For an unbounded channel it is identical to Send.
func (tx *Sender[T]) TrySend(v T) error {
	return tx.Send(v)
}

// Clone returns a new sender handle for the same channel, keeping the
// channel open until every handle is closed. Cloning a closed handle yields
// a closed handle.
func (tx *Sender[T]) Clone() *Sender[T] {
	tx.core.mu.Lock()
	defer tx.core.mu.Unlock()
	if tx.closed {
		return &Sender[T]{core: tx.core, closed: true}
	}
	tx.core.senders++
	return &Sender[T]{core: tx.core}
}

// Close releases this sender handle. When the last live handle closes, the
// channel is closed: buffered values remain receivable, after which receive
// operations return ErrClosed. Close is idempotent.
func (tx *Sender[T]) Close() {
	tx.core.mu.Lock()
	defer tx.core.mu.Unlock()
	if tx.closed {
		return
	}
	tx.closed = true
	tx.core.senders--
}

// Tag returns the immutable identifier of the receiver's channel.
func (rx *Receiver[T]) Tag() Tag {
	return rx.core.tag
}

// TryRecv dequeues one value without blocking.
// Returns iox.ErrWouldBlock when the buffer is empty with live senders, and
// ErrClosed when it is empty with none.
func (rx *Receiver[T]) TryRecv() (T, error) {
	rx.core.mu.Lock()
	defer rx.core.mu.Unlock()
	if rx.core.buf.Length() > 0 {
		return rx.core.buf.Remove().(T), nil
	}
	var zero T
	if rx.core.senders == 0 {
		return zero, ErrClosed
	}
	return zero, iox.ErrWouldBlock
}

// Recv dequeues one value, waiting past the iox.ErrWouldBlock boundary with
// adaptive backoff. Returns ErrClosed once the channel is closed and
// drained; it never blocks on a closed channel.
func (rx *Receiver[T]) Recv() (T, error) {
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
func (rx *Receiver[T]) RecvTimeout(d time.Duration) (T, error) {
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
func (rx *Receiver[T]) Len() int {
	rx.core.mu.Lock()
	defer rx.core.mu.Unlock()
	return rx.core.buf.Length()
}

// Ready implements [Pollable]: a value is buffered and receivable without
// blocking. Observation only; Ready never dequeues.
func (rx *Receiver[T]) Ready() bool {
	rx.core.mu.Lock()
	defer rx.core.mu.Unlock()
	return rx.core.buf.Length() > 0
}
