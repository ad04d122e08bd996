// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// TrySender is the non-blocking send capability carried by [Send]
// operations. [Sender] and [BoundedSender] implement it.
type TrySender[T any] interface {
	Tag() Tag
	TrySend(v T) error
}

// TryReceiver is the non-blocking receive capability carried by [Recv]
// operations. [Receiver] and [BoundedReceiver] implement it.
type TryReceiver[T any] interface {
	Tag() Tag
	TryRecv() (T, error)
}

// Closer is the close capability carried by [Close] operations.
// [Sender] and [BoundedSender] implement it.
type Closer interface {
	Close()
}

// pollDispatcher is the structural interface for poll operations.
// DispatchPoll is non-blocking apart from [Wait]: it returns
// iox.ErrWouldBlock at the I/O boundary when the endpoint cannot make
// progress, and ErrClosed when the endpoint is closed and drained.
type pollDispatcher interface {
	DispatchPoll(p *Poller) (kont.Resumed, error)
}

// pollHandler implements kont.Handler for poll effects.
// Waits on iox.ErrWouldBlock, converting non-blocking dispatch into
// blocking evaluation for Exec/ExecExpr.
type pollHandler[R any] struct {
	p *Poller
}

// Dispatch implements kont.Handler via structural interface assertion.
// Waits past the iox.ErrWouldBlock boundary with adaptive backoff.
func (h pollHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	pop, ok := op.(pollDispatcher)
	if !ok {
		panic("poll: unhandled effect in pollHandler")
	}
	return dispatchWait(h.p, pop), true
}

// dispatchWait blocks until DispatchPoll succeeds, backing off on
// iox.ErrWouldBlock. A non-retryable failure (ErrClosed) is a programming
// error in plain-world evaluation; error-world evaluation (ExecError,
// RunError) observes it as a Left instead.
func dispatchWait(p *Poller, pop pollDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := pop.DispatchPoll(p)
		if err == nil {
			return v
		}
		if !iox.IsWouldBlock(err) {
			panic("poll: non-retryable " + err.Error() + " in pollHandler")
		}
		bo.Wait()
	}
}

// Send is the effect operation for sending a value of type T on the
// endpoint capability it carries.
// Perform(Send[T]{To: tx, Value: v}) delivers v to tx's channel.
type Send[T any] struct {
	kont.Phantom[struct{}]
	To    TrySender[T]
	Value T
}

// DispatchPoll handles Send on the carried endpoint.
// Non-blocking: returns iox.ErrWouldBlock if a bounded ring is full.
func (s Send[T]) DispatchPoll(*Poller) (kont.Resumed, error) {
	if err := s.To.TrySend(s.Value); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// Recv is the effect operation for receiving a value of type T from the
// endpoint capability it carries.
// Perform(Recv[T]{From: rx}) dequeues one value from rx's channel.
type Recv[T any] struct {
	kont.Phantom[T]
	From TryReceiver[T]
}

// DispatchPoll handles Recv on the carried endpoint.
// Non-blocking: returns iox.ErrWouldBlock if nothing is buffered, and
// ErrClosed if the channel is closed and drained.
func (r Recv[T]) DispatchPoll(*Poller) (kont.Resumed, error) {
	v, err := r.From.TryRecv()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Wait is the effect operation for awaiting readiness across the poller's
// registered endpoints. Perform(Wait{Timeout: t}) resumes with the tag of
// one ready endpoint, or [Timeout] when the deadline passed.
type Wait struct {
	kont.Phantom[Tag]
	Timeout float64
}

// DispatchPoll handles Wait by polling the handler's Poller.
// Blocks up to the carried timeout, even under non-blocking stepping;
// a timeout resumes the protocol with the [Timeout] tag, never an error.
func (w Wait) DispatchPoll(p *Poller) (kont.Resumed, error) {
	return p.Poll(w.Timeout), nil
}

// Close is the effect operation for closing the sender capability it
// carries. Perform(Close{C: tx}) closes tx's channel.
type Close struct {
	kont.Phantom[struct{}]
	C Closer
}

// DispatchPoll handles Close on the carried capability. Never blocks.
func (c Close) DispatchPoll(*Poller) (kont.Resumed, error) {
	c.C.Close()
	return struct{}{}, nil
}
