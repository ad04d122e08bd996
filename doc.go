// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package poll multiplexes readiness across many channel endpoints so that a
// single consumer can wait for whichever producer delivers first, bounded by
// a timeout.
//
// Each channel pair minted by [New] or [NewBounded] carries a unique [Tag].
// A [Poller] watches the receive sides and [Poller.Poll] returns the tag of
// one ready endpoint, or [Timeout] when nothing became ready in time. Polling
// only detects readiness; the caller dequeues with [Receiver.Recv] (or
// [Receiver.TryRecv]) on the identified endpoint.
//
// # Architecture
//
//   - Transport: [New] wraps an unbounded multi-producer FIFO buffer;
//     [NewBounded] uses a lock-free bounded SPSC ring via [code.hybscloud.com/lfq].
//   - Non-blocking: TryRecv and TrySend return [code.hybscloud.com/iox.ErrWouldBlock]
//     at the I/O boundary; blocking variants wait with adaptive backoff.
//   - Readiness: Poll sweeps registered [Pollable] endpoints from a rotating
//     cursor (round-robin fairness) and backs off between sweeps, bounded by
//     the requested timeout. No goroutines are spawned.
//   - Composition: poll-driven protocols as algebraic effects on
//     [code.hybscloud.com/kont], with Cont-world, Expr-world, stepping and
//     error-handling evaluation.
//
// # API Topologies
//
//   - Channels: [New], [NewBounded], [Sender], [Receiver], [BoundedSender], [BoundedReceiver].
//   - Polling: [NewPoller], [Poller.Add], [Poller.Append], [Poller.Poll].
//   - Operations: [Send], [Recv], [Wait], [Close].
//   - Cont-world: [SendThen], [RecvBind], [WaitBind], [CloseDone], [Exec], [Run].
//   - Expr-world: [ExprSendThen], [ExprRecvBind], [ExprWaitBind], [ExprCloseDone],
//     [ExecExpr], [RunExpr]. Bridge via [Reify] and [Reflect].
//   - Stepping: [Step] and [Advance] (or [StepError]/[AdvanceError]) for
//     proactor-loop integration.
//   - Errors: [ErrClosed] from receiving on a closed, drained channel;
//     error-world evaluation ([ExecError], [RunError]) short-circuits it to
//     [code.hybscloud.com/kont.Either].
//
// # Example
//
//	tx1, rx1 := poll.New[int]()
//	tx2, rx2 := poll.New[int]()
//	p := poll.NewPoller(rx1, rx2)
//
//	tx1.Send(100)
//	tx2.Send(200)
//
//	for i := 0; i < 3; i++ {
//		switch tag := p.Poll(0.01); tag {
//		case rx1.Tag():
//			n, _ := rx1.Recv() // 100
//			_ = n
//		case rx2.Tag():
//			n, _ := rx2.Recv() // 200
//			_ = n
//		case poll.Timeout:
//			// nothing pending
//		}
//	}
package poll
