// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/poll"
)

func TestSendRecvOrder(t *testing.T) {
	tx, rx := poll.New[int]()

	for _, n := range []int{1, 2, 3} {
		if err := tx.Send(n); err != nil {
			t.Fatalf("Send(%d) error: %v", n, err)
		}
	}
	if rx.Len() != 3 {
		t.Fatalf("Len got %d, want 3", rx.Len())
	}
	for _, want := range []int{1, 2, 3} {
		n, err := rx.Recv()
		if err != nil {
			t.Fatalf("Recv error: %v", err)
		}
		if n != want {
			t.Fatalf("Recv got %d, want %d", n, want)
		}
	}
}

func TestTryRecvWouldBlock(t *testing.T) {
	_, rx := poll.New[int]()

	_, err := rx.TryRecv()
	if !iox.IsWouldBlock(err) {
		t.Fatalf("TryRecv on empty channel got %v, want would-block", err)
	}
}

func TestCloneMultiProducer(t *testing.T) {
	tx1, rx := poll.New[int]()
	tx2 := tx1.Clone()

	if tx1.Tag() != tx2.Tag() {
		t.Fatalf("clone tag differs: %d != %d", tx1.Tag(), tx2.Tag())
	}
	if err := tx1.Send(10); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if err := tx2.Send(20); err != nil {
		t.Fatalf("clone Send error: %v", err)
	}

	// One handle closed keeps the channel open.
	tx1.Close()
	if err := tx2.Send(30); err != nil {
		t.Fatalf("Send after sibling close error: %v", err)
	}
	for _, want := range []int{10, 20, 30} {
		n, err := rx.Recv()
		if err != nil {
			t.Fatalf("Recv error: %v", err)
		}
		if n != want {
			t.Fatalf("Recv got %d, want %d", n, want)
		}
	}

	tx2.Close()
	if _, err := rx.TryRecv(); !errors.Is(err, poll.ErrClosed) {
		t.Fatalf("TryRecv after last close got %v, want ErrClosed", err)
	}
}

func TestSendAfterClose(t *testing.T) {
	tx, _ := poll.New[int]()

	tx.Close()
	tx.Close() // idempotent
	if err := tx.Send(1); !errors.Is(err, poll.ErrClosed) {
		t.Fatalf("Send after Close got %v, want ErrClosed", err)
	}
}

func TestCloneOfClosedHandle(t *testing.T) {
	tx, rx := poll.New[int]()

	tx.Close()
	tx2 := tx.Clone()
	if err := tx2.Send(1); !errors.Is(err, poll.ErrClosed) {
		t.Fatalf("Send on clone of closed handle got %v, want ErrClosed", err)
	}
	if _, err := rx.TryRecv(); !errors.Is(err, poll.ErrClosed) {
		t.Fatalf("TryRecv got %v, want ErrClosed", err)
	}
}

func TestRecvDrainsBeforeClosed(t *testing.T) {
	tx, rx := poll.New[int]()

	tx.Send(7)
	tx.Close()

	n, err := rx.Recv()
	if err != nil {
		t.Fatalf("Recv error: %v", err)
	}
	if n != 7 {
		t.Fatalf("Recv got %d, want 7", n)
	}
	if _, err := rx.Recv(); !errors.Is(err, poll.ErrClosed) {
		t.Fatalf("Recv after drain got %v, want ErrClosed", err)
	}
}

func TestRecvClosedNoBlock(t *testing.T) {
	tx, rx := poll.New[int]()

	tx.Close()
	start := time.Now()
	if _, err := rx.Recv(); !errors.Is(err, poll.ErrClosed) {
		t.Fatalf("Recv got %v, want ErrClosed", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Recv on closed channel took %v", elapsed)
	}
}

func TestRecvBlocksUntilSend(t *testing.T) {
	tx, rx := poll.New[int]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		tx.Send(42)
	}()

	n, err := rx.Recv()
	if err != nil {
		t.Fatalf("Recv error: %v", err)
	}
	if n != 42 {
		t.Fatalf("Recv got %d, want 42", n)
	}
}

func TestRecvTimeout(t *testing.T) {
	_, rx := poll.New[int]()

	start := time.Now()
	_, err := rx.RecvTimeout(20 * time.Millisecond)
	if !errors.Is(err, poll.ErrTimeout) {
		t.Fatalf("RecvTimeout got %v, want ErrTimeout", err)
	}
	elapsed := time.Since(start)
	if elapsed < 20*time.Millisecond {
		t.Fatalf("RecvTimeout returned after %v, before the deadline", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("RecvTimeout took %v for a 20ms deadline", elapsed)
	}
}

func TestRecvTimeoutValue(t *testing.T) {
	tx, rx := poll.New[string]()

	tx.Send("hello")
	s, err := rx.RecvTimeout(time.Second)
	if err != nil {
		t.Fatalf("RecvTimeout error: %v", err)
	}
	if s != "hello" {
		t.Fatalf("RecvTimeout got %q, want %q", s, "hello")
	}
}

func TestReceiverDelegation(t *testing.T) {
	// A receiver is an ordinary value; sending one over a channel hands the
	// receive side to another consumer.
	innerTx, innerRx := poll.New[int]()
	outerTx, outerRx := poll.New[*poll.Receiver[int]]()

	innerTx.Send(99)
	outerTx.Send(innerRx)

	delegated, err := outerRx.Recv()
	if err != nil {
		t.Fatalf("Recv error: %v", err)
	}
	if delegated.Tag() != innerRx.Tag() {
		t.Fatalf("delegated tag got %d, want %d", delegated.Tag(), innerRx.Tag())
	}
	n, err := delegated.Recv()
	if err != nil {
		t.Fatalf("delegated Recv error: %v", err)
	}
	if n != 99 {
		t.Fatalf("delegated Recv got %d, want 99", n)
	}
}
