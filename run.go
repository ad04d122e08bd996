// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Run runs both Cont-world protocols against the poller — typically one
// producer and one consumer over the watched channels — and returns both
// results. Interleaves execution of both sides on the calling goroutine
// using adaptive backoff (iox.Backoff) when neither side can make progress.
// Does not spawn goroutines.
func Run[A, B any](p *Poller, a kont.Eff[A], b kont.Eff[B]) (A, B) {
	return RunExpr(p, Reify(a), Reify(b))
}

// RunExpr runs both Expr-world protocols against the poller and returns
// both results. Interleaves execution of both sides on the calling
// goroutine using adaptive backoff (iox.Backoff) when neither side can make
// progress. Does not spawn goroutines. A [Wait] operation blocks its side
// up to the carried timeout before resuming with [Timeout], so bound
// consumer waits keep the interleaving live. A closed endpoint reached by a
// Send or Recv operation panics; use RunErrorExpr to observe closure.
func RunExpr[A, B any](p *Poller, a kont.Expr[A], b kont.Expr[B]) (A, B) {
	resultA, suspA := Step[A](a)
	resultB, suspB := Step[B](b)
	var bo iox.Backoff

	var popA pollDispatcher
	if suspA != nil {
		popA = suspA.Op().(pollDispatcher)
	}
	var popB pollDispatcher
	if suspB != nil {
		popB = suspB.Op().(pollDispatcher)
	}

	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			v, err := popA.DispatchPoll(p)
			if err == nil {
				resultA, suspA = suspA.Resume(v)
				if suspA != nil {
					popA = suspA.Op().(pollDispatcher)
				}
				progress = true
			} else if !iox.IsWouldBlock(err) {
				panic("poll: non-retryable " + err.Error() + " in RunExpr")
			}
		}
		if suspB != nil {
			v, err := popB.DispatchPoll(p)
			if err == nil {
				resultB, suspB = suspB.Resume(v)
				if suspB != nil {
					popB = suspB.Op().(pollDispatcher)
				}
				progress = true
			} else if !iox.IsWouldBlock(err) {
				panic("poll: non-retryable " + err.Error() + " in RunExpr")
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}
