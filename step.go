// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a poll protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended poll operation against the poller.
// DispatchPoll is non-blocking apart from [Wait], which blocks up to its
// carried timeout.
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion.
// On iox.ErrWouldBlock, the suspension is unconsumed and may be retried
// after a producer makes progress. On ErrClosed the suspension is likewise
// unconsumed; retrying cannot succeed, so callers should check the error
// with iox.IsWouldBlock before retrying (or step with AdvanceError, which
// folds closure into the result).
func Advance[R any](p *Poller, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	pop, ok := susp.Op().(pollDispatcher)
	if !ok {
		panic("poll: unhandled effect in Advance")
	}
	v, err := pop.DispatchPoll(p)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
