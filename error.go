// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// pollErrorHandler handles both poll and error effects. The kont error type
// is fixed to Go error: poll ops wait on ErrWouldBlock via iox.Backoff and
// short-circuit to Left on non-retryable failures (ErrClosed); error ops
// short-circuit on Throw.
type pollErrorHandler[R any] struct {
	p      *Poller
	errCtx *kont.ErrorContext[error]
}

// Dispatch implements kont.Handler for the composed Poll+Error handler.
// Dispatch order: Poll → Error.
func (h pollErrorHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if pop, ok := op.(pollDispatcher); ok {
		var bo iox.Backoff
		for {
			v, err := pop.DispatchPoll(h.p)
			if err == nil {
				return v, true
			}
			if !iox.IsWouldBlock(err) {
				return kont.Left[error, R](err), false
			}
			bo.Wait()
		}
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[error, R](h.errCtx.Err), false
		}
		return v, true
	}
	panic("poll: unhandled effect in pollErrorHandler")
}

// ExecError runs a Cont-world poll protocol with error handling against the
// poller. Returns Either[error, R] — Right on success, Left when an
// endpoint closes under a Send or Recv operation (ErrClosed) or on Throw.
// Blocks on iox.ErrWouldBlock via adaptive backoff, without spawning
// goroutines.
func ExecError[R any](p *Poller, protocol kont.Eff[R]) kont.Either[error, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	var errCtx kont.ErrorContext[error]
	h := pollErrorHandler[R]{p: p, errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// ExecErrorExpr runs an Expr-world poll protocol with error handling
// against the poller. Returns Either[error, R] — Right on success, Left on
// ErrClosed or Throw. Blocks on iox.ErrWouldBlock via adaptive backoff,
// without spawning goroutines.
func ExecErrorExpr[R any](p *Poller, protocol kont.Expr[R]) kont.Either[error, R] {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	var errCtx kont.ErrorContext[error]
	h := pollErrorHandler[R]{p: p, errCtx: &errCtx}
	return kont.HandleExpr(wrapped, h)
}

// RunError runs both Cont-world protocols against the poller with error
// handling and returns both results as Either values. Interleaves execution
// on the calling goroutine using adaptive backoff (iox.Backoff).
// Does not spawn goroutines.
func RunError[A, B any](p *Poller, a kont.Eff[A], b kont.Eff[B]) (kont.Either[error, A], kont.Either[error, B]) {
	return RunErrorExpr(p, Reify(a), Reify(b))
}

// RunErrorExpr runs both Expr-world protocols against the poller with error
// handling and returns both results as Either values. Interleaves execution
// on the calling goroutine using adaptive backoff (iox.Backoff).
// Does not spawn goroutines.
func RunErrorExpr[A, B any](p *Poller, a kont.Expr[A], b kont.Expr[B]) (kont.Either[error, A], kont.Either[error, B]) {
	resultA, suspA := StepError[A](a)
	resultB, suspB := StepError[B](b)
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = AdvanceError[A](p, suspA)
			if err == nil {
				progress = true
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = AdvanceError[B](p, suspB)
			if err == nil {
				progress = true
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

// StepError evaluates a poll protocol with error support until the first
// effect suspension. Returns (Either[error, R], nil) on completion or
// error, or (zero, suspension) if pending.
func StepError[R any](protocol kont.Expr[R]) (kont.Either[error, R], *kont.Suspension[kont.Either[error, R]]) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation against the poller.
// Poll ops are non-blocking (ErrWouldBlock, retryable); a non-retryable
// failure (ErrClosed) discards the suspension and returns Left. Error ops
// are eager: Throw discards the suspension and returns Left.
func AdvanceError[R any](p *Poller, susp *kont.Suspension[kont.Either[error, R]]) (kont.Either[error, R], *kont.Suspension[kont.Either[error, R]], error) {
	// Poll ops: non-blocking dispatch
	if pop, ok := susp.Op().(pollDispatcher); ok {
		v, err := pop.DispatchPoll(p)
		if err != nil {
			if !iox.IsWouldBlock(err) {
				susp.Discard()
				return kont.Left[error, R](err), nil, nil
			}
			var zero kont.Either[error, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	// Error ops: eager dispatch
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[error]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[error, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("poll: unhandled effect in AdvanceError")
}
