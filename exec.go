// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import (
	"code.hybscloud.com/kont"
)

// Exec runs a Cont-world poll protocol against the poller.
// Blocks on iox.ErrWouldBlock via adaptive backoff (iox.Backoff),
// without spawning goroutines. A closed endpoint reached by a Send or Recv
// operation panics; use ExecError to observe closure as a value.
func Exec[R any](p *Poller, protocol kont.Eff[R]) R {
	h := pollHandler[R]{p: p}
	return kont.Handle(protocol, h)
}

// ExecExpr runs an Expr-world poll protocol against the poller.
// Blocks on iox.ErrWouldBlock via adaptive backoff (iox.Backoff),
// without spawning goroutines. A closed endpoint reached by a Send or Recv
// operation panics; use ExecErrorExpr to observe closure as a value.
func ExecExpr[R any](p *Poller, protocol kont.Expr[R]) R {
	h := pollHandler[R]{p: p}
	return kont.HandleExpr(protocol, h)
}
