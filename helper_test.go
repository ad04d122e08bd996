// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll_test

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/poll"
)

// execExpr drives a protocol to completion against p via Step+Advance loop.
// Retries on iox.ErrWouldBlock (producer or consumer not ready yet).
// Used by stepping tests to exercise the non-blocking path.
func execExpr[R any](p *poll.Poller, protocol kont.Expr[R]) R {
	result, susp := poll.Step[R](protocol)
	for susp != nil {
		var err error
		result, susp, err = poll.Advance(p, susp)
		if err != nil {
			continue
		}
	}
	return result
}
