// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import (
	"code.hybscloud.com/kont"
)

// exprReturnFrame is the pre-allocated terminal frame shared by all fused
// Expr constructors, avoiding a heap escape per construction.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
// Named function produces a static function value, consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprSendThen sends a value on tx and then continues with next.
// Fuses ExprPerform(Send[T]{To: tx, Value: v}) + ExprThen.
func ExprSendThen[T, B any](tx TrySender[T], v T, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Send[T]{To: tx, Value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func bindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(T) kont.Expr[B])
	result := f(current.(T))
	return kont.Erased(result.Value), result.Frame
}

// ExprRecvBind receives a value from rx and passes it to f.
// Fuses ExprPerform(Recv[T]{From: rx}) + ExprBind.
func ExprRecvBind[T, B any](rx TryReceiver[T], f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = bindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Recv[T]{From: rx}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprWaitBind polls for readiness with the given timeout (decimal seconds)
// and passes the resulting tag — or [Timeout] — to f.
// Fuses ExprPerform(Wait{Timeout: timeout}) + ExprBind.
func ExprWaitBind[B any](timeout float64, f func(Tag) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = bindUnwind[Tag, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Wait{Timeout: timeout}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprCloseDone closes the sender capability and returns a.
// Fuses ExprPerform(Close{C: c}) + ExprThen + ExprReturn.
func ExprCloseDone[A any](c Closer, a A) kont.Expr[A] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(a), Frame: exprReturnFrame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Close{C: c}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[A](ef)
}
