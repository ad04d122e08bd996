// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import (
	"code.hybscloud.com/kont"
)

// SendThen sends a value on tx and then continues with next.
// Fuses Perform(Send[T]{To: tx, Value: v}) + Then.
func SendThen[T, B any](tx TrySender[T], v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Send[T]{To: tx, Value: v}), next)
}

// RecvBind receives a value from rx and passes it to f.
// Fuses Perform(Recv[T]{From: rx}) + Bind.
func RecvBind[T, B any](rx TryReceiver[T], f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Recv[T]{From: rx}), f)
}

// WaitBind polls for readiness with the given timeout (decimal seconds) and
// passes the resulting tag — or [Timeout] — to f.
// Fuses Perform(Wait{Timeout: timeout}) + Bind.
func WaitBind[B any](timeout float64, f func(Tag) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Wait{Timeout: timeout}), f)
}

// CloseDone closes the sender capability and returns a.
// Fuses Perform(Close{C: c}) + Then + Pure.
func CloseDone[A any](c Closer, a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Close{C: c}), kont.Pure(a))
}
