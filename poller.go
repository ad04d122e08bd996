// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import (
	"time"

	"code.hybscloud.com/iox"
)

// Pollable is the registration surface of a channel receive side.
// Ready reports whether a value can be received without blocking; it must
// only observe, never dequeue. [Receiver] and [BoundedReceiver] implement it.
type Pollable interface {
	// Tag returns the immutable identifier of the endpoint's channel.
	Tag() Tag
	// Ready reports whether a value is receivable without blocking.
	Ready() bool
}

// Poller multiplexes readiness across a registered set of channel endpoints.
// It borrows the endpoints it watches and must not outlive them; it owns no
// channel state and spawns no goroutines.
//
// A Poller serves one polling goroutine. Add and Append are only valid while
// no Poll is in flight.
type Poller struct {
	endpoints []Pollable
	cursor    int
}

// NewPoller creates a Poller watching the given endpoints.
// More can be registered later with Add or Append.
// Panics if two endpoints carry the same tag.
func NewPoller(endpoints ...Pollable) *Poller {
	p := &Poller{}
	p.Append(endpoints...)
	return p
}

// Add registers a single endpoint for future polling.
// Registering a tag that is already present is a caller error and panics.
func (p *Poller) Add(ep Pollable) {
	tag := ep.Tag()
	for _, registered := range p.endpoints {
		if registered.Tag() == tag {
			panic("poll: duplicate tag registered")
		}
	}
	p.endpoints = append(p.endpoints, ep)
}

// Append registers a list of endpoints for future polling.
// Registering a tag that is already present is a caller error and panics.
func (p *Poller) Append(endpoints ...Pollable) {
	for _, ep := range endpoints {
		p.Add(ep)
	}
}

// Poll blocks until at least one registered endpoint is ready or the timeout
// (decimal seconds) elapses, whichever comes first. It returns the tag of
// one ready endpoint, or [Timeout] when the deadline passed with nothing
// ready. Poll only detects readiness and never dequeues; receive on the
// identified endpoint afterwards.
//
// Readiness is scanned in registration order starting one past the endpoint
// returned by the previous successful Poll, so simultaneously ready
// endpoints are served round-robin and none is starved across repeated
// calls. Between sweeps Poll waits with adaptive backoff.
//
// A zero or negative timeout performs exactly one readiness sweep. A closed,
// drained endpoint does not count as ready: Poll returns [Timeout] at the
// deadline and the endpoint's receive operations surface ErrClosed without
// blocking.
//
// Polling with no endpoints registered is a caller error and panics.
func (p *Poller) Poll(timeout float64) Tag {
	n := len(p.endpoints)
	if n == 0 {
		panic("poll: poll on empty poller")
	}
	deadline := time.Now().Add(time.Duration(timeout * float64(time.Second)))
	var bo iox.Backoff
	for {
		for i := 0; i < n; i++ {
			ep := p.endpoints[(p.cursor+i)%n]
			if ep.Ready() {
				p.cursor = (p.cursor + i + 1) % n
				return ep.Tag()
			}
		}
		if !time.Now().Before(deadline) {
			return Timeout
		}
		bo.Wait()
	}
}
