// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package poll

import "code.hybscloud.com/atomix"

// Tag is a monotonically increasing channel endpoint identifier.
// Each call to New or NewBounded assigns the next tag value, starting at 0.
// Tags are immutable for the lifetime of the endpoint and never collide with
// [Timeout]. Wraparound past MaxInt32 after 2³¹ channel creations is an
// unhandled boundary.
type Tag = int32

// Timeout is the sentinel tag returned by [Poller.Poll] when no registered
// endpoint became ready before the deadline. It lies outside the valid tag
// range and is never assigned to an endpoint.
const Timeout Tag = -1

// counter is the global monotonic counter for endpoint tags.
var counter atomix.Uint32

// nextTag returns the next monotonically increasing tag.
func nextTag() Tag {
	return Tag(counter.Add(1) - 1)
}
