// Package progress defines the sink that build progress messages flow into
// and the terminal tokens that end every build stream.
package progress

import (
	"strings"
	"sync"
)

// Done is the terminal token sent after a successful build.
const Done = "[DONE]"

const errorPrefix = "[ERROR] "

// ErrorToken formats the terminal token for a failed build.
func ErrorToken(msg string) string {
	return errorPrefix + msg
}

// IsTerminal reports whether msg is a terminal token.
func IsTerminal(msg string) bool {
	return msg == Done || strings.HasPrefix(msg, errorPrefix)
}

// Sink receives ordered progress messages. Builds call Send from a single
// goroutine, so implementations need not be safe for concurrent use.
type Sink interface {
	Send(msg string)
}

// Func adapts a function to Sink.
type Func func(msg string)

// Send calls f(msg).
func (f Func) Send(msg string) {
	if f != nil {
		f(msg)
	}
}

// Discard drops every message.
var Discard Sink = Func(nil)

// Recorder collects messages in memory. It is safe for concurrent use so tests
// can inspect it while a build runs.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Send appends msg.
func (r *Recorder) Send(msg string) {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
}

// Messages returns a copy of the recorded messages in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Last returns the most recent message, or "" when none were recorded.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}
