// Package mailtest provides a recording mail.Sender for tests.
package mailtest

import (
	"context"
	"sync"

	"github.com/angelmondragon/carpenter-backend/pkg/mail"
)

// Recorder records every message it is asked to send. FailOn makes the
// send with that zero-based index return Err.
type Recorder struct {
	mu       sync.Mutex
	messages []mail.Message
	FailOn   int
	Err      error
}

func NewRecorder() *Recorder {
	return &Recorder{FailOn: -1}
}

func (r *Recorder) Send(ctx context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := len(r.messages)
	r.messages = append(r.messages, msg)
	if r.Err != nil && (r.FailOn < 0 || r.FailOn == idx) {
		return r.Err
	}
	return nil
}

func (r *Recorder) Messages() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]mail.Message, len(r.messages))
	copy(out, r.messages)
	return out
}
