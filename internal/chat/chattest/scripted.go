// Package chattest provides an in-process chat.Session for tests.
package chattest

import (
	"context"
	"iter"
	"strings"
	"sync"

	"goldenspoon/internal/chat"
)

// Reply is one scripted answer: fragments streamed in order, then Err if set.
type Reply struct {
	Fragments []string
	Err       error
}

// Scripted replays queued replies. When the queue is empty it echoes the
// prompt as a single fragment. History follows the chat.Session contract.
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	prompts []string
	history []string
	resets  int
}

var _ chat.Session = (*Scripted)(nil)

func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

// Queue appends replies to the script.
func (s *Scripted) Queue(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

func (s *Scripted) Send(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		s.mu.Lock()
		s.prompts = append(s.prompts, prompt)
		resets := s.resets
		reply := Reply{Fragments: []string{prompt}}
		if len(s.replies) > 0 {
			reply = s.replies[0]
			s.replies = s.replies[1:]
		}
		s.mu.Unlock()

		for _, f := range reply.Fragments {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(f, nil) {
				return
			}
		}
		if reply.Err != nil {
			yield("", reply.Err)
			return
		}
		s.mu.Lock()
		if s.resets == resets {
			s.history = append(s.history, prompt, strings.Join(reply.Fragments, ""))
		}
		s.mu.Unlock()
	}
}

func (s *Scripted) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.resets++
}

// Prompts returns every prompt sent so far.
func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// HistoryLen returns the number of remembered contents.
func (s *Scripted) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
