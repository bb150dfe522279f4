// Package chat defines the multi-turn generation session used by the assistant.
package chat

import (
	"context"
	"iter"
)

// Session is a remote conversation whose history lives with the model.
//
// Send streams the reply to prompt as ordered text fragments. The exchange
// is added to the history only when the stream completes without error;
// a failed or abandoned stream leaves it unchanged. Reset forgets the history.
type Session interface {
	Send(ctx context.Context, prompt string) iter.Seq2[string, error]
	Reset()
}
