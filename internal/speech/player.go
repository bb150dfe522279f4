package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CommandPlayer writes audio to a scoped temporary file and plays it with
// an external program. The file is removed on every path.
type CommandPlayer struct {
	Command string
	Args    []string
	// Grace is waited after the player returns before the file is removed.
	Grace time.Duration
	// TempDir overrides the directory for the temporary file.
	TempDir string
}

// DefaultPlayerArgs keep mpv quiet and windowless.
var DefaultPlayerArgs = []string{"--no-video", "--really-quiet"}

func NewCommandPlayer(command string, args []string, grace time.Duration) *CommandPlayer {
	if command == "" {
		command = "mpv"
		if args == nil {
			args = DefaultPlayerArgs
		}
	}
	return &CommandPlayer{Command: command, Args: args, Grace: grace}
}

func (p *CommandPlayer) Play(ctx context.Context, audio []byte) error {
	f, err := os.CreateTemp(p.TempDir, "goldenspoon-*.mp3")
	if err != nil {
		return fmt.Errorf("create temp audio file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("write temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp audio file: %w", err)
	}

	args := append(append([]string(nil), p.Args...), path)
	out, err := exec.CommandContext(ctx, p.Command, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("player %q: %w: %s", p.Command, err, strings.TrimSpace(string(out)))
	}

	if p.Grace > 0 {
		t := time.NewTimer(p.Grace)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	return nil
}
