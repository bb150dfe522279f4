package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"goldenspoon/internal/domain"
)

// ListenConfig controls how one utterance is captured.
type ListenConfig struct {
	VAD VADConfig
	// Calibration is the span of ambient audio used to set the energy threshold.
	Calibration time.Duration
	// Timeout bounds how long to wait for speech to start. Zero waits forever.
	Timeout time.Duration
	// PhraseLimit caps the recorded utterance. Zero means no cap.
	PhraseLimit time.Duration
}

func DefaultListenConfig() ListenConfig {
	return ListenConfig{
		VAD:         DefaultVADConfig(),
		Calibration: time.Second,
		Timeout:     5 * time.Second,
		PhraseLimit: 15 * time.Second,
	}
}

// Capture reads 16-bit mono PCM from r and returns the first utterance.
// Durations are measured in audio time, so a pre-recorded stream behaves
// exactly like a live microphone. If speech does not start within the
// timeout the error is a NoSpeech recognition error.
func Capture(ctx context.Context, r io.Reader, cfg ListenConfig) ([]byte, error) {
	frameBytes := cfg.VAD.FrameBytes()
	if frameBytes <= 0 {
		return nil, errors.New("invalid VAD frame size")
	}
	frameDur := time.Duration(cfg.VAD.FrameSizeMs) * time.Millisecond

	next := func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf := make([]byte, frameBytes)
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		return buf, nil
	}
	noSpeech := func(reason string) error {
		return domain.NewRecognitionError(domain.NoSpeech, errors.New(reason))
	}

	vad := NewVAD(cfg.VAD)
	ambient := make([][]byte, 0, int(cfg.Calibration/frameDur))
	for i := 0; i < int(cfg.Calibration/frameDur); i++ {
		f, err := next()
		if errors.Is(err, io.EOF) {
			return nil, noSpeech("audio ended during calibration")
		}
		if err != nil {
			return nil, err
		}
		ambient = append(ambient, f)
	}
	vad.Calibrate(ambient)

	// frames kept from before speech was confirmed so the onset is not clipped
	preRollCap := cfg.VAD.SpeechMinDurMs/cfg.VAD.FrameSizeMs + 10
	var (
		preRoll  [][]byte
		out      []byte
		waited   time.Duration
		recorded time.Duration
		speaking bool
	)
	for {
		f, err := next()
		if errors.Is(err, io.EOF) {
			if speaking {
				return out, nil
			}
			return nil, noSpeech("audio ended before speech started")
		}
		if err != nil {
			return nil, err
		}
		ev := vad.ProcessFrame(f)

		if !speaking {
			preRoll = append(preRoll, f)
			if len(preRoll) > preRollCap {
				preRoll = preRoll[1:]
			}
			waited += frameDur
			if ev == VADSpeechStart {
				speaking = true
				for _, p := range preRoll {
					out = append(out, p...)
				}
				recorded = time.Duration(len(preRoll)) * frameDur
				preRoll = nil
				continue
			}
			if cfg.Timeout > 0 && waited >= cfg.Timeout {
				return nil, noSpeech(fmt.Sprintf("no speech within %s", cfg.Timeout))
			}
			continue
		}

		out = append(out, f...)
		recorded += frameDur
		if ev == VADSpeechEnd {
			return out, nil
		}
		if cfg.PhraseLimit > 0 && recorded >= cfg.PhraseLimit {
			return out, nil
		}
	}
}

// CommandListener records from the microphone through an external recorder
// that writes raw PCM to stdout.
type CommandListener struct {
	Command string
	Args    []string
	Config  ListenConfig
}

// DefaultRecorderArgs makes arecord emit 16 kHz mono S16_LE without a header.
var DefaultRecorderArgs = []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw"}

func NewCommandListener(command string, args []string, cfg ListenConfig) *CommandListener {
	if command == "" {
		command = "arecord"
		if args == nil {
			args = DefaultRecorderArgs
		}
	}
	return &CommandListener{Command: command, Args: args, Config: cfg}
}

// Listen records one utterance. A recorder that exits with a failure status
// before any speech was captured is reported as an UnexpectedFailure carrying
// its stderr, not as silence.
func (l *CommandListener) Listen(ctx context.Context) ([]byte, error) {
	recCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(recCtx, l.Command, l.Args...)
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, domain.NewRecognitionError(domain.UnexpectedFailure, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, domain.NewRecognitionError(domain.UnexpectedFailure, fmt.Errorf("start recorder %q: %w", l.Command, err))
	}

	pcm, err := Capture(ctx, stdout, l.Config)
	cancel()
	waitErr := cmd.Wait()
	if err == nil {
		return pcm, nil
	}
	// a recorder killed by our cancel reports exit code -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ExitCode() > 0 {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = waitErr.Error()
		}
		return nil, domain.NewRecognitionError(domain.UnexpectedFailure, fmt.Errorf("recorder %q failed: %s", l.Command, msg))
	}
	return nil, err
}
