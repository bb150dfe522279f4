package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldenspoon/internal/domain"
)

type fakeSynth struct {
	tag  string
	text string
	err  error
}

func (f *fakeSynth) Synthesize(_ context.Context, text, tag string) ([]byte, error) {
	f.text, f.tag = text, tag
	return []byte("mp3"), f.err
}

type fakePlayer struct {
	played [][]byte
	err    error
}

func (f *fakePlayer) Play(_ context.Context, audio []byte) error {
	f.played = append(f.played, audio)
	return f.err
}

type fakeListener struct {
	pcm []byte
	err error
}

func (f fakeListener) Listen(context.Context) ([]byte, error) { return f.pcm, f.err }

type fakeRecognizer struct {
	text string
	tag  string
	err  error
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte, tag string) (string, error) {
	f.tag = tag
	return f.text, f.err
}

func TestVoiceSpeak(t *testing.T) {
	synth := &fakeSynth{}
	player := &fakePlayer{}
	v := &Voice{Synth: synth, Player: player}

	require.NoError(t, v.Speak(context.Background(), "नमस्ते", domain.Hindi))
	assert.Equal(t, "hi", synth.tag)
	assert.Len(t, player.played, 1)

	require.NoError(t, v.Speak(context.Background(), "  ", domain.English))
	assert.Len(t, player.played, 1, "blank text is not spoken")
}

func TestVoiceSpeakFailuresWrapSynthesis(t *testing.T) {
	v := &Voice{Synth: &fakeSynth{err: errors.New("offline")}, Player: &fakePlayer{}}
	err := v.Speak(context.Background(), "hello", domain.English)
	assert.ErrorIs(t, err, domain.ErrSynthesis)

	v = &Voice{Synth: &fakeSynth{}, Player: &fakePlayer{err: errors.New("no device")}}
	err = v.Speak(context.Background(), "hello", domain.English)
	assert.ErrorIs(t, err, domain.ErrSynthesis)
	assert.ErrorContains(t, err, "no device")
}

func TestEarHear(t *testing.T) {
	rec := &fakeRecognizer{text: " What's on your menu? "}
	ear := &Ear{Listener: fakeListener{pcm: []byte{1, 2}}, Recognizer: rec}

	text, err := ear.Hear(context.Background(), domain.Hindi)
	require.NoError(t, err)
	assert.Equal(t, "What's on your menu?", text)
	assert.Equal(t, "hi-IN", rec.tag)
}

func TestEarHearClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		ear  *Ear
		want domain.RecognitionKind
	}{
		{
			name: "listener timeout keeps its kind",
			ear:  &Ear{Listener: fakeListener{err: domain.NewRecognitionError(domain.NoSpeech, nil)}, Recognizer: &fakeRecognizer{}},
			want: domain.NoSpeech,
		},
		{
			name: "microphone failure",
			ear:  &Ear{Listener: fakeListener{err: errors.New("device busy")}, Recognizer: &fakeRecognizer{}},
			want: domain.UnexpectedFailure,
		},
		{
			name: "empty transcript",
			ear:  &Ear{Listener: fakeListener{pcm: []byte{1}}, Recognizer: &fakeRecognizer{text: ""}},
			want: domain.Unintelligible,
		},
		{
			name: "recognizer transport failure",
			ear:  &Ear{Listener: fakeListener{pcm: []byte{1}}, Recognizer: &fakeRecognizer{err: errors.New("dial tcp")}},
			want: domain.ServiceUnreachable,
		},
		{
			name: "no audio",
			ear:  &Ear{Listener: fakeListener{}, Recognizer: &fakeRecognizer{text: "x"}},
			want: domain.NoSpeech,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.ear.Hear(context.Background(), domain.English)
			kind, ok := domain.RecognitionKindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestCommandPlayerRemovesFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(t.TempDir(), "played.mp3")
	p := &CommandPlayer{Command: "sh", Args: []string{"-c", `cp "$0" "` + dest + `"`}, TempDir: dir}

	require.NoError(t, p.Play(context.Background(), []byte("audio bytes")))
	played, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(played))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCommandPlayerRemovesFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	p := &CommandPlayer{Command: "sh", Args: []string{"-c", "echo broken >&2; exit 3"}, TempDir: dir}

	err := p.Play(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "broken")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCommandPlayerMissingBinary(t *testing.T) {
	dir := t.TempDir()
	p := &CommandPlayer{Command: "goldenspoon-no-such-player", TempDir: dir}
	require.Error(t, p.Play(context.Background(), []byte("audio")))
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
