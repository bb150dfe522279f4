package speech

import (
	"encoding/binary"
	"math"
)

// VADConfig holds voice activity detection parameters.
type VADConfig struct {
	EnergyThreshold float64 // RMS energy threshold for speech
	SpeechMinDurMs  int     // Minimum duration to confirm speech start
	SilenceMinDurMs int     // Minimum duration to confirm speech end
	SampleRate      int     // Audio sample rate in Hz
	FrameSizeMs     int     // Frame size in milliseconds
}

// DefaultVADConfig returns sensible defaults for 16kHz audio.
func DefaultVADConfig() VADConfig {
	return VADConfig{
		EnergyThreshold: 300,
		SpeechMinDurMs:  150,
		SilenceMinDurMs: 700,
		SampleRate:      16000,
		FrameSizeMs:     30,
	}
}

// FrameBytes is the size of one 16-bit mono frame.
func (c VADConfig) FrameBytes() int {
	return c.SampleRate * c.FrameSizeMs / 1000 * 2
}

const (
	// ambientRatio scales the measured ambient energy into a speech threshold.
	ambientRatio = 1.5
	minThreshold = 50
)

// VAD performs energy-based voice activity detection on PCM audio.
type VAD struct {
	config        VADConfig
	isSpeaking    bool
	speechFrames  int
	silenceFrames int
}

// NewVAD creates a new voice activity detector.
func NewVAD(cfg VADConfig) *VAD {
	return &VAD{config: cfg}
}

// VADEvent indicates a speech boundary.
type VADEvent int

const (
	VADNone VADEvent = iota
	VADSpeechStart
	VADSpeechEnd
)

// Calibrate sets the energy threshold from frames of ambient noise.
func (v *VAD) Calibrate(frames [][]byte) {
	if len(frames) == 0 {
		return
	}
	var sum float64
	for _, f := range frames {
		sum += rmsEnergy(f)
	}
	v.config.EnergyThreshold = math.Max(minThreshold, sum/float64(len(frames))*ambientRatio)
}

// Threshold returns the current energy threshold.
func (v *VAD) Threshold() float64 { return v.config.EnergyThreshold }

// ProcessFrame analyzes a frame of 16-bit PCM audio and returns a VAD event.
func (v *VAD) ProcessFrame(pcm []byte) VADEvent {
	frameMs := float64(v.config.FrameSizeMs)

	if rmsEnergy(pcm) >= v.config.EnergyThreshold {
		v.silenceFrames = 0
		v.speechFrames++
		if !v.isSpeaking && float64(v.speechFrames)*frameMs >= float64(v.config.SpeechMinDurMs) {
			v.isSpeaking = true
			return VADSpeechStart
		}
	} else {
		v.speechFrames = 0
		v.silenceFrames++
		if v.isSpeaking && float64(v.silenceFrames)*frameMs >= float64(v.config.SilenceMinDurMs) {
			v.isSpeaking = false
			return VADSpeechEnd
		}
	}
	return VADNone
}

// rmsEnergy computes the root-mean-square energy of 16-bit signed PCM audio.
func rmsEnergy(pcm []byte) float64 {
	if len(pcm) < 2 {
		return 0
	}
	numSamples := len(pcm) / 2
	var sumSquares float64
	for i := 0; i < numSamples; i++ {
		sample := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
		sumSquares += float64(sample) * float64(sample)
	}
	return math.Sqrt(sumSquares / float64(numSamples))
}
