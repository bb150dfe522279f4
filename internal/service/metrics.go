package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"goldenspoon/internal/domain"
)

// Metrics records turn outcomes and stage latencies. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	turns               *prometheus.CounterVec
	stageDuration       *prometheus.HistogramVec
	voiceFailures       prometheus.Counter
	recognitionFailures *prometheus.CounterVec
}

// Turn outcomes.
const (
	OutcomeAnswered         = "answered"
	OutcomeRetrievalFailed  = "retrieval_failed"
	OutcomeGenerationFailed = "generation_failed"
)

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goldenspoon_turns_total",
			Help: "Conversation turns by outcome.",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goldenspoon_stage_duration_seconds",
			Help:    "Time spent in each turn stage.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"stage"}),
		voiceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goldenspoon_voice_failures_total",
			Help: "Answers that could not be spoken.",
		}),
		recognitionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goldenspoon_recognition_failures_total",
			Help: "Voice input attempts that produced no utterance, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.turns, m.stageDuration, m.voiceFailures, m.recognitionFailures)
	return m
}

func (m *Metrics) turn(outcome string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) stage(stage Stage, since time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Observe(time.Since(since).Seconds())
}

func (m *Metrics) voiceFailure() {
	if m == nil {
		return
	}
	m.voiceFailures.Inc()
}

func (m *Metrics) recognitionFailure(kind domain.RecognitionKind) {
	if m == nil {
		return
	}
	m.recognitionFailures.WithLabelValues(string(kind)).Inc()
}
