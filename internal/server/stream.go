package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"goldenspoon/internal/domain"
	"goldenspoon/internal/service"
)

type turnRequest struct {
	Text string `json:"text"`
}

type stageEvent struct {
	Stage service.Stage `json:"stage"`
}

type partialEvent struct {
	Buffer string `json:"buffer"`
}

type answerEvent struct {
	Utterance string `json:"utterance"`
	Context   string `json:"context"`
	Answer    string `json:"answer"`
}

type errorEvent struct {
	Error string `json:"error"`
}

// eventWriter writes server-sent events and flushes after each one.
type eventWriter struct {
	bw      *bufio.Writer
	flusher http.Flusher
	failed  bool
}

func newEventWriter(w http.ResponseWriter) (*eventWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not implement http.Flusher")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	return &eventWriter{bw: bufio.NewWriter(w), flusher: flusher}, nil
}

// send drops events after the first write error; the client has gone away.
func (e *eventWriter) send(event string, v any) {
	if e.failed {
		return
	}
	b, _ := json.Marshal(v)
	if _, err := fmt.Fprintf(e.bw, "event: %s\ndata: %s\n\n", event, b); err != nil {
		e.failed = true
		return
	}
	if err := e.bw.Flush(); err != nil {
		e.failed = true
		return
	}
	e.flusher.Flush()
}

// runTurn answers the session's next utterance and streams progress. A
// non-empty text is submitted as typed input first; pending voice input
// still takes precedence. Only one turn runs per session; a second request
// gets 409 and its text is not submitted.
func (s *Server) runTurn(w http.ResponseWriter, r *http.Request) {
	state, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req turnRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !state.BeginTurn() {
		writeError(w, http.StatusConflict, "a turn is already running for this session")
		return
	}
	defer state.EndTurn()
	if text := strings.TrimSpace(req.Text); text != "" {
		state.SubmitTyped(text)
	}
	if !state.HasPending() {
		writeError(w, http.StatusBadRequest, "no pending input")
		return
	}

	events, err := newEventWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	res, err := s.assistant.Cycle(r.Context(), state, service.TurnHooks{
		OnStage:   func(st service.Stage) { events.send("stage", stageEvent{Stage: st}) },
		OnPartial: func(b string) { events.send("partial", partialEvent{Buffer: b}) },
	})
	if err != nil {
		events.send("error", errorEvent{Error: domain.Notice(err)})
		return
	}
	events.send("answer", answerEvent{Utterance: res.Utterance, Context: res.Context, Answer: res.Answer})
}
