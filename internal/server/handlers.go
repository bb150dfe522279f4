package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"goldenspoon/internal/domain"
	"goldenspoon/internal/session"
)

type languageRequest struct {
	Language string `json:"language"`
}

type voiceResponse struct {
	Text string `json:"text"`
}

type speechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang := s.language
	if req.Language != "" {
		var ok bool
		if lang, ok = domain.ParseLanguage(req.Language); !ok {
			writeError(w, http.StatusBadRequest, "unsupported language")
			return
		}
	}
	state := s.sessions.Create()
	state.SetLanguage(lang)
	s.logger.Info("server", "session created", map[string]interface{}{"session": state.ID()})
	writeJSON(w, http.StatusCreated, map[string]string{"id": state.ID(), "language": string(state.Language())})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	state, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, state.Snapshot())
}

func (s *Server) setLanguage(w http.ResponseWriter, r *http.Request) {
	state, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req languageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang, valid := domain.ParseLanguage(req.Language)
	if !valid {
		writeError(w, http.StatusBadRequest, "unsupported language")
		return
	}
	state.SetLanguage(lang)
	writeJSON(w, http.StatusOK, state.Snapshot())
}

// submitVoice recognizes a raw 16 kHz mono LINEAR16 body and queues the text
// as pending voice input for the next turn.
func (s *Server) submitVoice(w http.ResponseWriter, r *http.Request) {
	state, ok := s.lookup(w, r)
	if !ok {
		return
	}
	pcm, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxAudioBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "audio too large")
			return
		}
		writeError(w, http.StatusBadRequest, "could not read audio")
		return
	}
	text, err := s.assistant.SubmitAudio(r.Context(), state, pcm)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if kind, _ := domain.RecognitionKindOf(err); kind == domain.ServiceUnreachable {
			status = http.StatusBadGateway
		}
		writeError(w, status, domain.Notice(err))
		return
	}
	writeJSON(w, http.StatusOK, voiceResponse{Text: text})
}

func (s *Server) clearLog(w http.ResponseWriter, r *http.Request) {
	state, ok := s.lookup(w, r)
	if !ok {
		return
	}
	state.ClearLog()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearMemory(w http.ResponseWriter, r *http.Request) {
	s.assistant.ClearMemory()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) synthesize(w http.ResponseWriter, r *http.Request) {
	if s.synth == nil {
		writeError(w, http.StatusNotImplemented, "speech output is not configured")
		return
	}
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	lang := s.language
	if req.Language != "" {
		var ok bool
		if lang, ok = domain.ParseLanguage(req.Language); !ok {
			writeError(w, http.StatusBadRequest, "unsupported language")
			return
		}
	}
	audio, err := s.synth.Synthesize(r.Context(), req.Text, lang.SynthesisTag())
	if err != nil {
		s.logger.Error("server", "speech synthesis failed", map[string]interface{}{"error": err})
		writeError(w, http.StatusBadGateway, domain.Notice(domain.ErrSynthesis))
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	state, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return state, true
}

// decodeOptional decodes a JSON body into v. An empty body leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
