package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/graphbot/pkg/dialogue"
	"github.com/matzehuels/graphbot/pkg/errors"
	"github.com/matzehuels/graphbot/pkg/graph"
	"github.com/matzehuels/graphbot/pkg/help"
	"github.com/matzehuels/graphbot/pkg/observability"
	"github.com/matzehuels/graphbot/pkg/render"
)

const transportName = "http"

// GraphRequest is the body of /v1/dot and /v1/render.
type GraphRequest struct {
	Text     string `json:"text"`
	Directed bool   `json:"directed"`
	Layout   string `json:"layout,omitempty"`
}

// MessageRequest is the body of /v1/sessions/{id}/messages.
type MessageRequest struct {
	Text string `json:"text"`
}

// MessageResponse is the bot's reply. Image is base64-encoded in JSON.
type MessageResponse struct {
	Text   string        `json:"text,omitempty"`
	Image  []byte        `json:"image,omitempty"`
	Format render.Format `json:"format,omitempty"`
	DOT    string        `json:"dot,omitempty"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	body, err := help.HTML(help.How(graph.MaxLines, graph.MaxLabelLength))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render help"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, body)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.buildDOT(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", render.FormatDOT.ContentType())
	io.WriteString(w, doc)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := render.FormatPNG
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := render.ParseFormat(q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		format = f
	}

	doc, ok := s.buildDOT(w, r)
	if !ok {
		return
	}

	img, err := s.bot.Renderer().Render(r.Context(), doc, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(img)
}

// buildDOT decodes a GraphRequest and translates it. It writes the error
// response and returns false on failure.
func (s *Server) buildDOT(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req GraphRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return "", false
	}
	doc, err := s.bot.BuildDOT(r.Context(), req.Text, req.Directed, strings.TrimSpace(req.Layout))
	if err != nil {
		s.writeError(w, r, err)
		return "", false
	}
	return doc, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	if err := s.bot.Store().Set(r.Context(), id, dialogue.StartState()); err != nil {
		s.writeError(w, r, fmt.Errorf("create session: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req MessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	observability.Transport().OnMessage(ctx, transportName, id)
	start := time.Now()
	reply, err := s.bot.Handle(ctx, id, req.Text)
	observability.Transport().OnReply(ctx, transportName, id, time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Text:   reply.Text,
		Image:  reply.Image,
		Format: reply.Format,
		DOT:    reply.DOT,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.bot.Store().Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
