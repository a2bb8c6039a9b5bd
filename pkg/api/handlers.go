package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/marmos91/sandboxfs/internal/logger"
	"github.com/marmos91/sandboxfs/pkg/files"
)

// rootMessage is served at GET / as a liveness banner.
const rootMessage = "File Manager API is running!"

// Handler serves the file API on top of a files.Service.
type Handler struct {
	service *files.Service
}

// NewHandler creates a Handler.
//
// Panics if service is nil (programmer error).
func NewHandler(service *files.Service) *Handler {
	if service == nil {
		panic("file service cannot be nil")
	}
	return &Handler{service: service}
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, rootMessage)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	name, ok := fileName(w, r)
	if !ok {
		return
	}

	file, err := h.service.Get(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (h *Handler) handleCreateNamed(w http.ResponseWriter, r *http.Request) {
	name, ok := fileName(w, r)
	if !ok {
		return
	}
	content, ok := readContent(w, r)
	if !ok {
		return
	}

	msg, err := h.service.Create(r.Context(), name, content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Message: msg})
}

func (h *Handler) handleCreateAnonymous(w http.ResponseWriter, r *http.Request) {
	content, ok := readContent(w, r)
	if !ok {
		return
	}

	name, msg, err := h.service.CreateAnonymous(r.Context(), content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{Message: msg, Name: name})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	name, ok := fileName(w, r)
	if !ok {
		return
	}
	content, ok := readContent(w, r)
	if !ok {
		return
	}

	msg, err := h.service.Update(r.Context(), name, content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	name, ok := fileName(w, r)
	if !ok {
		return
	}

	msg, err := h.service.Delete(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// fileName extracts the {name} path parameter. chi routes on the raw path
// when the request carries one, so "%2F" reaches us escaped; it is decoded
// here and then rejected by the validator.
func fileName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, true
	}

	name, err := url.PathUnescape(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filename: "+err.Error())
		return "", false
	}
	return name, true
}

// readContent decodes the JSON body and returns the content field.
//
// A nil result with ok=true means the field is missing or the body is not a
// JSON object with a string content; the service decides when that matters
// so that existence checks still take precedence. Only an oversized body is
// answered here.
func readContent(w http.ResponseWriter, r *http.Request) (*string, bool) {
	var req ContentRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err == nil {
		return req.Content, true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return nil, false
	}

	if !errors.Is(err, io.EOF) {
		logger.Debug("Ignoring malformed request body: %v", err)
	}
	return nil, true
}
