package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/mgpai22/srtfix/internal/fixer"
	"github.com/mgpai22/srtfix/internal/logging"
)

const (
	HeaderParsed  = "X-Srtfix-Parsed"
	HeaderEmitted = "X-Srtfix-Emitted"
	HeaderCharset = "X-Srtfix-Charset"
)

type FixHandler struct {
	fixer  *fixer.Fixer
	logger *logging.Logger
}

func NewFixHandler(f *fixer.Fixer, logger *logging.Logger) *FixHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FixHandler{fixer: f, logger: logger}
}

func (h *FixHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Fix takes a raw SRT document as the request body and responds with the
// cleaned document.
func (h *FixHandler) Fix(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.jsonError(w, "request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes", http.StatusRequestEntityTooLarge)
			return
		}
		h.jsonError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	out, stats, charset, err := h.fixer.FixBytes(data)
	if err != nil {
		h.logger.Debugw("Rejected undecodable body", "error", err, "bytes", len(data))
		h.jsonError(w, "could not decode subtitle text: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(HeaderParsed, strconv.Itoa(stats.Parsed))
	w.Header().Set(HeaderEmitted, strconv.Itoa(stats.Emitted))
	w.Header().Set(HeaderCharset, charset)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, out); err != nil {
		h.logger.Debugw("Failed to write response", "error", err)
	}
}

func (h *FixHandler) jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Debugw("Failed to write response", "error", err)
	}
}

func (h *FixHandler) jsonError(w http.ResponseWriter, msg string, status int) {
	h.jsonResponse(w, map[string]string{"error": msg}, status)
}
