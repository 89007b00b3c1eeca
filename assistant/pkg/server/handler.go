package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type Handler struct {
	log *slog.Logger
	cfg Config
}

func NewHandler(log *slog.Logger, cfg Config) (*Handler, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("handler config validation failed: %w", err)
	}
	return &Handler{log: log, cfg: cfg}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(HealthzPath, h.healthzHandler)
	mux.HandleFunc(InvokePath, h.invokeHandler)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeJSONError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg, Code: status})
}

// invokeHandler accepts an action group event and always answers 200 with the
// response envelope; the action outcome is in its httpStatusCode.
func (h *Handler) invokeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		InvokeRequestErrorsTotal.WithLabelValues("method_not_allowed").Inc()
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			h.writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			InvokeRequestErrorsTotal.WithLabelValues("request_body_too_large").Inc()
			return
		}
		h.writeJSONError(w, http.StatusBadRequest, "failed to read body")
		InvokeRequestErrorsTotal.WithLabelValues("failed_to_read_body").Inc()
		return
	}

	var req action.Request
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeJSONError(w, http.StatusBadRequest, "invalid json")
		InvokeRequestErrorsTotal.WithLabelValues("invalid_json").Inc()
		return
	}

	resp := h.cfg.Invoker.Handle(r.Context(), &req)
	h.log.Debug("server: invoke handled", "apiPath", req.APIPath, "status", resp.StatusCode())
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) healthzHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		h.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
	})
}
