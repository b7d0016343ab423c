package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eugenenazirov/chat-bubbles/internal/chat"
	"github.com/eugenenazirov/chat-bubbles/internal/metrics"
	"github.com/eugenenazirov/chat-bubbles/internal/packer"
	"github.com/eugenenazirov/chat-bubbles/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultMaxUploadBytes = 32 << 20
	defaultRenderWidth    = 390
	defaultRenderHeight   = 600
	maxRenderSide         = 4096
	maxPackItems          = 1000

	// maxPNGPixels bounds width*height of rasterized layouts; supersampling multiplies it again.
	maxPNGPixels = 2048 * 2048
)

// Handler wires packer, aggregator and storage dependencies into HTTP handlers.
type Handler struct {
	packer     packer.Packer
	storage    storage.Storage
	aggregator *chat.Aggregator
	metrics    *metrics.Recorder

	clock func() time.Time

	maxUploadBytes int64
	renderWidth    int
	renderHeight   int
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMetrics records packing runs and uploads on rec.
func WithMetrics(rec *metrics.Recorder) HandlerOption {
	return func(h *Handler) {
		h.metrics = rec
	}
}

// WithMaxUploadBytes caps the size of uploaded chat exports.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// WithRenderSize sets the default container size of bubble layouts.
func WithRenderSize(width, height int) HandlerOption {
	return func(h *Handler) {
		if width > 0 && height > 0 {
			h.renderWidth = width
			h.renderHeight = height
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(p packer.Packer, store storage.Storage, agg *chat.Aggregator, opts ...HandlerOption) *Handler {
	h := &Handler{
		packer:     p,
		storage:    store,
		aggregator: agg,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		maxUploadBytes: defaultMaxUploadBytes,
		renderWidth:    defaultRenderWidth,
		renderHeight:   defaultRenderHeight,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetChat(w http.ResponseWriter, r *http.Request) {
	_ = r
	summary, err := h.storage.Summary()
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Summary: summary})
}

func (h *Handler) handlePutChat(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	export, err := chat.Decode(body)
	if err != nil {
		h.metrics.ObserveUpload(false)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Export too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid export", "unable to parse chat export JSON")
		return
	}

	if err := h.storage.SetExport(export); err != nil {
		h.metrics.ObserveUpload(false)
		if errors.Is(err, storage.ErrInvalidExport) {
			writeError(w, http.StatusBadRequest, "Invalid export", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}
	h.metrics.ObserveUpload(true)

	summary, err := h.storage.Summary()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Summary: summary, Message: "Chat export uploaded successfully"})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	kind, counts, ok := h.countsForRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Kind: kind.String(), Title: kind.Title(), Counts: counts})
}

// countsForRequest resolves the {kind} path value and aggregates the stored messages.
// It writes the error response itself and reports whether the caller should continue.
func (h *Handler) countsForRequest(w http.ResponseWriter, r *http.Request) (chat.Kind, []chat.Count, bool) {
	kind, err := chat.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown statistic", err.Error())
		return 0, nil, false
	}

	messages, err := h.storage.GetMessages()
	if err != nil {
		writeStorageError(w, err)
		return 0, nil, false
	}

	counts, err := h.aggregator.Count(kind, messages)
	if err != nil {
		writeInternalError(w, err)
		return 0, nil, false
	}
	return kind, counts, true
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type chatResponse struct {
	storage.Summary
	Message string `json:"message,omitempty"`
}

type statsResponse struct {
	Kind   string       `json:"kind"`
	Title  string       `json:"title"`
	Counts []chat.Count `json:"counts"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNoExport) {
		writeError(w, http.StatusNotFound, "No chat export", err.Error(), "Upload an export with PUT /api/chat first")
		return
	}
	writeInternalError(w, err)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
