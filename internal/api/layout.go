package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/eugenenazirov/chat-bubbles/internal/chat"
	"github.com/eugenenazirov/chat-bubbles/internal/packer"
	"github.com/eugenenazirov/chat-bubbles/internal/render"
)

const formatJSON = "json"

func (h *Handler) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if len(req.Items) > maxPackItems {
		writeError(w, http.StatusBadRequest, "Too many items",
			fmt.Sprintf("at most %d items can be packed, got %d", maxPackItems, len(req.Items)))
		return
	}

	items := make([]packer.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = packer.Item{Label: item.Label, Weight: item.Weight}
	}

	result, elapsed, ok := h.pack(w, items, req.Bounds.bounds(), req.Config.options())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newPackResponse(result, elapsed))
}

func (h *Handler) handleBubbles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	format := query.Get("format")
	if format == "" {
		format = formatJSON
	}
	var imageFormat render.Format
	if format != formatJSON {
		f, err := render.ParseFormat(format)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid format", err.Error(), "Use json, svg or png")
			return
		}
		imageFormat = f
	}

	width, err := intParam(query.Get("width"), h.renderWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid width", err.Error())
		return
	}
	height, err := intParam(query.Get("height"), h.renderHeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid height", err.Error())
		return
	}
	if imageFormat == render.FormatPNG && width*height > maxPNGPixels {
		writeError(w, http.StatusBadRequest, "Image too large",
			fmt.Sprintf("png output is limited to %d pixels, got %dx%d", maxPNGPixels, width, height),
			"Request a smaller size or use format=svg")
		return
	}

	var opts []packer.Option
	var renderOpts []render.Option
	if raw := query.Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid seed", err.Error())
			return
		}
		opts = append(opts, packer.WithSeed(seed))
		renderOpts = append(renderOpts, render.WithSeed(seed))
	}

	_, counts, ok := h.countsForRequest(w, r)
	if !ok {
		return
	}

	bounds := packer.Rect(0, 0, float64(width), float64(height))
	result, elapsed, ok := h.pack(w, chat.Items(counts), bounds, opts)
	if !ok {
		return
	}

	switch imageFormat {
	case render.FormatSVG:
		w.Header().Set("Content-Type", imageFormat.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(render.BubbleSVG(result, bounds, renderOpts...))
	case render.FormatPNG:
		var buf bytes.Buffer
		if err := render.BubblePNG(&buf, result, bounds, renderOpts...); err != nil {
			writeInternalError(w, err)
			return
		}
		w.Header().Set("Content-Type", imageFormat.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	default:
		writeJSON(w, http.StatusOK, newPackResponse(result, elapsed))
	}
}

func (h *Handler) handleBars(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(render.FormatPNG)
	}
	format, err := render.ParseFormat(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format", err.Error(), "Use svg or png")
		return
	}

	kind, counts, ok := h.countsForRequest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.BarChart(&buf, counts, format, render.WithTitle(kind.Title())); err != nil {
		if errors.Is(err, render.ErrNoData) {
			writeError(w, http.StatusUnprocessableEntity, "Nothing to chart", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// pack runs the engine and records metrics. It writes the error response itself.
func (h *Handler) pack(w http.ResponseWriter, items []packer.Item, bounds packer.Bounds, opts []packer.Option) (packer.Result, time.Duration, bool) {
	start := time.Now()
	result, err := h.packer.Pack(items, bounds, opts...)
	elapsed := time.Since(start)

	if err != nil {
		h.metrics.ObservePackError()
		switch {
		case errors.Is(err, packer.ErrInvalidBounds):
			writeError(w, http.StatusBadRequest, "Invalid bounds", err.Error())
		case errors.Is(err, packer.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Invalid items", err.Error())
		case errors.Is(err, packer.ErrInvalidConfig):
			writeError(w, http.StatusBadRequest, "Invalid configuration", err.Error())
		default:
			writeInternalError(w, err)
		}
		return packer.Result{}, 0, false
	}

	h.metrics.ObservePack(result, elapsed)
	return result, elapsed, true
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	if v <= 0 || v > maxRenderSide {
		return 0, fmt.Errorf("must be between 1 and %d, got %d", maxRenderSide, v)
	}
	return v, nil
}

type packRequest struct {
	Items  []packItem    `json:"items"`
	Bounds boundsRequest `json:"bounds"`
	Config packConfig    `json:"config"`
}

type packItem struct {
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// boundsRequest accepts either corner coordinates or an origin with a size.
type boundsRequest struct {
	MinX   float64  `json:"minX"`
	MinY   float64  `json:"minY"`
	MaxX   float64  `json:"maxX"`
	MaxY   float64  `json:"maxY"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

func (b boundsRequest) bounds() packer.Bounds {
	if b.Width != nil || b.Height != nil {
		var width, height float64
		if b.Width != nil {
			width = *b.Width
		}
		if b.Height != nil {
			height = *b.Height
		}
		return packer.Rect(b.MinX, b.MinY, width, height)
	}
	return packer.Bounds{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY}
}

type packConfig struct {
	Padding         *float64 `json:"padding"`
	Friction        *float64 `json:"friction"`
	VelocityScale   *float64 `json:"velocityScale"`
	MaxIterations   *int     `json:"maxIterations"`
	DensityFactor   *float64 `json:"densityFactor"`
	FallbackDivisor *float64 `json:"fallbackDivisor"`
	MaxFill         *float64 `json:"maxFill"`
	Seed            *uint64  `json:"seed"`
}

func (c packConfig) options() []packer.Option {
	var opts []packer.Option
	if c.Padding != nil {
		opts = append(opts, packer.WithPadding(*c.Padding))
	}
	if c.Friction != nil {
		opts = append(opts, packer.WithFriction(*c.Friction))
	}
	if c.VelocityScale != nil {
		opts = append(opts, packer.WithVelocityScale(*c.VelocityScale))
	}
	if c.MaxIterations != nil {
		opts = append(opts, packer.WithMaxIterations(*c.MaxIterations))
	}
	if c.DensityFactor != nil {
		opts = append(opts, packer.WithDensityFactor(*c.DensityFactor))
	}
	if c.FallbackDivisor != nil {
		opts = append(opts, packer.WithFallbackDivisor(*c.FallbackDivisor))
	}
	if c.MaxFill != nil {
		opts = append(opts, packer.WithMaxFill(*c.MaxFill))
	}
	if c.Seed != nil {
		opts = append(opts, packer.WithSeed(*c.Seed))
	}
	return opts
}

type circleResponse struct {
	Label  string  `json:"label"`
	Weight int     `json:"weight"`
	Radius float64 `json:"radius"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type packResponse struct {
	Circles           []circleResponse `json:"circles"`
	Status            string           `json:"status"`
	Converged         bool             `json:"converged"`
	Iterations        int              `json:"iterations"`
	CalculationTimeMs int64            `json:"calculationTimeMs"`
}

func newPackResponse(result packer.Result, elapsed time.Duration) packResponse {
	circles := make([]circleResponse, len(result.Circles))
	for i, c := range result.Circles {
		circles[i] = circleResponse{
			Label:  c.Label,
			Weight: c.Weight,
			Radius: c.Radius,
			X:      c.Position.X,
			Y:      c.Position.Y,
		}
	}
	return packResponse{
		Circles:           circles,
		Status:            result.Status.String(),
		Converged:         result.Converged(),
		Iterations:        result.Iterations,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
}
