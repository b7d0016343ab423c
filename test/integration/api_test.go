package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/chat-bubbles/internal/api"
	"github.com/eugenenazirov/chat-bubbles/internal/chat"
	"github.com/eugenenazirov/chat-bubbles/internal/metrics"
	"github.com/eugenenazirov/chat-bubbles/internal/packer"
	"github.com/eugenenazirov/chat-bubbles/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	agg, err := chat.NewAggregator(chat.WithTopWords(15))
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	rec := metrics.New()
	handler := api.NewHandler(packer.New(packer.WithSeed(11)), storage.NewMemoryStorage(), agg, api.WithMetrics(rec))
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger, api.WithRateLimit(0, 0), api.WithMetricsHandler(rec.Handler()))
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// buildExport produces a chat where sender i writes i+1 messages spread over the year.
func buildExport(t *testing.T) []byte {
	t.Helper()

	words := []string{"coffee", "meeting", "release", "deploy", "lunch", "review", "bug", "weekend"}
	senders := []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Frank"}
	start := time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC)

	export := chat.Export{ID: 7, Name: "Team", Type: "private_supergroup"}
	id := int64(1)
	for i, sender := range senders {
		for j := 0; j <= i; j++ {
			at := start.Add(time.Duration(id*53) * time.Hour)
			text := fmt.Sprintf("%s %s %s", words[int(id)%len(words)], words[(int(id)+i)%len(words)], words[j%len(words)])
			export.Messages = append(export.Messages, chat.Message{
				ID:           id,
				Type:         "message",
				Date:         at.Format(chat.DateLayout),
				DateUnixtime: fmt.Sprint(at.Unix()),
				From:         sender,
				FromID:       fmt.Sprintf("user%d", i),
				TextEntities: []chat.TextEntity{{Type: "plain", Text: text}},
			})
			id++
		}
	}

	data, err := json.Marshal(export)
	if err != nil {
		t.Fatalf("marshal export: %v", err)
	}
	return data
}

type layout struct {
	Circles []struct {
		Label  string  `json:"label"`
		Weight int     `json:"weight"`
		Radius float64 `json:"radius"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	} `json:"circles"`
	Converged bool `json:"converged"`
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	rec = performRequest(t, handler, http.MethodPut, "/api/chat", buildExport(t), map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from chat upload, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/stats/senders", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from stats, got %d", rec.Code)
	}
	var stats struct {
		Counts []chat.Count `json:"counts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if len(stats.Counts) != 6 || stats.Counts[5] != (chat.Count{Label: "Frank", Count: 6}) {
		t.Fatalf("unexpected sender counts %+v", stats.Counts)
	}

	for _, kind := range []string{"senders", "weekdays", "months", "words"} {
		t.Run(kind, func(t *testing.T) {
			rec := performRequest(t, handler, http.MethodGet, "/api/stats/"+kind+"/bubbles?width=390&height=600", nil, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200 from bubbles, got %d: %s", rec.Code, rec.Body.String())
			}

			var l layout
			if err := json.NewDecoder(rec.Body).Decode(&l); err != nil {
				t.Fatalf("decode layout: %v", err)
			}
			if !l.Converged {
				t.Fatalf("expected layout to converge")
			}
			assertPacked(t, l, 390, 600, packer.DefaultPadding)
		})
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/stats/words/bubbles?format=svg", nil, nil)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Fatalf("expected SVG document, got %d", rec.Code)
	}

	rec = performRequest(t, handler, http.MethodGet, "/metrics", nil, nil)
	if !strings.Contains(rec.Body.String(), `chat_bubbles_packs_total{status="converged"} 5`) {
		t.Fatalf("expected five converged packs in metrics")
	}
}

// assertPacked checks that positive circles do not overlap beyond the padding and stay
// inside the container.
func assertPacked(t *testing.T, l layout, width, height, padding float64) {
	t.Helper()

	const eps = 1e-6
	for i, a := range l.Circles {
		if a.Radius <= 0 {
			continue
		}
		if a.X-a.Radius < -eps || a.X+a.Radius > width+eps || a.Y-a.Radius < -eps || a.Y+a.Radius > height+eps {
			t.Fatalf("circle %q escapes the container: %+v", a.Label, a)
		}
		for _, b := range l.Circles[i+1:] {
			if b.Radius <= 0 {
				continue
			}
			dist := math.Hypot(a.X-b.X, a.Y-b.Y)
			if dist+eps < a.Radius+b.Radius+padding {
				t.Fatalf("circles %q and %q overlap: distance %v", a.Label, b.Label, dist)
			}
		}
	}
}
