package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eugenenazirov/chat-bubbles/internal/application"
)

func TestBuildRootHandler(t *testing.T) {
	var apiPaths []string
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiPaths = append(apiPaths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	handler, err := application.BuildRootHandler(apiHandler)
	if err != nil {
		t.Fatalf("BuildRootHandler returned error: %v", err)
	}

	t.Run("serves index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if rec.Header().Get("Content-Type") == "" {
			t.Fatalf("expected Content-Type header for index page")
		}
	})

	t.Run("returns not found for unknown paths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("forwards api and metrics traffic", func(t *testing.T) {
		apiPaths = nil
		for _, path := range []string{"/api/health", "/api/stats/words/bubbles", "/metrics"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Fatalf("%s: expected status 204, got %d", path, rec.Code)
			}
		}
		if len(apiPaths) != 3 {
			t.Fatalf("expected API handler to be invoked 3 times, got %v", apiPaths)
		}
	})
}

func TestParseFlags(t *testing.T) {
	t.Run("defaults leave everything unset", func(t *testing.T) {
		overrides, err := parseFlags(nil)
		if err != nil {
			t.Fatalf("parseFlags returned error: %v", err)
		}
		if overrides.ConfigFile != "" || overrides.Port != nil || overrides.RateLimitRPS != nil ||
			overrides.RateLimitBurst != nil || overrides.LogLevel != nil || overrides.LogFormat != nil ||
			overrides.Locale != nil || overrides.TopWords != nil {
			t.Fatalf("expected no overrides, got %+v", overrides)
		}
	})

	t.Run("explicit flags override", func(t *testing.T) {
		overrides, err := parseFlags([]string{
			"--config", "app.toml",
			"--port", "9000",
			"--rate-limit-rps", "0",
			"--rate-limit-burst", "5",
			"--log-level", "debug",
			"--log-format", "console",
			"--locale", "ru",
			"--top-words", "20",
		})
		if err != nil {
			t.Fatalf("parseFlags returned error: %v", err)
		}
		if overrides.ConfigFile != "app.toml" {
			t.Fatalf("expected config file app.toml, got %q", overrides.ConfigFile)
		}
		if *overrides.Port != "9000" || *overrides.RateLimitRPS != 0 || *overrides.RateLimitBurst != 5 {
			t.Fatalf("unexpected server overrides: %+v", overrides)
		}
		if *overrides.LogLevel != "debug" || *overrides.LogFormat != "console" {
			t.Fatalf("unexpected logging overrides: %+v", overrides)
		}
		if *overrides.Locale != "ru" || *overrides.TopWords != 20 {
			t.Fatalf("unexpected stats overrides: %+v", overrides)
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		if _, err := parseFlags([]string{"--top-words", "many"}); err == nil {
			t.Fatalf("expected error for malformed integer")
		}
	})
}
