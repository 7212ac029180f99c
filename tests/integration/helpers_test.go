//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

var client = &http.Client{Timeout: 10 * time.Second}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:5000")
}

// doJSON sends payload (when non-nil) as JSON and decodes the JSON response.
func doJSON(t *testing.T, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", baseURL(), path), body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, out
}

// createQuestion inserts a question and returns its id.
func createQuestion(t *testing.T, text, answer string, category, difficulty int) int {
	t.Helper()

	status, data := doJSON(t, http.MethodPost, "/questions", map[string]interface{}{
		"question":   text,
		"answer":     answer,
		"category":   category,
		"difficulty": difficulty,
	})
	if status != http.StatusCreated {
		t.Fatalf("create question: expected 201, got %d: %v", status, data)
	}
	id, ok := data["created"].(float64)
	if !ok {
		t.Fatalf("create question: missing created id in %v", data)
	}
	return int(id)
}

func expectError(t *testing.T, data map[string]interface{}, status int, message string) {
	t.Helper()

	if data["success"] != false {
		t.Fatalf("expected success=false, got %v", data["success"])
	}
	if data["error"] != float64(status) {
		t.Fatalf("expected error=%d, got %v", status, data["error"])
	}
	if data["message"] != message {
		t.Fatalf("expected message %q, got %v", message, data["message"])
	}
}
