package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()
	respondWithError(w, 404, "Not found", "lookup failed", errors.New("sql: no rows"))

	if w.Code != 404 {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] != "Not found" {
		t.Errorf("error body = %q, want the user-safe message", body["error"])
	}
	if strings.Contains(w.Body.String(), "sql") {
		t.Error("internal error detail leaked into the response body")
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, 201, map[string]int{"id": 7})

	if w.Code != 201 {
		t.Errorf("status = %d, want 201", w.Code)
	}

	var body map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["id"] != 7 {
		t.Errorf("body = %v, want id 7", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Shelly"}`))
		var p payload
		if err := decodeJSON(r, &p); err != nil {
			t.Fatalf("decodeJSON failed: %v", err)
		}
		if p.Name != "Shelly" {
			t.Errorf("name = %q, want Shelly", p.Name)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Shelly","admin":true}`))
		var p payload
		if err := decodeJSON(r, &p); err == nil {
			t.Error("expected an error for unknown fields")
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
		var p payload
		if err := decodeJSON(r, &p); err == nil {
			t.Error("expected an error for malformed JSON")
		}
	})
}
