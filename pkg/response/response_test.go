package response_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/vortex/ooxml-audit/pkg/response"
)

func TestJSON_WritesStatusAndBody(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	response.JSON(rec, 201, map[string]int{"n": 5})

	if rec.Code != 201 {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var body map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["n"] != 5 {
		t.Errorf("expected n=5, got %d", body["n"])
	}
}

func TestError_WrapsMessage(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	response.Error(rec, 400, "bad input")

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "bad input" {
		t.Errorf("expected error=bad input, got %q", body["error"])
	}
}
