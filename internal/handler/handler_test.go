package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vortex/ooxml-audit/internal/handler"
	"github.com/vortex/ooxml-audit/pkg/audit"
)

// mockService implements service.AuditService for handler tests.
type mockService struct {
	validateFn func([]byte, audit.Options) (*audit.ValidationResult, error)
}

func (m *mockService) Validate(data []byte, opts audit.Options) (*audit.ValidationResult, error) {
	if m.validateFn != nil {
		return m.validateFn(data, opts)
	}
	return &audit.ValidationResult{Valid: true, Kind: "Word"}, nil
}

func newMultipartRequest(t *testing.T, url string, fileData []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "test.docx")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(fileData); err != nil {
		t.Fatal(err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	handler.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", body["status"])
	}
}

func TestValidateHandler_Success(t *testing.T) {
	t.Parallel()
	svc := &mockService{}
	h := handler.NewValidateHandler(svc)

	req := newMultipartRequest(t, "/api/v1/documents/validate", []byte("fake"))
	rec := httptest.NewRecorder()

	h.Validate(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var result audit.ValidationResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.Valid {
		t.Error("expected valid=true")
	}
}

func TestValidateHandler_NoFile(t *testing.T) {
	t.Parallel()
	svc := &mockService{}
	h := handler.NewValidateHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/validate", nil)
	req.Header.Set("Content-Type", "multipart/form-data")
	rec := httptest.NewRecorder()

	h.Validate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestValidateHandler_PropagatesOptionsFromQuery(t *testing.T) {
	t.Parallel()
	var gotOpts audit.Options
	svc := &mockService{
		validateFn: func(data []byte, opts audit.Options) (*audit.ValidationResult, error) {
			gotOpts = opts
			return &audit.ValidationResult{Valid: true}, nil
		},
	}
	h := handler.NewValidateHandler(svc)

	req := newMultipartRequest(t, "/api/v1/documents/validate?strict=true&max_errors=10&file_format=office2016", []byte("fake"))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	if !gotOpts.Strict {
		t.Error("expected strict=true to propagate")
	}
	if gotOpts.MaxErrors != 10 {
		t.Errorf("expected max_errors=10, got %d", gotOpts.MaxErrors)
	}
}

func TestValidateHandler_ReturnsResultOnValidationError(t *testing.T) {
	t.Parallel()
	svc := &mockService{
		validateFn: func(data []byte, opts audit.Options) (*audit.ValidationResult, error) {
			return &audit.ValidationResult{Valid: false, Errors: []audit.ErrorRecord{{Kind: "Package", Severity: "Error", Description: "not a zip"}}}, errUnrecoverable
		},
	}
	h := handler.NewValidateHandler(svc)

	req := newMultipartRequest(t, "/api/v1/documents/validate", []byte("fake"))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	var result audit.ValidationResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Valid {
		t.Error("expected valid=false")
	}
}

type staticErr string

func (e staticErr) Error() string { return string(e) }

const errUnrecoverable = staticErr("container failure")
