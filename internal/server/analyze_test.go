package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulselog/internal/analysis"
	"pulselog/internal/gemini"
)

func newTestHandler(fake *gemini.FakeInvoker) *AnalyzeHandler {
	return NewAnalyzeHandler(analysis.NewAnalyzer(fake), AnalyzeDeps{Env: "test"})
}

func doAnalyze(t *testing.T, handler *AnalyzeHandler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := handler.Analyze(e.NewContext(req, rec))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func scriptedResult() json.RawMessage {
	return json.RawMessage(`{
		"activityType": "cardio",
		"timestamp": "ignored",
		"confidence": 0.9,
		"tags": []
	}`)
}

func TestAnalyzeEndpointQuick(t *testing.T) {
	fake := &gemini.FakeInvoker{StructuredResponses: []json.RawMessage{scriptedResult()}}
	handler := newTestHandler(fake)

	rec, body := doAnalyze(t, handler, `{
		"type": "quick",
		"input": {
			"textInput": "I went for a run this morning",
			"context": {"userId": "user-1", "timestamp": "2026-08-30T07:00:00Z"}
		}
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "cardio", data["activityType"])
	assert.Equal(t, "2026-08-30T07:00:00Z", data["timestamp"])

	metadata := body["metadata"].(map[string]any)
	assert.Equal(t, "quick", metadata["analysisType"])
	assert.Equal(t, []any{"text"}, metadata["inputTypes"])

	assert.Equal(t, 1, fake.StructuredCalls)
}

func TestAnalyzeEndpointEnvelopeValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name:     "unknown type",
			body:     `{"type": "video", "input": {"textInput": "x", "context": {"userId": "u", "timestamp": "t"}}}`,
			wantCode: CodeValidationError,
		},
		{
			name:     "missing input",
			body:     `{"type": "quick"}`,
			wantCode: CodeValidationError,
		},
		{
			name:     "missing context fields",
			body:     `{"type": "quick", "input": {"textInput": "x", "context": {"userId": "u"}}}`,
			wantCode: CodeValidationError,
		},
		{
			name:     "quick without text",
			body:     `{"type": "quick", "input": {"context": {"userId": "u", "timestamp": "t"}}}`,
			wantCode: analysis.CodeMissingText,
		},
		{
			name:     "image without image data",
			body:     `{"type": "image", "input": {"textInput": "x", "context": {"userId": "u", "timestamp": "t"}}}`,
			wantCode: analysis.CodeMissingImage,
		},
		{
			name:     "audio without audio data",
			body:     `{"type": "audio", "input": {"context": {"userId": "u", "timestamp": "t"}}}`,
			wantCode: analysis.CodeMissingAudio,
		},
		{
			name:     "full with nothing usable",
			body:     `{"type": "full", "input": {"videoData": {"content": "dmlkZW8=", "mimeType": "video/mp4"}, "context": {"userId": "u", "timestamp": "t"}}}`,
			wantCode: analysis.CodeNoInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &gemini.FakeInvoker{}
			handler := newTestHandler(fake)

			rec, body := doAnalyze(t, handler, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Zero(t, fake.StructuredCalls, "model must not run for a rejected envelope")
			assert.Zero(t, fake.TextCalls)
		})
	}
}

func TestAnalyzeEndpointMediaErrors(t *testing.T) {
	fake := &gemini.FakeInvoker{}
	handler := newTestHandler(fake)

	rec, body := doAnalyze(t, handler, `{
		"type": "image",
		"input": {
			"imageData": {"content": "aW1hZ2U=", "mimeType": "image/bmp"},
			"context": {"userId": "user-1", "timestamp": "2026-08-30T07:00:00Z"}
		}
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidImage, body["code"])
	assert.Contains(t, body["details"], "image/bmp")
	assert.Zero(t, fake.StructuredCalls)
}

func TestAnalyzeEndpointModelFailure(t *testing.T) {
	fake := &gemini.FakeInvoker{
		StructuredErrs: []error{&gemini.ModelError{Reason: gemini.FailureNoOutput, Detail: "no candidates"}},
	}
	handler := newTestHandler(fake)

	rec, body := doAnalyze(t, handler, `{
		"type": "quick",
		"input": {
			"textInput": "ran 5k",
			"context": {"userId": "user-1", "timestamp": "2026-08-30T07:00:00Z"}
		}
	}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeAIProcessing, body["code"])
}

func TestAnalyzeEndpointTranscriptionFailure(t *testing.T) {
	fake := &gemini.FakeInvoker{
		TextErrs: []error{&gemini.ModelError{Reason: gemini.FailureProvider, Detail: "upstream 500"}},
	}
	handler := newTestHandler(fake)

	rec, body := doAnalyze(t, handler, `{
		"type": "audio",
		"input": {
			"audioData": {"content": "YXVkaW8=", "mimeType": "audio/wav"},
			"context": {"userId": "user-1", "timestamp": "2026-08-30T07:00:00Z"}
		}
	}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeAIProcessing, body["code"])
	assert.Contains(t, body["details"], "transcription failed")
	assert.Zero(t, fake.StructuredCalls, "analysis stage must not run after a failed transcription")
}

func TestCapabilitiesEndpoint(t *testing.T) {
	handler := newTestHandler(&gemini.FakeInvoker{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler.Capabilities(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "types")
	assert.Contains(t, body, "media")
}
