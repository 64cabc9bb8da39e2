package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// candidateResponse wraps text the way the generateContent API does.
func candidateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func newClientAgainst(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", "test-model", "system prompt").WithBaseURL(srv.URL)
}

func TestGenerateStructured(t *testing.T) {
	var captured generatePayload
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("request body did not decode: %v", err)
		}
		json.NewEncoder(w).Encode(candidateResponse(`{"activityType":"cardio","confidence":0.9}`))
	})

	raw, err := client.GenerateStructured(context.Background(), []Part{TextPart("ran 5k")}, activitySchema)
	if err != nil {
		t.Fatalf("GenerateStructured() unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("returned payload is not JSON: %v", err)
	}
	if decoded["activityType"] != "cardio" {
		t.Errorf("activityType = %v", decoded["activityType"])
	}

	// The request must carry the schema, the system prompt and JSON mime type.
	if captured.GenerationConfig == nil || captured.GenerationConfig.ResponseSchema == nil {
		t.Fatal("request did not attach a response schema")
	}
	if captured.GenerationConfig.ResponseMimeType != "application/json" {
		t.Errorf("responseMimeType = %q", captured.GenerationConfig.ResponseMimeType)
	}
	if captured.SystemInstruction == nil || captured.SystemInstruction.Parts[0].Text != "system prompt" {
		t.Error("request did not carry the system instruction")
	}
}

func TestGenerateStructuredSchemaViolation(t *testing.T) {
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(candidateResponse(`{"activityType":"jousting","confidence":0.9}`))
	})

	_, err := client.GenerateStructured(context.Background(), []Part{TextPart("x")}, activitySchema)

	var modelErr *ModelError
	if !errors.As(err, &modelErr) || modelErr.Reason != FailureSchemaViolation {
		t.Fatalf("expected schema-violation ModelError, got %v", err)
	}
}

func TestGenerateTextProviderError(t *testing.T) {
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	})

	_, err := client.GenerateText(context.Background(), []Part{TextPart("x")})

	var modelErr *ModelError
	if !errors.As(err, &modelErr) || modelErr.Reason != FailureProvider {
		t.Fatalf("expected provider ModelError, got %v", err)
	}
}

func TestGenerateTextNoOutput(t *testing.T) {
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := client.GenerateText(context.Background(), []Part{TextPart("x")})

	var modelErr *ModelError
	if !errors.As(err, &modelErr) || modelErr.Reason != FailureNoOutput {
		t.Fatalf("expected no-output ModelError, got %v", err)
	}
}

func TestMissingAPIKey(t *testing.T) {
	client := NewClient("", "test-model", "")

	_, err := client.GenerateText(context.Background(), []Part{TextPart("x")})

	var modelErr *ModelError
	if !errors.As(err, &modelErr) || modelErr.Reason != FailureProvider {
		t.Fatalf("expected provider ModelError for missing key, got %v", err)
	}
}
