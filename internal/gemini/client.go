package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// --- Gemini API Configuration ---
const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel       = "gemini-2.5-flash"
	requestTimeout     = 60 * time.Second
	structuredMimeType = "application/json"
)

// --- Structs for Gemini API Request/Response ---
// (These are internal to the gemini package)

type generatePayload struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []Part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Client calls the Gemini generateContent REST API. It performs exactly one
// HTTP request per invocation: callers own any retry policy.
type Client struct {
	apiKey       string
	model        string
	baseURL      string
	systemPrompt string
	httpClient   *http.Client
}

// NewClient builds a client with explicit credentials.
func NewClient(apiKey, model, systemPrompt string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:       apiKey,
		model:        model,
		baseURL:      defaultBaseURL,
		systemPrompt: systemPrompt,
		httpClient:   &http.Client{Timeout: requestTimeout},
	}
}

// NewClientFromEnv builds a client configured from GEMINI_API_KEY and
// GEMINI_MODEL. A missing key is reported on first use, not here, so the
// server can still boot in environments without AI access.
func NewClientFromEnv(systemPrompt string) *Client {
	return NewClient(os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"), systemPrompt)
}

func (c *Client) Name() string { return "Gemini:" + c.model }

// GenerateStructured sends the prompt parts with a response schema attached
// and returns the raw JSON only after verifying it conforms to that schema.
func (c *Client) GenerateStructured(ctx context.Context, parts []Part, schema *Schema) (json.RawMessage, error) {
	payload := generatePayload{
		Contents: []content{{Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: structuredMimeType,
			ResponseSchema:   schema,
		},
	}
	if c.systemPrompt != "" {
		payload.SystemInstruction = &content{Parts: []Part{TextPart(c.systemPrompt)}}
	}

	text, err := c.generate(ctx, payload)
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(text)
	if err := Conform(raw, schema); err != nil {
		log.Warn().Err(err).Str("model", c.model).Msg("Model output failed schema validation")
		return nil, &ModelError{Reason: FailureSchemaViolation, Detail: err.Error(), Err: err}
	}
	return raw, nil
}

// GenerateText sends the prompt parts without a schema and returns the plain
// text of the first candidate.
func (c *Client) GenerateText(ctx context.Context, parts []Part) (string, error) {
	return c.generate(ctx, generatePayload{Contents: []content{{Parts: parts}}})
}

func (c *Client) generate(ctx context.Context, payload generatePayload) (string, error) {
	if c.apiKey == "" {
		log.Error().Msg("GEMINI_API_KEY environment variable is not set")
		return "", &ModelError{Reason: FailureProvider, Detail: "server is not configured for AI analysis"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &ModelError{Reason: FailureProvider, Detail: "failed to marshal payload", Err: err}
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &ModelError{Reason: FailureProvider, Detail: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	log.Info().Str("model", c.model).Int("payload_bytes", len(body)).Msg("Calling Gemini API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ModelError{Reason: FailureProvider, Detail: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := fmt.Sprintf("API returned %s: %s", resp.Status, strings.TrimSpace(string(errBody)))
		log.Warn().Str("status", resp.Status).Msg("Gemini API call failed")
		return "", &ModelError{Reason: FailureProvider, Detail: detail}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &ModelError{Reason: FailureProvider, Detail: "failed to decode response", Err: err}
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", &ModelError{Reason: FailureNoOutput, Detail: "no content found in Gemini response"}
	}

	text := decoded.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", &ModelError{Reason: FailureNoOutput, Detail: "empty text in Gemini response"}
	}
	return text, nil
}

// WithBaseURL points the client at a different endpoint. Used by tests to
// target an httptest server.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}
