package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"pulselog/internal/analysis"
	"pulselog/internal/database"
	"pulselog/internal/gemini"
	"pulselog/internal/media"
	"pulselog/internal/profile"
)

/* =================================================================================
								REQUEST GATEWAY
	The only place where internal failure types are translated into the
	wire format. Flows and validators below this layer return typed errors.
=================================================================================*/

// Wire error codes.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidImage    = "INVALID_IMAGE_DATA"
	CodeInvalidAudio    = "INVALID_AUDIO_DATA"
	CodeInvalidVideo    = "INVALID_VIDEO_DATA"
	CodeAIProcessing    = "AI_PROCESSING_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// AnalyzeRequest is the request envelope.
type AnalyzeRequest struct {
	Type  analysis.AnalysisType `json:"type"`
	Input *analysis.Input       `json:"input"`
}

// AnalyzeMetadata accompanies every successful analysis response.
type AnalyzeMetadata struct {
	AnalysisType string   `json:"analysisType"`
	Timestamp    string   `json:"timestamp"`
	InputTypes   []string `json:"inputTypes"`
	ActivityID   string   `json:"activityId,omitempty"`
}

// AnalyzeResponse is the success envelope.
type AnalyzeResponse struct {
	Success  bool                           `json:"success"`
	Data     *analysis.HealthActivityResult `json:"data"`
	Metadata AnalyzeMetadata                `json:"metadata"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code"`
}

// AnalyzeDeps are the gateway's collaborators. Queries and Profiles may be
// nil (e.g. in tests), which disables persistence and context hydration.
type AnalyzeDeps struct {
	Queries  *database.Queries
	Profiles *profile.Service
	Env      string
}

// AnalyzeHandler validates request envelopes, dispatches to the matching
// analysis flow and maps internal failures onto the HTTP error taxonomy.
type AnalyzeHandler struct {
	analyzer *analysis.Analyzer
	deps     AnalyzeDeps
}

func NewAnalyzeHandler(analyzer *analysis.Analyzer, deps AnalyzeDeps) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, deps: deps}
}

// Analyze handles POST /analyze.
func (h *AnalyzeHandler) Analyze(c echo.Context) error {
	ctx := c.Request().Context()

	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request format", Details: err.Error(), Code: CodeValidationError,
		})
	}

	if resp := validateEnvelope(req); resp != nil {
		return c.JSON(http.StatusBadRequest, *resp)
	}

	// Precondition short-circuit before the flow runs. Each flow repeats its
	// own check so it stays safe as a standalone entry point.
	if resp := checkPrecondition(req.Type, *req.Input); resp != nil {
		return c.JSON(http.StatusBadRequest, *resp)
	}

	if h.deps.Profiles != nil {
		h.deps.Profiles.Hydrate(ctx, &req.Input.Context)
	}

	outcome, err := h.analyzer.Analyze(ctx, req.Type, *req.Input)
	if err != nil {
		recordAnalysisFailure()
		status, resp := h.classify(err)
		log.Warn().Err(err).Str("type", string(req.Type)).Str("code", resp.Code).Msg("Analysis failed")
		return c.JSON(status, resp)
	}

	recordAnalysisSuccess()

	metadata := AnalyzeMetadata{
		AnalysisType: string(req.Type),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		InputTypes:   outcome.InputTypes,
	}

	// Persistence is best effort: a storage hiccup must not discard a
	// finished analysis the caller is waiting for.
	if h.deps.Queries != nil {
		if id, err := h.persist(c, req, outcome); err != nil {
			log.Error().Err(err).Str("user_id", req.Input.Context.UserID).Msg("Failed to persist analysis result")
		} else {
			metadata.ActivityID = id
		}
	}

	return c.JSON(http.StatusOK, AnalyzeResponse{Success: true, Data: outcome.Result, Metadata: metadata})
}

func validateEnvelope(req AnalyzeRequest) *ErrorResponse {
	if !validType(req.Type) {
		return &ErrorResponse{
			Error:   "Invalid analysis type",
			Details: "type must be one of: full, quick, image, audio",
			Code:    CodeValidationError,
		}
	}
	if req.Input == nil {
		return &ErrorResponse{Error: "Missing input", Details: "input object is required", Code: CodeValidationError}
	}
	if req.Input.Context.UserID == "" || req.Input.Context.Timestamp == "" {
		return &ErrorResponse{
			Error:   "Invalid context",
			Details: "input.context.userId and input.context.timestamp are required",
			Code:    CodeValidationError,
		}
	}
	return nil
}

func validType(t analysis.AnalysisType) bool {
	for _, v := range analysis.ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}

func checkPrecondition(typ analysis.AnalysisType, in analysis.Input) *ErrorResponse {
	switch typ {
	case analysis.TypeQuick:
		if strings.TrimSpace(in.TextInput) == "" {
			return &ErrorResponse{Error: "Text input required for quick analysis", Code: analysis.CodeMissingText}
		}
	case analysis.TypeImage:
		if in.ImageData == nil {
			return &ErrorResponse{Error: "Image data required for image analysis", Code: analysis.CodeMissingImage}
		}
	case analysis.TypeAudio:
		if in.AudioData == nil {
			return &ErrorResponse{Error: "Audio data required for audio analysis", Code: analysis.CodeMissingAudio}
		}
	case analysis.TypeFull:
		if strings.TrimSpace(in.TextInput) == "" && in.ImageData == nil && in.AudioData == nil {
			return &ErrorResponse{Error: "No input provided", Code: analysis.CodeNoInput}
		}
	}
	return nil
}

// classify maps a flow failure to its HTTP status and wire error.
func (h *AnalyzeHandler) classify(err error) (int, ErrorResponse) {
	var inputErr *analysis.InputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest, ErrorResponse{Error: inputErr.Message, Code: inputErr.Code}
	}

	var mediaErr *analysis.MediaError
	if errors.As(err, &mediaErr) {
		code := CodeInvalidImage
		switch media.Modality(mediaErr.Modality) {
		case media.ModalityAudio:
			code = CodeInvalidAudio
		case media.ModalityVideo:
			code = CodeInvalidVideo
		}
		return http.StatusBadRequest, ErrorResponse{
			Error: "Media validation failed", Details: mediaErr.Reason, Code: code,
		}
	}

	var transcriptionErr *analysis.TranscriptionError
	if errors.As(err, &transcriptionErr) {
		return http.StatusInternalServerError, ErrorResponse{
			Error: "AI analysis failed", Details: transcriptionErr.Error(), Code: CodeAIProcessing,
		}
	}

	var modelErr *gemini.ModelError
	if errors.As(err, &modelErr) {
		return http.StatusInternalServerError, ErrorResponse{
			Error: "AI analysis failed", Details: modelErr.Error(), Code: CodeAIProcessing,
		}
	}

	resp := ErrorResponse{Error: "Internal server error", Code: CodeInternal}
	if h.deps.Env != "production" {
		resp.Details = err.Error()
	}
	return http.StatusInternalServerError, resp
}

func (h *AnalyzeHandler) persist(c echo.Context, req AnalyzeRequest, outcome *analysis.Outcome) (string, error) {
	raw, err := json.Marshal(outcome.Result)
	if err != nil {
		return "", err
	}
	id, err := h.deps.Queries.SaveActivity(c.Request().Context(), database.SaveActivityParams{
		UserID:       req.Input.Context.UserID,
		AnalysisType: string(req.Type),
		ActivityType: outcome.Result.ActivityType,
		Result:       raw,
		LoggedAt:     outcome.Result.Timestamp,
	})
	if err != nil {
		return "", err
	}
	uuidStr, err := id.Value()
	if err != nil {
		return "", err
	}
	s, _ := uuidStr.(string)
	return s, nil
}

/* =================================================================================
							CAPABILITY DISCOVERY
=================================================================================*/

// Capabilities handles GET /analyze: a static description of the contract.
func (h *AnalyzeHandler) Capabilities(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"endpoint": "POST /analyze",
		"types": map[string]interface{}{
			"full":  map[string]interface{}{"requires": "at least one of textInput, imageData, audioData", "accepts": []string{"textInput", "imageData", "audioData", "videoData"}},
			"quick": map[string]interface{}{"requires": "textInput"},
			"image": map[string]interface{}{"requires": "imageData", "accepts": []string{"imageData", "textInput"}},
			"audio": map[string]interface{}{"requires": "audioData", "accepts": []string{"audioData", "textInput"}},
		},
		"media": map[string]interface{}{
			"image": map[string]interface{}{"mimeTypes": media.SupportedTypes(media.ModalityImage), "maxSizeMiB": 50},
			"audio": map[string]interface{}{"mimeTypes": media.SupportedTypes(media.ModalityAudio), "maxSizeMiB": 100},
			"video": map[string]interface{}{"mimeTypes": media.SupportedTypes(media.ModalityVideo), "maxSizeMiB": 500},
		},
		"context": map[string]interface{}{
			"required": []string{"userId", "timestamp"},
			"optional": []string{"userGoals", "userPreferences"},
		},
	})
}
