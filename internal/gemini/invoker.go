/*
Package gemini is the single seam between the analysis pipeline and the
generative model. Everything above this package works with validated,
schema-conforming JSON; everything below is wire-level Gemini API detail.
*/
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
)

// Part is one ordered unit of model input: either a text segment or an
// inline media blob. Exactly one of the two fields is set.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob carries base64 media for an inline prompt part.
type Blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// TextPart builds a text prompt part.
func TextPart(text string) Part { return Part{Text: text} }

// MediaPart builds an inline media prompt part.
func MediaPart(mimeType, data string) Part {
	return Part{InlineData: &Blob{MimeType: mimeType, Data: data}}
}

// Invoker invokes the generative capability. Implementations must guarantee
// that GenerateStructured only ever returns JSON conforming to the supplied
// schema; anything else is a *ModelError. No implementation retries: retry
// policy belongs to the caller.
type Invoker interface {
	Name() string
	GenerateStructured(ctx context.Context, parts []Part, schema *Schema) (json.RawMessage, error)
	GenerateText(ctx context.Context, parts []Part) (string, error)
}

// Failure reasons carried by ModelError.
const (
	FailureNoOutput        = "no-output"
	FailureProvider        = "provider-error"
	FailureSchemaViolation = "schema-violation"
)

// ModelError classifies a failed model invocation. Reason is one of the
// Failure* constants.
type ModelError struct {
	Reason string
	Detail string
	Err    error
}

func (e *ModelError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("model invocation failed (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("model invocation failed (%s)", e.Reason)
}

func (e *ModelError) Unwrap() error { return e.Err }
