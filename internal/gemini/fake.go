package gemini

import (
	"context"
	"encoding/json"
)

// FakeInvoker returns scripted responses for offline use and tests. Responses
// are consumed in order per method; when the script runs out the last entry
// repeats. Call counts let tests assert which stages actually ran.
type FakeInvoker struct {
	StructuredResponses []json.RawMessage
	StructuredErrs      []error
	TextResponses       []string
	TextErrs            []error

	StructuredCalls int
	TextCalls       int

	// LastParts records the prompt parts of the most recent call, either method.
	LastParts []Part
}

func (f *FakeInvoker) Name() string { return "FakeGemini" }

func (f *FakeInvoker) GenerateStructured(ctx context.Context, parts []Part, schema *Schema) (json.RawMessage, error) {
	idx := f.StructuredCalls
	f.StructuredCalls++
	f.LastParts = parts

	if err := pick(f.StructuredErrs, idx); err != nil {
		return nil, err
	}
	if len(f.StructuredResponses) == 0 {
		return nil, &ModelError{Reason: FailureNoOutput, Detail: "fake invoker has no scripted response"}
	}
	raw := pick(f.StructuredResponses, idx)
	if err := Conform(raw, schema); err != nil {
		return nil, &ModelError{Reason: FailureSchemaViolation, Detail: err.Error(), Err: err}
	}
	return raw, nil
}

func (f *FakeInvoker) GenerateText(ctx context.Context, parts []Part) (string, error) {
	idx := f.TextCalls
	f.TextCalls++
	f.LastParts = parts

	if err := pick(f.TextErrs, idx); err != nil {
		return "", err
	}
	if len(f.TextResponses) == 0 {
		return "", &ModelError{Reason: FailureNoOutput, Detail: "fake invoker has no scripted text"}
	}
	return pick(f.TextResponses, idx), nil
}

func pick[T any](s []T, idx int) T {
	var zero T
	if len(s) == 0 {
		return zero
	}
	if idx >= len(s) {
		return s[len(s)-1]
	}
	return s[idx]
}
