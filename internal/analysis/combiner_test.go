package analysis

import (
	"errors"
	"strings"
	"testing"

	"pulselog/internal/media"
)

func imagePayload() *media.Payload {
	return &media.Payload{Content: "aW1hZ2U=", MimeType: "image/png"}
}

func audioPayload() *media.Payload {
	return &media.Payload{Content: "YXVkaW8=", MimeType: "audio/wav"}
}

func TestCombineOrdering(t *testing.T) {
	combined, err := Combine(Input{
		TextInput: "morning workout",
		ImageData: imagePayload(),
		AudioData: audioPayload(),
	})
	if err != nil {
		t.Fatalf("Combine() unexpected error: %v", err)
	}

	want := []string{"text", "image", "audio"}
	if len(combined.InputTypes) != len(want) {
		t.Fatalf("InputTypes = %v, want %v", combined.InputTypes, want)
	}
	for i, modality := range want {
		if combined.InputTypes[i] != modality {
			t.Errorf("InputTypes[%d] = %q, want %q", i, combined.InputTypes[i], modality)
		}
	}

	if len(combined.PromptParts) != 3 {
		t.Fatalf("PromptParts length = %d, want 3", len(combined.PromptParts))
	}
	if combined.PromptParts[0].Text != "morning workout" {
		t.Errorf("first part should be the raw text, got %+v", combined.PromptParts[0])
	}
	if combined.PromptParts[1].InlineData == nil || combined.PromptParts[1].InlineData.MimeType != "image/png" {
		t.Errorf("second part should carry the image, got %+v", combined.PromptParts[1])
	}
	if combined.PromptParts[2].InlineData == nil || combined.PromptParts[2].InlineData.MimeType != "audio/wav" {
		t.Errorf("third part should carry the audio, got %+v", combined.PromptParts[2])
	}
}

func TestCombineWhitespaceTextIsAbsent(t *testing.T) {
	combined, err := Combine(Input{
		TextInput: "   ",
		ImageData: imagePayload(),
	})
	if err != nil {
		t.Fatalf("Combine() unexpected error: %v", err)
	}

	if len(combined.InputTypes) != 1 || combined.InputTypes[0] != "image" {
		t.Errorf("InputTypes = %v, want [image]", combined.InputTypes)
	}
	if len(combined.PromptParts) != 1 || combined.PromptParts[0].InlineData == nil {
		t.Errorf("blank text must not produce a prompt part, got %+v", combined.PromptParts)
	}
}

func TestCombineEmptyInput(t *testing.T) {
	_, err := Combine(Input{})

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
	if inputErr.Code != CodeNoInput {
		t.Errorf("code = %q, want %q", inputErr.Code, CodeNoInput)
	}
}

func TestCombineAbortsOnFirstViolation(t *testing.T) {
	_, err := Combine(Input{
		TextInput: "see attachments",
		ImageData: imagePayload(),
		AudioData: &media.Payload{Content: "YXVkaW8=", MimeType: "audio/midi"},
	})

	var mediaErr *MediaError
	if !errors.As(err, &mediaErr) {
		t.Fatalf("expected MediaError, got %v", err)
	}
	if mediaErr.Modality != "audio" {
		t.Errorf("violation should name the offending modality, got %q", mediaErr.Modality)
	}
	if !strings.Contains(mediaErr.Reason, "audio/midi") {
		t.Errorf("reason should name the rejected type, got %q", mediaErr.Reason)
	}
}
