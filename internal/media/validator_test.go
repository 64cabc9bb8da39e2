package media

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		payload  Payload
		modality Modality
		valid    bool
		reason   string
	}{
		{
			name:     "valid jpeg image",
			payload:  Payload{Content: "aGVsbG8=", MimeType: "image/jpeg"},
			modality: ModalityImage,
			valid:    true,
		},
		{
			name:     "mime type is case insensitive",
			payload:  Payload{Content: "aGVsbG8=", MimeType: "IMAGE/PNG"},
			modality: ModalityImage,
			valid:    true,
		},
		{
			name:     "empty content",
			payload:  Payload{Content: "   ", MimeType: "image/png"},
			modality: ModalityImage,
			valid:    false,
			reason:   "content is empty",
		},
		{
			name:     "unsupported image type",
			payload:  Payload{Content: "aGVsbG8=", MimeType: "image/bmp"},
			modality: ModalityImage,
			valid:    false,
			reason:   "unsupported image type",
		},
		{
			name:     "image content with illegal characters",
			payload:  Payload{Content: "not base64!!", MimeType: "image/png"},
			modality: ModalityImage,
			valid:    false,
			reason:   "not valid base64",
		},
		{
			name:     "audio content is not base64 checked",
			payload:  Payload{Content: "raw bytes here", MimeType: "audio/wav"},
			modality: ModalityAudio,
			valid:    true,
		},
		{
			name:     "image over the size ceiling",
			payload:  Payload{Content: "aGVsbG8=", MimeType: "image/png", Size: 51 << 20},
			modality: ModalityImage,
			valid:    false,
			reason:   "exceeds the 50 MiB limit",
		},
		{
			name:     "audio at the size ceiling",
			payload:  Payload{Content: "aGVsbG8=", MimeType: "audio/mp3", Size: 100 << 20},
			modality: ModalityAudio,
			valid:    true,
		},
		{
			name:     "video over the size ceiling",
			payload:  Payload{Content: "aGVsbG8=", MimeType: "video/mp4", Size: 501 << 20},
			modality: ModalityVideo,
			valid:    false,
			reason:   "exceeds the 500 MiB limit",
		},
		{
			name:     "unknown modality",
			payload:  Payload{Content: "aGVsbG8=", MimeType: "image/png"},
			modality: Modality("document"),
			valid:    false,
			reason:   "unknown modality",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.payload, tt.modality)
			if res.Valid != tt.valid {
				t.Fatalf("Validate() valid = %v, want %v (reason: %q)", res.Valid, tt.valid, res.Reason)
			}
			if tt.reason != "" && !strings.Contains(res.Reason, tt.reason) {
				t.Errorf("Validate() reason = %q, want it to contain %q", res.Reason, tt.reason)
			}
		})
	}
}

func TestValidateRejectionNamesSupportedTypes(t *testing.T) {
	res := Validate(Payload{Content: "aGVsbG8=", MimeType: "audio/midi"}, ModalityAudio)
	if res.Valid {
		t.Fatal("expected rejection for audio/midi")
	}
	for _, want := range SupportedTypes(ModalityAudio) {
		if !strings.Contains(res.Reason, want) {
			t.Errorf("rejection reason should list %q, got %q", want, res.Reason)
		}
	}
}

func TestToPromptable(t *testing.T) {
	p := Payload{Content: "aGVsbG8=", MimeType: "image/png"}
	ref := ToPromptable(p)
	if ref.MimeType != "image/png" || ref.Data != "aGVsbG8=" {
		t.Errorf("ToPromptable() = %+v, want mime image/png and original content", ref)
	}

	uri := ref.DataURI()
	if uri != "data:image/png;base64,aGVsbG8=" {
		t.Errorf("DataURI() = %q", uri)
	}
}
