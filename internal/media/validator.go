/*
Package media validates and normalizes the binary payloads (images, audio
clips, video) attached to an analysis request before they are handed to the
model layer.
*/
package media

import (
	"fmt"
	"regexp"
	"strings"
)

// Modality identifies one of the supported media channels.
type Modality string

const (
	ModalityImage Modality = "image"
	ModalityAudio Modality = "audio"
	ModalityVideo Modality = "video"
)

// Payload is a caller-supplied media attachment. Content is base64 text as
// received in the JSON body; Size and Filename are optional hints.
type Payload struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Result reports whether a payload passed validation, with a caller-facing
// reason on failure.
type Result struct {
	Valid  bool
	Reason string
}

const (
	maxImageBytes = 50 << 20  // 50 MiB
	maxAudioBytes = 100 << 20 // 100 MiB
	maxVideoBytes = 500 << 20 // 500 MiB
)

var supportedMimeTypes = map[Modality][]string{
	ModalityImage: {"image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif"},
	ModalityAudio: {"audio/mp3", "audio/wav", "audio/m4a", "audio/aac", "audio/ogg", "audio/flac"},
	ModalityVideo: {"video/mp4", "video/webm", "video/mov", "video/avi"},
}

var sizeCeilings = map[Modality]int64{
	ModalityImage: maxImageBytes,
	ModalityAudio: maxAudioBytes,
	ModalityVideo: maxVideoBytes,
}

// Character-class check only. Decoding multi-megabyte payloads just to reject
// malformed input would cost more than letting the model call fail.
var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// Validate checks a payload against the rules for the given modality.
// It is a pure check: no decoding, no side effects.
func Validate(p Payload, modality Modality) Result {
	supported, ok := supportedMimeTypes[modality]
	if !ok {
		return Result{Valid: false, Reason: fmt.Sprintf("unknown modality %q", modality)}
	}

	if strings.TrimSpace(p.Content) == "" {
		return Result{Valid: false, Reason: fmt.Sprintf("%s content is empty", modality)}
	}

	if !mimeTypeSupported(p.MimeType, supported) {
		return Result{
			Valid:  false,
			Reason: fmt.Sprintf("unsupported %s type %q, supported types: %s", modality, p.MimeType, strings.Join(supported, ", ")),
		}
	}

	if modality == ModalityImage && !base64Pattern.MatchString(p.Content) {
		return Result{Valid: false, Reason: "image content is not valid base64 data"}
	}

	if ceiling := sizeCeilings[modality]; p.Size > ceiling {
		return Result{
			Valid:  false,
			Reason: fmt.Sprintf("%s size %d bytes exceeds the %d MiB limit", modality, p.Size, ceiling>>20),
		}
	}

	return Result{Valid: true}
}

func mimeTypeSupported(mimeType string, supported []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	for _, s := range supported {
		if normalized == s {
			return true
		}
	}
	return false
}

// SupportedTypes returns the accepted MIME types for a modality. Used by the
// capability endpoint; the returned slice must not be mutated.
func SupportedTypes(modality Modality) []string {
	return supportedMimeTypes[modality]
}
