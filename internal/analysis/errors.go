package analysis

import "fmt"

/* =================================================================================
								ERROR TAXONOMY
	Internal components return typed failures; only the gateway translates
	them into the wire format. Input and media errors are caller-fixable;
	model failures are processing errors the caller may choose to retry.
=================================================================================*/

// Input-shape error codes, surfaced verbatim as wire codes by the gateway.
const (
	CodeNoInput      = "NO_INPUT_PROVIDED"
	CodeMissingText  = "MISSING_TEXT_INPUT"
	CodeMissingImage = "MISSING_IMAGE_DATA"
	CodeMissingAudio = "MISSING_AUDIO_DATA"
)

// InputError reports a required modality field that is absent or unusable
// (e.g. whitespace-only text). Always a caller mistake, never retried.
type InputError struct {
	Code    string
	Message string
}

func (e *InputError) Error() string { return e.Message }

// MediaError reports a payload that failed media validation, naming the
// offending modality and the violated constraint.
type MediaError struct {
	Modality string
	Reason   string
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("invalid %s data: %s", e.Modality, e.Reason)
}

// TranscriptionError marks a failure of the audio flow's first model stage,
// reported distinctly from the analysis stage so callers know which broke.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcription failed: %v", e.Err)
	}
	return "transcription failed: no transcript text returned"
}

func (e *TranscriptionError) Unwrap() error { return e.Err }
