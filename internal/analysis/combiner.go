package analysis

import (
	"strings"

	"pulselog/internal/gemini"
	"pulselog/internal/media"
)

// Combined is the ordered prompt material assembled from a multimodal input.
// PromptParts and InputTypes share the same stable ordering: text, image,
// audio, video. That order determines where media appears in the model prompt.
type Combined struct {
	PromptParts []gemini.Part
	InputTypes  []string
}

// modalityOrder fixes the combine iteration order.
var modalityOrder = []media.Modality{media.ModalityImage, media.ModalityAudio, media.ModalityVideo}

// Combine validates and normalizes every present modality of the input into
// an ordered prompt-part list. The first media violation aborts the whole
// call with a MediaError naming the modality: there are no partial results.
// An input with nothing present fails with NO_INPUT_PROVIDED.
func Combine(in Input) (*Combined, error) {
	out := &Combined{}

	// Whitespace-only text counts as absent, matching the flows' presence
	// checks, so the source:text tag and a blank prompt part never appear
	// for text nobody actually wrote.
	if strings.TrimSpace(in.TextInput) != "" {
		out.PromptParts = append(out.PromptParts, gemini.TextPart(in.TextInput))
		out.InputTypes = append(out.InputTypes, "text")
	}

	payloads := map[media.Modality]*media.Payload{
		media.ModalityImage: in.ImageData,
		media.ModalityAudio: in.AudioData,
		media.ModalityVideo: in.VideoData,
	}

	for _, modality := range modalityOrder {
		payload := payloads[modality]
		if payload == nil {
			continue
		}
		if res := media.Validate(*payload, modality); !res.Valid {
			return nil, &MediaError{Modality: string(modality), Reason: res.Reason}
		}
		ref := media.ToPromptable(*payload)
		out.PromptParts = append(out.PromptParts, gemini.MediaPart(ref.MimeType, ref.Data))
		out.InputTypes = append(out.InputTypes, string(modality))
	}

	if len(out.PromptParts) == 0 {
		return nil, &InputError{Code: CodeNoInput, Message: "no input provided"}
	}
	return out, nil
}
