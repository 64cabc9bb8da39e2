package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pulselog/internal/gemini"
	"pulselog/internal/media"
)

// Analyzer runs the four analysis flows. Each flow is a straight-line
// pipeline: validate input, build prompt, invoke the model, enrich the
// result; the first failing stage aborts the whole flow. The invoker is
// injected at construction so configuration never leaks into flow logic.
type Analyzer struct {
	invoker gemini.Invoker
	now     func() time.Time
}

func NewAnalyzer(invoker gemini.Invoker) *Analyzer {
	return &Analyzer{invoker: invoker, now: time.Now}
}

// Analyze dispatches to the flow matching the analysis type.
func (a *Analyzer) Analyze(ctx context.Context, typ AnalysisType, in Input) (*Outcome, error) {
	switch typ {
	case TypeFull:
		return a.analyzeFull(ctx, in)
	case TypeQuick:
		return a.analyzeQuick(ctx, in)
	case TypeImage:
		return a.analyzeImage(ctx, in)
	case TypeAudio:
		return a.analyzeAudio(ctx, in)
	default:
		return nil, fmt.Errorf("unknown analysis type %q", typ)
	}
}

/* =================================================================================
									FLOWS
=================================================================================*/

// analyzeFull handles arbitrary modality combinations. Video may contribute
// context but does not satisfy the presence requirement on its own.
func (a *Analyzer) analyzeFull(ctx context.Context, in Input) (*Outcome, error) {
	if strings.TrimSpace(in.TextInput) == "" && in.ImageData == nil && in.AudioData == nil {
		return nil, &InputError{Code: CodeNoInput, Message: "no input provided: at least one of text, image or audio is required"}
	}

	combined, err := Combine(in)
	if err != nil {
		return nil, err
	}

	parts := append(combined.PromptParts, gemini.TextPart(ContextualInstructions(in.Context)))

	result, err := a.invokeStructured(ctx, parts)
	if err != nil {
		return nil, err
	}

	result.tagGoals(in.Context.UserGoals)
	result.tagSources(combined.InputTypes)
	result.stamp(in.Context, a.now())

	return &Outcome{Result: result, InputTypes: presentModalities(in)}, nil
}

// analyzeQuick handles plain text. A keyword hint picks a more specific
// instruction template; the model still owns the final classification.
func (a *Analyzer) analyzeQuick(ctx context.Context, in Input) (*Outcome, error) {
	text := strings.TrimSpace(in.TextInput)
	if text == "" {
		return nil, &InputError{Code: CodeMissingText, Message: "text input required"}
	}

	hint := DetectActivityHint(text)
	prompt := strings.Join([]string{
		in.TextInput,
		ModalityInstructions("", hint),
		ContextualInstructions(in.Context),
		quickClosing,
	}, "\n\n")

	result, err := a.invokeStructured(ctx, []gemini.Part{gemini.TextPart(prompt)})
	if err != nil {
		return nil, err
	}

	result.Tags = appendTag(result.Tags, "analysis:quick")
	result.Tags = appendTag(result.Tags, "source:text")
	if hint != "" {
		result.Tags = appendTag(result.Tags, "detected:"+string(hint))
	}
	result.stamp(in.Context, a.now())

	return &Outcome{Result: result, InputTypes: []string{"text"}}, nil
}

// analyzeImage is a standalone entry point, so it validates its payload
// itself rather than relying on the combiner having run.
func (a *Analyzer) analyzeImage(ctx context.Context, in Input) (*Outcome, error) {
	if in.ImageData == nil {
		return nil, &InputError{Code: CodeMissingImage, Message: "image data required"}
	}
	if res := media.Validate(*in.ImageData, media.ModalityImage); !res.Valid {
		return nil, &MediaError{Modality: string(media.ModalityImage), Reason: res.Reason}
	}

	caption := strings.TrimSpace(in.TextInput)
	if caption == "" {
		caption = "No additional description was provided."
	}

	ref := media.ToPromptable(*in.ImageData)
	parts := []gemini.Part{
		gemini.MediaPart(ref.MimeType, ref.Data),
		gemini.TextPart(ModalityInstructions(media.ModalityImage, "")),
		gemini.TextPart(caption),
		gemini.TextPart(ContextualInstructions(in.Context)),
	}

	result, err := a.invokeStructured(ctx, parts)
	if err != nil {
		return nil, err
	}

	result.Tags = appendTag(result.Tags, "analysis:visual")
	result.Tags = appendTag(result.Tags, "source:image")
	if in.ImageData.Filename != "" {
		result.Tags = appendTag(result.Tags, "file:"+in.ImageData.Filename)
	}
	result.Tags = appendTag(result.Tags, "format:"+in.ImageData.MimeType)
	result.stamp(in.Context, a.now())

	return &Outcome{Result: result, InputTypes: presentModalities(in)}, nil
}

// analyzeAudio is the only two-stage flow: the audio is transcribed first,
// then the transcript is analyzed as text. The stages are sequential because
// the second depends on the first; their failures are reported distinctly.
func (a *Analyzer) analyzeAudio(ctx context.Context, in Input) (*Outcome, error) {
	if in.AudioData == nil {
		return nil, &InputError{Code: CodeMissingAudio, Message: "audio data required"}
	}
	if res := media.Validate(*in.AudioData, media.ModalityAudio); !res.Valid {
		return nil, &MediaError{Modality: string(media.ModalityAudio), Reason: res.Reason}
	}

	ref := media.ToPromptable(*in.AudioData)
	transcript, err := a.invoker.GenerateText(ctx, []gemini.Part{
		gemini.MediaPart(ref.MimeType, ref.Data),
		gemini.TextPart(transcriptionInstruction),
	})
	if err != nil {
		return nil, &TranscriptionError{Err: err}
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, &TranscriptionError{}
	}

	segments := []string{"Transcript of the user's audio log:\n" + transcript}
	if extra := strings.TrimSpace(in.TextInput); extra != "" {
		segments = append(segments, "Additional notes from the user:\n"+extra)
	}
	segments = append(segments, ModalityInstructions(media.ModalityAudio, ""), ContextualInstructions(in.Context))

	result, err := a.invokeStructured(ctx, []gemini.Part{gemini.TextPart(strings.Join(segments, "\n\n"))})
	if err != nil {
		return nil, err
	}

	result.Tags = appendTag(result.Tags, "analysis:audio")
	result.Tags = appendTag(result.Tags, "source:audio")
	result.attachTranscript(transcript)
	result.stamp(in.Context, a.now())

	return &Outcome{Result: result, InputTypes: presentModalities(in)}, nil
}

/* =================================================================================
								HELPERS
=================================================================================*/

// invokeStructured calls the model with the activity schema attached and
// decodes the validated JSON into the result type.
func (a *Analyzer) invokeStructured(ctx context.Context, parts []gemini.Part) (*HealthActivityResult, error) {
	raw, err := a.invoker.GenerateStructured(ctx, parts, ActivitySchema)
	if err != nil {
		return nil, err
	}

	var result HealthActivityResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &gemini.ModelError{Reason: gemini.FailureSchemaViolation, Detail: "output does not decode into the result type", Err: err}
	}

	result.normalize()
	return &result, nil
}

// presentModalities lists the modality fields actually present on the input,
// in the canonical text, image, audio, video order.
func presentModalities(in Input) []string {
	var present []string
	if strings.TrimSpace(in.TextInput) != "" {
		present = append(present, "text")
	}
	if in.ImageData != nil {
		present = append(present, "image")
	}
	if in.AudioData != nil {
		present = append(present, "audio")
	}
	if in.VideoData != nil {
		present = append(present, "video")
	}
	return present
}
