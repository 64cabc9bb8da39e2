package analysis

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

/* =================================================================================
							RESULT ENRICHMENT
	Deterministic post-processing applied to the model's structured output
	exactly once per flow invocation: tag injection, timestamp override,
	confidence clamping and item ID assignment. The result is owned by the
	single in-flight request, so plain mutation is safe here.
=================================================================================*/

// appendTag adds a tag unless it is already present, keeping insertion order.
func appendTag(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}

// goalSlug turns a free-text goal into its tag form: lowercase with spaces
// collapsed to underscores.
func goalSlug(goal string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(goal)), " ", "_")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalize fixes up the parts of the model output we never trust verbatim:
// confidence bounds, missing item IDs and a non-nil tag list.
func (r *HealthActivityResult) normalize() {
	r.Confidence = clamp01(r.Confidence)
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Calories != nil {
		r.Calories.Confidence = clamp01(r.Calories.Confidence)
	}
	for i := range r.FoodItems {
		r.FoodItems[i].Confidence = clamp01(r.FoodItems[i].Confidence)
		if r.FoodItems[i].ID == "" {
			r.FoodItems[i].ID = uuid.NewString()
		}
	}
	for i := range r.ExerciseSets {
		r.ExerciseSets[i].Confidence = clamp01(r.ExerciseSets[i].Confidence)
		if r.ExerciseSets[i].ID == "" {
			r.ExerciseSets[i].ID = uuid.NewString()
		}
	}
}

// stamp overwrites the result timestamp with the caller's context timestamp
// and records when processing happened. The model's own timestamp is never
// trusted.
func (r *HealthActivityResult) stamp(ctx Context, now time.Time) {
	r.Timestamp = ctx.Timestamp
	r.Tags = appendTag(r.Tags, "processed:"+now.UTC().Format(time.RFC3339))
}

// tagGoals injects one goal:<slug> tag per user goal.
func (r *HealthActivityResult) tagGoals(goals []string) {
	for _, goal := range goals {
		if slug := goalSlug(goal); slug != "" {
			r.Tags = appendTag(r.Tags, "goal:"+slug)
		}
	}
}

// tagSources injects one source:<modality> tag per contributing modality,
// plus the multimodal marker when more than one contributed.
func (r *HealthActivityResult) tagSources(inputTypes []string) {
	for _, t := range inputTypes {
		r.Tags = appendTag(r.Tags, "source:"+t)
	}
	if len(inputTypes) > 1 {
		r.Tags = appendTag(r.Tags, "analysis:multimodal")
	}
}

// attachTranscript appends the literal transcript to the notes field.
func (r *HealthActivityResult) attachTranscript(transcript string) {
	if r.Notes == "" {
		r.Notes = "Transcript: " + transcript
		return
	}
	r.Notes += "\nTranscript: " + transcript
}
