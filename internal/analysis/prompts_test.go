package analysis

import (
	"strings"
	"testing"

	"pulselog/internal/media"
)

func TestDetectActivityHint(t *testing.T) {
	tests := []struct {
		text string
		want ActivityHint
	}{
		{"I went for a run this morning", HintCardio},
		{"JOGGED around the park", HintCardio},
		{"lifted weights for an hour", HintStrength},
		{"did some yoga and stretching", HintYoga},
		{"ate a salad for lunch", HintNutrition},
		{"had a big meal", HintNutrition},
		{"played chess all evening", ""},
		{"", ""},
		// A run mentioned alongside food still reads as cardio first.
		{"ate a banana before my run", HintCardio},
		// Strength outranks yoga when both appear.
		{"stretching after lifting weights", HintStrength},
	}

	for _, tt := range tests {
		if got := DetectActivityHint(tt.text); got != tt.want {
			t.Errorf("DetectActivityHint(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestModalityInstructions(t *testing.T) {
	if got := ModalityInstructions(media.ModalityImage, ""); !strings.Contains(got, "attached image") {
		t.Errorf("image instructions missing image guidance: %q", got)
	}
	if got := ModalityInstructions(media.ModalityAudio, ""); !strings.Contains(got, "transcript") {
		t.Errorf("audio instructions missing transcript guidance: %q", got)
	}
	if got := ModalityInstructions("", ""); !strings.Contains(got, "described health activity") {
		t.Errorf("unknown modality should fall back to the generic block: %q", got)
	}

	hinted := ModalityInstructions("", HintNutrition)
	if !strings.Contains(hinted, "macronutrients") {
		t.Errorf("nutrition hint should specialize the block: %q", hinted)
	}
	if !strings.HasPrefix(hinted, genericInstructions) {
		t.Errorf("hint should extend the base block, not replace it")
	}
}

func TestContextualInstructions(t *testing.T) {
	full := ContextualInstructions(Context{
		UserID:    "user-1",
		Timestamp: "2026-08-30T07:00:00Z",
		UserGoals: []string{"weight loss", "endurance"},
		UserPreferences: &UserPreferences{
			FitnessLevel:     "intermediate",
			HealthConditions: []string{"asthma"},
		},
	})

	for _, want := range []string{
		"User ID: user-1",
		"Logged at: 2026-08-30T07:00:00Z",
		"Goals: weight loss, endurance",
		"Fitness level: intermediate",
		"Health conditions: asthma",
		"INSTRUCTIONS:",
	} {
		if !strings.Contains(full, want) {
			t.Errorf("contextual block missing %q", want)
		}
	}

	minimal := ContextualInstructions(Context{UserID: "user-2", Timestamp: "2026-08-30T07:00:00Z"})
	for _, absent := range []string{"Goals:", "Fitness level:", "Health conditions:"} {
		if strings.Contains(minimal, absent) {
			t.Errorf("minimal context should omit %q section", absent)
		}
	}
	if !strings.Contains(minimal, "INSTRUCTIONS:") {
		t.Error("closing checklist must always be present")
	}
}
