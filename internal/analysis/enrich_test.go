package analysis

import (
	"testing"
	"time"
)

func TestNormalizeClampsConfidences(t *testing.T) {
	r := &HealthActivityResult{
		ActivityType: "meal",
		Confidence:   1.7,
		Calories:     &CalorieEstimate{Estimated: 400, Confidence: -0.3},
		FoodItems:    []FoodItem{{Name: "oatmeal", Confidence: -0.2}},
		ExerciseSets: []ExerciseSet{{Name: "squat", Confidence: 2.0}},
	}

	r.normalize()

	if r.Confidence != 1 {
		t.Errorf("confidence should clamp to 1, got %v", r.Confidence)
	}
	if r.Calories.Confidence != 0 {
		t.Errorf("calorie confidence should clamp to 0, got %v", r.Calories.Confidence)
	}
	if r.FoodItems[0].Confidence != 0 {
		t.Errorf("food item confidence should clamp to 0, got %v", r.FoodItems[0].Confidence)
	}
	if r.ExerciseSets[0].Confidence != 1 {
		t.Errorf("exercise confidence should clamp to 1, got %v", r.ExerciseSets[0].Confidence)
	}
	if r.FoodItems[0].ID == "" || r.ExerciseSets[0].ID == "" {
		t.Error("missing item IDs should be assigned")
	}
	if r.Tags == nil {
		t.Error("tags should never stay nil")
	}
}

func TestStampOverridesTimestamp(t *testing.T) {
	r := &HealthActivityResult{Timestamp: "whatever the model said", Tags: []string{}}

	r.stamp(Context{Timestamp: "2026-08-30T07:00:00Z"}, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

	if r.Timestamp != "2026-08-30T07:00:00Z" {
		t.Errorf("timestamp = %q, want the context value", r.Timestamp)
	}
	if !hasTag(r.Tags, "processed:2026-08-30T12:00:00Z") {
		t.Errorf("missing processing stamp, got %v", r.Tags)
	}
}

func TestTagHelpersDeduplicate(t *testing.T) {
	r := &HealthActivityResult{Tags: []string{"source:text"}}

	r.tagSources([]string{"text", "image"})
	r.tagGoals([]string{"Weight Loss", "weight loss"})

	want := []string{"source:text", "source:image", "analysis:multimodal", "goal:weight_loss"}
	if len(r.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", r.Tags, want)
	}
	for i, tag := range want {
		if r.Tags[i] != tag {
			t.Errorf("tags[%d] = %q, want %q", i, r.Tags[i], tag)
		}
	}
}
