/*
Package analysis implements the multimodal analysis pipeline: it validates and
combines heterogeneous inputs, builds modality-specific prompts, invokes the
schema-constrained model and deterministically enriches its structured output
into a HealthActivityResult ready for storage.
*/
package analysis

import (
	"pulselog/internal/media"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// AnalysisType selects one of the four entry points.
type AnalysisType string

const (
	TypeFull  AnalysisType = "full"
	TypeQuick AnalysisType = "quick"
	TypeImage AnalysisType = "image"
	TypeAudio AnalysisType = "audio"
)

// ValidTypes lists the accepted envelope types in declaration order.
var ValidTypes = []AnalysisType{TypeFull, TypeQuick, TypeImage, TypeAudio}

// UserPreferences carries optional profile hints that shape the prompt.
type UserPreferences struct {
	FitnessLevel        string   `json:"fitnessLevel,omitempty"`
	PreferredActivities []string `json:"preferredActivities,omitempty"`
	HealthConditions    []string `json:"healthConditions,omitempty"`
}

// Context is the caller-owned request context. UserID and Timestamp are
// mandatory; Timestamp is echoed into the result verbatim.
type Context struct {
	UserID          string           `json:"userId"`
	Timestamp       string           `json:"timestamp"`
	UserGoals       []string         `json:"userGoals,omitempty"`
	UserPreferences *UserPreferences `json:"userPreferences,omitempty"`
}

// Input is the multimodal request body. At least one modality field must be
// present; each single-modality flow additionally requires its own field.
type Input struct {
	TextInput string         `json:"textInput,omitempty"`
	ImageData *media.Payload `json:"imageData,omitempty"`
	AudioData *media.Payload `json:"audioData,omitempty"`
	VideoData *media.Payload `json:"videoData,omitempty"`
	Context   Context        `json:"context"`
}

/* =================================================================================
						STRUCTURED OUTPUT CONTRACT
=================================================================================*/

// ActivityTypes is the closed set of activity classifications the model may
// return. Order matters only for the schema enum listing.
var ActivityTypes = []string{
	"cardio", "strength_training", "yoga", "pilates", "sports",
	"swimming", "cycling", "running", "walking", "hiit", "stretching",
	"meal", "snack", "hydration", "sleep", "rest", "other",
}

// Duration is a value with its unit ("seconds", "minutes", "hours").
type Duration struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Quantity is an amount with its unit (grams, ml, pieces, kg, lbs, ...).
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// CalorieEstimate pairs an estimate with the model's confidence in it.
type CalorieEstimate struct {
	Estimated  float64 `json:"estimated"`
	Confidence float64 `json:"confidence"`
}

// Macros is a macronutrient breakdown in grams.
type Macros struct {
	Protein float64 `json:"protein,omitempty"`
	Carbs   float64 `json:"carbs,omitempty"`
	Fat     float64 `json:"fat,omitempty"`
	Fiber   float64 `json:"fiber,omitempty"`
}

// FoodItem is one editable entry of a recognized meal.
type FoodItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Quantity   *Quantity `json:"quantity,omitempty"`
	Calories   float64   `json:"calories,omitempty"`
	Macros     *Macros   `json:"macros,omitempty"`
	Confidence float64   `json:"confidence"`
}

// ExerciseSet is one editable entry of a recognized workout.
type ExerciseSet struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Sets       int       `json:"sets,omitempty"`
	Reps       int       `json:"reps,omitempty"`
	Weight     *Quantity `json:"weight,omitempty"`
	Duration   *Duration `json:"duration,omitempty"`
	Distance   *Quantity `json:"distance,omitempty"`
	Calories   float64   `json:"calories,omitempty"`
	Confidence float64   `json:"confidence"`
}

// Insights groups the model's coaching observations.
type Insights struct {
	MuscleGroups []string `json:"muscleGroups,omitempty"`
	Equipment    []string `json:"equipment,omitempty"`
	Technique    []string `json:"technique,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Micronutrient is one named micronutrient amount in milligrams.
type Micronutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// NutritionalInfo is the per-meal nutrition summary.
type NutritionalInfo struct {
	Macros         *Macros         `json:"macros,omitempty"`
	Micronutrients []Micronutrient `json:"micronutrients,omitempty"`
	HealthScore    *float64        `json:"healthScore,omitempty"`
}

// HealthActivityResult is the structured output contract. It is built once
// per request by the model invoker and mutated exactly once by enrichment
// before being returned; no cross-request sharing.
type HealthActivityResult struct {
	ActivityType    string           `json:"activityType"`
	SubCategory     string           `json:"subCategory,omitempty"`
	Duration        *Duration        `json:"duration,omitempty"`
	Intensity       string           `json:"intensity,omitempty"`
	Calories        *CalorieEstimate `json:"calories,omitempty"`
	FoodItems       []FoodItem       `json:"foodItems,omitempty"`
	ExerciseSets    []ExerciseSet    `json:"exerciseSets,omitempty"`
	Insights        *Insights        `json:"insights,omitempty"`
	NutritionalInfo *NutritionalInfo `json:"nutritionalInfo,omitempty"`
	Timestamp       string           `json:"timestamp"`
	Confidence      float64          `json:"confidence"`
	Tags            []string         `json:"tags"`
	Notes           string           `json:"notes,omitempty"`
}

// Outcome bundles a finished flow's result with the modalities that actually
// contributed, which the gateway echoes in response metadata.
type Outcome struct {
	Result     *HealthActivityResult
	InputTypes []string
}
