package analysis

import (
	"fmt"
	"strings"

	"pulselog/internal/media"
)

/* =================================================================================
						PROMPT ENGINEERING & GUARDRAILS
=================================================================================*/

/*
SystemPrompt defines the "Persona" and "Guardrails" for the AI model.
It restricts the assistant to health/fitness analysis and forbids any
response outside the structured schema.
*/
const SystemPrompt = `You are an expert fitness coach and nutritionist analyzing a user's logged health activity.

DOMAIN RESTRICTION (CRITICAL):
You strictly analyze health, fitness and nutrition events.
IF the input is unrelated to health, fitness or nutrition:
- SET 'activityType' to "other"
- SET 'confidence' to 0
- LEAVE foodItems and exerciseSets empty

ANALYSIS RULES:
1. Classify the activity into exactly one of the allowed activity types.
2. Estimate duration, intensity and calories only when the input supports it; lower 'confidence' when guessing.
3. For meals: list every distinguishable food item with quantity, calories and macros.
4. For workouts: list every distinguishable exercise with sets, reps, weight or duration.
5. Surface warnings for anything unsafe given the user's stated health conditions.

RESPONSE FORMAT:
- Return ONLY the JSON structure defined in the schema
- Do NOT add markdown, explanations, or preamble
- Every confidence value is a float between 0.0 and 1.0`

// ActivityHint is a heuristic guess at the activity category, used only to
// pick a more specific instruction template for the quick-text flow. It is
// never authoritative: the final activityType comes from the model.
type ActivityHint string

const (
	HintCardio    ActivityHint = "cardio"
	HintStrength  ActivityHint = "strength"
	HintYoga      ActivityHint = "yoga"
	HintNutrition ActivityHint = "nutrition"
)

// hintKeywords is checked in order; the first matching entry wins. The
// cardio > strength > yoga > nutrition priority is load-bearing: changing it
// changes which instruction template a mixed description selects.
var hintKeywords = []struct {
	hint     ActivityHint
	keywords []string
}{
	{HintCardio, []string{"run", "jog", "cardio"}},
	{HintStrength, []string{"weight", "lift", "strength"}},
	{HintYoga, []string{"yoga", "stretch", "flexibility"}},
	{HintNutrition, []string{"meal", "food", "ate", "nutrition"}},
}

// DetectActivityHint scans free text for category keywords. Empty result
// means no match.
func DetectActivityHint(text string) ActivityHint {
	lower := strings.ToLower(text)
	for _, entry := range hintKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.hint
			}
		}
	}
	return ""
}

/* =================================================================================
						MODALITY INSTRUCTION TEMPLATES
=================================================================================*/

const imageInstructions = `Analyze the attached image of a health activity.
If it shows food: identify every item, estimate portion sizes, calories and macronutrients.
If it shows exercise: identify the activity, equipment and visible form or technique cues.
State what you can actually see; do not invent details that are not visible.`

const audioInstructions = `The user described a health activity out loud; the transcript is provided below.
Extract the activity, its duration and intensity, and any foods or exercises mentioned.
Treat filler words and self-corrections in the transcript as noise.`

const videoInstructions = `Analyze the attached video of a health activity.
Identify the activity performed, count repetitions where possible, and assess movement quality.`

const genericInstructions = `Analyze the described health activity.
Classify it, estimate its metrics, and break it into its component items.`

var hintInstructions = map[ActivityHint]string{
	HintCardio:    "The description suggests cardiovascular exercise: focus on distance, pace, duration and estimated calorie burn.",
	HintStrength:  "The description suggests strength training: focus on exercises, sets, reps and weights.",
	HintYoga:      "The description suggests yoga or mobility work: focus on duration, poses and flexibility benefits.",
	HintNutrition: "The description suggests a meal or snack: focus on individual foods, portions, calories and macronutrients.",
}

// ModalityInstructions returns the canned instruction block for a modality,
// optionally specialized by an activity hint. It never fails; unknown inputs
// fall back to the generic block.
func ModalityInstructions(modality media.Modality, hint ActivityHint) string {
	var block string
	switch modality {
	case media.ModalityImage:
		block = imageInstructions
	case media.ModalityAudio:
		block = audioInstructions
	case media.ModalityVideo:
		block = videoInstructions
	default:
		block = genericInstructions
	}
	if extra, ok := hintInstructions[hint]; ok {
		block += "\n" + extra
	}
	return block
}

/* =================================================================================
						CONTEXTUAL INSTRUCTIONS
=================================================================================*/

// ContextualInstructions renders the user-specific instruction block. Absent
// optional fields are simply omitted; the closing checklist is fixed.
func ContextualInstructions(ctx Context) string {
	var b strings.Builder
	b.WriteString("=== USER CONTEXT ===\n")
	b.WriteString(fmt.Sprintf("User ID: %s\n", ctx.UserID))
	b.WriteString(fmt.Sprintf("Logged at: %s\n", ctx.Timestamp))

	if len(ctx.UserGoals) > 0 {
		b.WriteString(fmt.Sprintf("Goals: %s\n", strings.Join(ctx.UserGoals, ", ")))
	}
	if prefs := ctx.UserPreferences; prefs != nil {
		if prefs.FitnessLevel != "" {
			b.WriteString(fmt.Sprintf("Fitness level: %s\n", prefs.FitnessLevel))
		}
		if len(prefs.PreferredActivities) > 0 {
			b.WriteString(fmt.Sprintf("Preferred activities: %s\n", strings.Join(prefs.PreferredActivities, ", ")))
		}
		if len(prefs.HealthConditions) > 0 {
			b.WriteString(fmt.Sprintf("Health conditions: %s\n", strings.Join(prefs.HealthConditions, ", ")))
		}
	}

	b.WriteString(`
INSTRUCTIONS:
1. Identify the activity type
2. Estimate duration, intensity and calories
3. Provide insights relevant to the user's goals
4. Give actionable recommendations
5. Consider the user's health conditions in every suggestion
6. Assign descriptive tags to the activity`)

	return b.String()
}

const transcriptionInstruction = "Transcribe the attached audio recording verbatim. Return only the transcript text, with no commentary."

const quickClosing = "Keep the analysis quick but comprehensive."
