package analysis

import "pulselog/internal/gemini"

/* =================================================================================
						ACTIVITY RESULT SCHEMA
	The exact JSON structure the AI MUST output. Passed to the Gemini
	configuration to enforce structured generation, and re-checked by the
	invoker before any downstream code touches the result.
=================================================================================*/

func floatPtr(f float64) *float64 { return &f }

var confidenceSchema = &gemini.Schema{
	Type:        "NUMBER",
	Description: "Float 0.0 to 1.0. Lower it when the input is ambiguous or partial.",
	Minimum:     floatPtr(0),
	Maximum:     floatPtr(1),
}

var durationSchema = &gemini.Schema{
	Type: "OBJECT",
	Properties: map[string]*gemini.Schema{
		"value": {Type: "NUMBER", Description: "Duration magnitude"},
		"unit":  {Type: "STRING", Enum: []string{"seconds", "minutes", "hours"}},
	},
	Required: []string{"value", "unit"},
}

var quantitySchema = &gemini.Schema{
	Type: "OBJECT",
	Properties: map[string]*gemini.Schema{
		"amount": {Type: "NUMBER"},
		"unit":   {Type: "STRING", Description: "Unit of measure, e.g. g, ml, kg, lbs, km, pieces"},
	},
	Required: []string{"amount", "unit"},
}

var macrosSchema = &gemini.Schema{
	Type:        "OBJECT",
	Description: "Macronutrients in grams",
	Properties: map[string]*gemini.Schema{
		"protein": {Type: "NUMBER"},
		"carbs":   {Type: "NUMBER"},
		"fat":     {Type: "NUMBER"},
		"fiber":   {Type: "NUMBER"},
	},
}

var stringArray = &gemini.Schema{Type: "ARRAY", Items: &gemini.Schema{Type: "STRING"}}

// ActivitySchema describes HealthActivityResult for controlled generation.
var ActivitySchema = &gemini.Schema{
	Type: "OBJECT",
	Properties: map[string]*gemini.Schema{
		"activityType": {
			Type:        "STRING",
			Description: "The single best classification of the logged event.",
			Enum:        ActivityTypes,
		},
		"subCategory": {
			Type:        "STRING",
			Description: "Optional finer classification, e.g. 'trail running' or 'breakfast'.",
		},
		"duration":  durationSchema,
		"intensity": {Type: "STRING", Enum: []string{"low", "moderate", "high", "very_high"}},
		"calories": {
			Type:        "OBJECT",
			Description: "Estimated energy in/out for the event.",
			Properties: map[string]*gemini.Schema{
				"estimated":  {Type: "NUMBER", Description: "Kilocalories"},
				"confidence": confidenceSchema,
			},
			Required: []string{"estimated", "confidence"},
		},
		"foodItems": {
			Type:        "ARRAY",
			Description: "Every distinguishable food item when the event is a meal or snack. Return [] otherwise.",
			Items: &gemini.Schema{
				Type: "OBJECT",
				Properties: map[string]*gemini.Schema{
					"id":         {Type: "STRING", Description: "Short stable identifier; may be empty."},
					"name":       {Type: "STRING"},
					"quantity":   quantitySchema,
					"calories":   {Type: "NUMBER"},
					"macros":     macrosSchema,
					"confidence": confidenceSchema,
				},
				Required: []string{"name", "confidence"},
			},
		},
		"exerciseSets": {
			Type:        "ARRAY",
			Description: "Every distinguishable exercise when the event is a workout. Return [] otherwise.",
			Items: &gemini.Schema{
				Type: "OBJECT",
				Properties: map[string]*gemini.Schema{
					"id":         {Type: "STRING", Description: "Short stable identifier; may be empty."},
					"name":       {Type: "STRING"},
					"sets":       {Type: "INTEGER"},
					"reps":       {Type: "INTEGER"},
					"weight":     quantitySchema,
					"duration":   durationSchema,
					"distance":   quantitySchema,
					"calories":   {Type: "NUMBER"},
					"confidence": confidenceSchema,
				},
				Required: []string{"name", "confidence"},
			},
		},
		"insights": {
			Type:        "OBJECT",
			Description: "Coaching observations grounded in the input.",
			Properties: map[string]*gemini.Schema{
				"muscleGroups": stringArray,
				"equipment":    stringArray,
				"technique":    stringArray,
				"improvements": stringArray,
				"warnings":     stringArray,
			},
		},
		"nutritionalInfo": {
			Type: "OBJECT",
			Properties: map[string]*gemini.Schema{
				"macros": macrosSchema,
				"micronutrients": {
					Type:        "ARRAY",
					Description: "Notable micronutrients in the meal.",
					Items: &gemini.Schema{
						Type: "OBJECT",
						Properties: map[string]*gemini.Schema{
							"name":   {Type: "STRING", Description: "Micronutrient name, e.g. iron, vitamin_c"},
							"amount": {Type: "NUMBER", Description: "Milligrams"},
						},
						Required: []string{"name", "amount"},
					},
				},
				"healthScore": {
					Type:        "NUMBER",
					Description: "Overall nutritional quality 0-10.",
					Minimum:     floatPtr(0),
					Maximum:     floatPtr(10),
				},
			},
		},
		"timestamp":  {Type: "STRING", Description: "ISO 8601 timestamp of the event."},
		"confidence": confidenceSchema,
		"tags": {
			Type:        "ARRAY",
			Description: "Descriptive lowercase tags for the activity.",
			Items:       &gemini.Schema{Type: "STRING"},
		},
		"notes": {Type: "STRING", Description: "Free-text observations that fit nowhere else."},
	},
	Required: []string{"activityType", "timestamp", "confidence", "tags"},
}
