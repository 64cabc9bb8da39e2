package gemini

/* =================================================================================
							GEMINI SCHEMA DEFINITION
	This is the structure that tells Gemini how to format its JSON response
=================================================================================*/

// Schema defines the structure for "Controlled Generation" (Structured Output).
// It mirrors the generateContent responseSchema wire format.
type Schema struct {
	// Type defines the data type ("OBJECT", "ARRAY", "STRING", "NUMBER",
	// "INTEGER", "BOOLEAN").
	Type string `json:"type"`

	// Description explains the field's purpose to the AI, helping it generate
	// better content.
	Description string `json:"description,omitempty"`

	// Properties maps field names to their child schemas (used when Type is
	// "OBJECT"). A pointer allows recursive structures.
	Properties map[string]*Schema `json:"properties,omitempty"`

	// Items defines the schema for elements within an array (used when Type
	// is "ARRAY").
	Items *Schema `json:"items,omitempty"`

	// Required lists the field names that the AI MUST include in the response.
	Required []string `json:"required,omitempty"`

	// Enum lists valid specific string values for fields with restricted
	// options.
	Enum []string `json:"enum,omitempty"`

	// Minimum and Maximum bound numeric fields when set.
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
}
