package model

import "strings"

// Labels the analysis service is known to emit. The set is open: any other
// string is rendered with the default style.
const (
	LabelDisease    = "DISEASE"
	LabelMedication = "MEDICATION"
	LabelSymptom    = "SYMPTOM"
	LabelBodyPart   = "BODY_PART"
	LabelProcedure  = "PROCEDURE"
	LabelTest       = "TEST"
	LabelDosage     = "DOSAGE"
)

// LabelStyle is the visual treatment of one label
type LabelStyle struct {
	Color       string // hex color used for chips, list borders and terminal output
	Class       string // CSS modifier class
	Icon        string
	Description string
}

var labelStyles = map[string]LabelStyle{
	LabelDisease:    {Color: "#e74c3c", Class: "entity-disease", Icon: "🦠", Description: "Medical conditions and diseases"},
	LabelMedication: {Color: "#3498db", Class: "entity-medication", Icon: "💊", Description: "Drugs and medications"},
	LabelSymptom:    {Color: "#f39c12", Class: "entity-symptom", Icon: "🤒", Description: "Signs and symptoms"},
	LabelBodyPart:   {Color: "#9b59b6", Class: "entity-body-part", Icon: "🫀", Description: "Anatomical parts"},
	LabelProcedure:  {Color: "#1abc9c", Class: "entity-procedure", Icon: "🩺", Description: "Medical procedures"},
	LabelTest:       {Color: "#34495e", Class: "entity-test", Icon: "🧪", Description: "Medical tests and examinations"},
	LabelDosage:     {Color: "#27ae60", Class: "entity-dosage", Icon: "⚖️", Description: "Medication dosages and frequencies"},
}

// DefaultLabelStyle is used for any label outside the fixed table
var DefaultLabelStyle = LabelStyle{
	Color:       "#95a5a6",
	Class:       "entity-default",
	Icon:        "🏷️",
	Description: "Unrecognized entity type",
}

// KnownLabels lists the fixed table in display order
var KnownLabels = []string{
	LabelDisease,
	LabelMedication,
	LabelSymptom,
	LabelBodyPart,
	LabelProcedure,
	LabelTest,
	LabelDosage,
}

// StyleFor returns the style for label. It never fails; lookup ignores case
// and unknown labels get DefaultLabelStyle.
func StyleFor(label string) LabelStyle {
	if style, ok := labelStyles[strings.ToUpper(label)]; ok {
		return style
	}
	return DefaultLabelStyle
}

// IsKnownLabel reports whether label is in the fixed table
func IsKnownLabel(label string) bool {
	_, ok := labelStyles[strings.ToUpper(label)]
	return ok
}

// DisplayTitle turns a label tag into a group title (BODY_PART -> BODY PART)
func DisplayTitle(label string) string {
	return strings.ReplaceAll(label, "_", " ")
}
