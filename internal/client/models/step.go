package models

// StepCount is the number of organizing steps in a complete plan.
const StepCount = 5

type OrganizingStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DefaultSteps is the plan shown when the model returns no usable steps.
func DefaultSteps() []OrganizingStep {
	return []OrganizingStep{
		{Title: "Define Functional Zones", Description: "Identify primary purposes for each surface area."},
		{Title: "Align and Rectify", Description: "Straighten objects to parallel the furniture lines."},
		{Title: "Fold and Stack", Description: "Gather loose fabrics into uniform compact shapes."},
		{Title: "Manage Visual Noise", Description: "Conceal cables behind larger structural pieces."},
		{Title: "Final Polish", Description: "Wipe surfaces to emphasize new clean lines."},
	}
}
