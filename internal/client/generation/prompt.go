package generation

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ordo/internal/client/models"
)

const stepsContract = `Task 2: Generate exactly 5 actionable organizing steps:
- Each step must reference specific visible items, surfaces, or areas from the image.
- Use a calm, human, minimal tone.
- title: short phrase (max 4 words)
- description: 1-2 concise sentences (max 12 words)
- Steps must be sequential.

Return the steps as JSON in this exact shape:
{
  "steps": [
    { "title": "Step 1 title", "description": "Step 1 description" },
    { "title": "Step 2 title", "description": "Step 2 description" },
    { "title": "Step 3 title", "description": "Step 3 description" },
    { "title": "Step 4 title", "description": "Step 4 description" },
    { "title": "Step 5 title", "description": "Step 5 description" }
  ]
}`

// transformInstruction builds the text sent alongside the photo.
func transformInstruction(style models.OrganizingStyle) string {
	var b strings.Builder

	b.WriteString("You are a world-class professional organizer and interior designer.\n\n")
	b.WriteString("Input: a BEFORE photo of a real space (desk, room, or shelf).\n")
	fmt.Fprintf(&b, "Style selected: %s.\n\n", style)

	b.WriteString("Task 1: Generate a high-fidelity AFTER image of the same space.\n")
	b.WriteString("- Keep all furniture and major items in place.\n")
	fmt.Fprintf(&b, "- Style '%s': %s\n", style, style.Directive())
	b.WriteString("- Deeply declutter: fold, stack, group, or store loose items.\n")
	b.WriteString("- Hide cables, small objects, and visual noise.\n")
	b.WriteString("- Maintain negative space and clean surfaces.\n")
	b.WriteString("- Preserve realism: same perspective, furniture, walls, and natural lighting.\n\n")

	b.WriteString(stepsContract)
	return b.String()
}

// imagineInstruction builds the text for a dream space.
func imagineInstruction(prompt string) string {
	return "Generate a photorealistic image of a calm, beautifully organized space.\n" +
		"Description: " + strings.TrimSpace(prompt) + "\n" +
		"Natural lighting, realistic perspective, clean surfaces, no text or people."
}
