package generation

import (
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/ordo/internal/client/models"
)

// ExtractSteps pulls the {"steps":[...]} object out of free text. The object
// spans from the first '{' to the last '}'. Anything unparsable, or a plan
// that is not exactly StepCount long, yields nil.
func ExtractSteps(text string) []models.OrganizingStep {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}

	var payload struct {
		Steps []models.OrganizingStep `json:"steps"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil
	}
	if len(payload.Steps) != models.StepCount {
		return nil
	}
	for _, s := range payload.Steps {
		if strings.TrimSpace(s.Title) == "" {
			return nil
		}
	}
	return payload.Steps
}
