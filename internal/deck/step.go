package deck

import "strings"

// WorkflowStep is one of the four ordered pipeline stages presented to the
// user. The canonical order outline < descriptions < images < export is fixed
// and drives default-navigation decisions.
type WorkflowStep int

const (
	StepOutline WorkflowStep = iota
	StepDescriptions
	StepImages
	StepExport
)

var stepNames = map[WorkflowStep]string{
	StepOutline:      "outline",
	StepDescriptions: "descriptions",
	StepImages:       "images",
	StepExport:       "export",
}

// Steps returns every workflow step in canonical order.
func Steps() []WorkflowStep {
	return []WorkflowStep{StepOutline, StepDescriptions, StepImages, StepExport}
}

// ParseStep converts a step name into a WorkflowStep.
func ParseStep(value string) (WorkflowStep, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for step, name := range stepNames {
		if name == normalized {
			return step, true
		}
	}
	return StepOutline, false
}

func (s WorkflowStep) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Next returns the following step in canonical order. The last step returns
// itself.
func (s WorkflowStep) Next() WorkflowStep {
	if s >= StepExport {
		return StepExport
	}
	return s + 1
}

// Before reports whether s precedes other in canonical order.
func (s WorkflowStep) Before(other WorkflowStep) bool {
	return s < other
}
