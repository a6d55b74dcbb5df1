package deps

// Content category keyword sets. Membership is independent; an anchor may
// fall into several categories.
var (
	FoundationalKeywords = []string{
		"introduction", "intro to", "basic", "fundamental", "overview", "principle",
		"anatomy", "physiology", "definition", "foundation", "normal",
	}
	AdvancedKeywords = []string{
		"advanced", "complex", "complication", "critical", "emergency", "multiple",
		"synthesis", "integrat", "comprehensive", "refinement",
	}
	AssessmentKeywords = []string{
		"assessment", "assess", "monitor", "sign", "symptom", "diagnos",
		"lab value", "finding", "evaluat", "screening",
	}
	InterventionKeywords = []string{
		"intervention", "treatment", "therapy", "administer", "medication",
		"procedure", "nursing action", "care plan", "manage", "technique",
	}
)

// Category is a content category.
type Category string

const (
	CategoryFoundational Category = "foundational"
	CategoryAdvanced     Category = "advanced"
	CategoryAssessment   Category = "assessment"
	CategoryIntervention Category = "intervention"
	CategoryOther        Category = "other"
)

// Categories lists categories in reporting order.
var Categories = []Category{
	CategoryFoundational, CategoryAdvanced, CategoryAssessment, CategoryIntervention, CategoryOther,
}

// Edge rule constants.
const (
	foundationalConfidence = 0.6
	assessmentConfidence   = 0.7
	topicChainConfidence   = 0.5

	complexityBase         = 50
	complexityFoundational = -20
	complexityAdvanced     = 20
	topicTokenMinLen       = 4 // first title word longer than 3 chars
)
