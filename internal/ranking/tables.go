package ranking

// TaxonomyVersion identifies the keyword tables below. Bump it whenever a
// table changes so rankings from different versions are not compared.
const TaxonomyVersion = "nclex-cn-2023.1"

// ClientNeedsCategory is one exam-blueprint content category.
type ClientNeedsCategory struct {
	Key      string
	Name     string
	Weight   float64 // share of the exam, 0.09-0.20
	Keywords []string
}

// ClientNeeds lists the eight categories in tie-break order.
var ClientNeeds = []ClientNeedsCategory{
	{
		Key:    "management_of_care",
		Name:   "Management of Care",
		Weight: 0.20,
		Keywords: []string{
			"delegat", "prioritiz", "advocacy", "advance directive", "informed consent",
			"confidential", "case management", "referral", "supervision", "ethical",
			"legal", "continuity of care", "collaborat", "assignment", "scope of practice",
		},
	},
	{
		Key:    "safety_infection_control",
		Name:   "Safety and Infection Control",
		Weight: 0.12,
		Keywords: []string{
			"infection", "isolation", "hand hygiene", "standard precaution", "ppe",
			"fall", "restraint", "injury prevention", "hazard", "emergency response",
			"sterile", "asepsis", "error prevention", "safe use of equipment",
		},
	},
	{
		Key:    "health_promotion",
		Name:   "Health Promotion and Maintenance",
		Weight: 0.09,
		Keywords: []string{
			"screening", "immunization", "prenatal", "growth and development",
			"health promotion", "lifestyle", "aging", "newborn", "postpartum",
			"self-care", "health risk", "prevention",
		},
	},
	{
		Key:    "psychosocial_integrity",
		Name:   "Psychosocial Integrity",
		Weight: 0.09,
		Keywords: []string{
			"coping", "grief", "abuse", "neglect", "mental health", "therapeutic communication",
			"crisis", "substance", "anxiety", "depression", "cultural", "support system",
		},
	},
	{
		Key:    "basic_care_comfort",
		Name:   "Basic Care and Comfort",
		Weight: 0.09,
		Keywords: []string{
			"mobility", "nutrition", "hygiene", "elimination", "rest and sleep",
			"comfort", "non-pharmacological", "assistive device", "personal care", "immobility",
		},
	},
	{
		Key:    "pharmacological",
		Name:   "Pharmacological and Parenteral Therapies",
		Weight: 0.15,
		Keywords: []string{
			"medication", "dosage", "dose", "adverse effect", "side effect", "contraindicat",
			"intravenous", "blood product", "parenteral", "pharmacolog", "titrat",
			"drug interaction", "infusion", "insulin", "anticoagulant",
		},
	},
	{
		Key:    "reduction_of_risk",
		Name:   "Reduction of Risk Potential",
		Weight: 0.12,
		Keywords: []string{
			"lab value", "laboratory", "diagnostic test", "vital sign", "complication",
			"potential for alteration", "system specific assessment", "therapeutic procedure",
			"monitor", "changes in", "abnormal",
		},
	},
	{
		Key:    "physiological_adaptation",
		Name:   "Physiological Adaptation",
		Weight: 0.14,
		Keywords: []string{
			"fluid and electrolyte", "electrolyte", "hemodynamic", "medical emergenc",
			"pathophysiology", "illness management", "unexpected response", "respiratory",
			"cardiac", "renal", "neurolog", "acid-base",
		},
	},
}

// HighYieldIndicators are terms historically associated with frequently
// tested content.
var HighYieldIndicators = []string{
	"priority", "first action", "contraindicat", "adverse effect", "side effect",
	"early sign", "late sign", "normal range", "therapeutic range", "critical value",
	"teaching", "delegation", "expected finding", "report immediately", "complication",
	"assessment", "intervention", "lab value", "safety", "toxicity",
}

// SafetyCritical terms denote patient-safety hazards. Any hit forces the
// critical level.
var SafetyCritical = []string{
	"fall", "restraint", "medication error", "allergic reaction", "anaphylaxis",
	"hemorrhage", "airway", "suicide", "seizure precaution", "sepsis", "shock",
	"overdose", "cardiac arrest", "respiratory distress", "choking", "aspiration",
	"wrong patient", "hyperkalemia", "toxicity",
}

// Scoring constants.
const (
	categoryMultiplier   = 20.0
	unclassifiedBase     = 30.0
	highYieldPerHit      = 8.0
	clientNeedsShare     = 0.4
	highYieldShare       = 0.3
	safetyBonus          = 30.0
	titleHighYieldBonus  = 5.0
	maxScore             = 100.0
	maxMatchedIndicators = 10
)

// Level thresholds.
const (
	criticalThreshold = 80.0
	highThreshold     = 60.0
	mediumThreshold   = 40.0
)
