package pacing

// Action is a content-editing adjustment.
type Action string

const (
	ActionAddExample       Action = "add_example"
	ActionAddContext       Action = "add_context"
	ActionAddConnection    Action = "add_connection"
	ActionElaborate        Action = "elaborate"
	ActionRemoveRedundancy Action = "remove_redundancy"
	ActionSimplify         Action = "simplify"
	ActionMoveToHandout    Action = "move_to_handout"
)

// Suggestion is a ranked adjustment with its estimated word impact.
type Suggestion struct {
	Action      Action `json:"action"`
	Description string `json:"description"`
	WordImpact  int    `json:"word_impact"`
}

var menu = map[Action]Suggestion{
	ActionAddExample:       {ActionAddExample, "Add a clinical example or scenario", 30},
	ActionAddContext:       {ActionAddContext, "Add background context for the concept", 25},
	ActionAddConnection:    {ActionAddConnection, "Connect the concept to a prior slide", 20},
	ActionElaborate:        {ActionElaborate, "Elaborate on the key mechanism", 40},
	ActionRemoveRedundancy: {ActionRemoveRedundancy, "Remove repeated points", -25},
	ActionSimplify:         {ActionSimplify, "Simplify wording and shorten sentences", -20},
	ActionMoveToHandout:    {ActionMoveToHandout, "Move detail to a handout", -40},
}

// Deviation thresholds that escalate the suggestion list.
const (
	escalateWords = 30
	severeWords   = 50
)

// Suggest returns adjustments for a word count against band. Deviation is
// measured from the band target. A count inside the band yields nothing.
func Suggest(words int, band Band) []Suggestion {
	switch Classify(words, band) {
	case StatusUnder:
		deficit := band.Target - words
		out := []Suggestion{menu[ActionAddExample]}
		if deficit > escalateWords {
			out = append(out, menu[ActionAddContext])
		}
		if deficit > severeWords {
			out = append(out, menu[ActionAddConnection], menu[ActionElaborate])
		}
		return out
	case StatusOver:
		excess := words - band.Target
		out := []Suggestion{menu[ActionRemoveRedundancy]}
		if excess > escalateWords {
			out = append(out, menu[ActionSimplify])
		}
		if excess > severeWords {
			out = append(out, menu[ActionMoveToHandout])
		}
		return out
	default:
		return nil
	}
}
