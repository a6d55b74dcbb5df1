package cluster

// StopWordsVersion identifies the stop word table below.
const StopWordsVersion = "2024.1"

// StopWords are excluded from keyword extraction. Only entries of three or
// more letters matter since shorter tokens are never keywords.
var StopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true, "not": true,
	"you": true, "all": true, "any": true, "can": true, "had": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "has": true, "his": true,
	"how": true, "its": true, "may": true, "new": true, "now": true, "see": true,
	"two": true, "who": true, "did": true, "get": true, "him": true, "she": true,
	"too": true, "use": true, "way": true, "own": true, "per": true, "via": true,
	"also": true, "been": true, "both": true, "each": true, "from": true,
	"have": true, "into": true, "just": true, "like": true, "more": true,
	"most": true, "must": true, "only": true, "other": true, "over": true,
	"same": true, "some": true, "such": true, "than": true, "that": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "those": true, "very": true, "what": true,
	"when": true, "where": true, "which": true, "while": true, "will": true,
	"with": true, "would": true, "about": true, "after": true, "before": true,
	"being": true, "between": true, "could": true, "during": true, "should": true,
	"through": true, "under": true, "until": true, "upon": true, "within": true,
	"without": true, "your": true, "does": true, "including": true, "used": true,
	"using": true, "include": true, "includes": true, "because": true,
}
