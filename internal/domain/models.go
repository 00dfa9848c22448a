package domain

// UploadedDocument is a contract file as received from the browser. It lives
// for a single request and is never written anywhere.
type UploadedDocument struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ContractText is the plain text extracted from an UploadedDocument.
type ContractText string

// SimplifiedClause pairs an original clause with a plain-language rewrite.
type SimplifiedClause struct {
	Original    string `json:"original"`
	Simplified  string `json:"simplified"`
	Explanation string `json:"explanation"`
}

// Risk is a single risky clause found by the model.
type Risk struct {
	Clause   string       `json:"clause"`
	RiskType string       `json:"risk_type"`
	Reason   string       `json:"reason"`
	Severity RiskSeverity `json:"severity"`
}

// Fairness is the model's overall balance assessment of a contract.
type Fairness struct {
	Score        float64 `json:"fairness_score"`
	FavoredParty string  `json:"favored_party"`
	Reason       string  `json:"reason"`
}

// Placeholder values used when the model omits fairness fields.
const (
	FairnessUnknownParty  = "N/A"
	FairnessUnknownReason = "Could not be determined."
)

// DefaultFairness is rendered when the fairness call returns no usable object.
func DefaultFairness() Fairness {
	return Fairness{Score: 0, FavoredParty: FairnessUnknownParty, Reason: FairnessUnknownReason}
}

// Analysis aggregates the three independent analyses of one contract.
type Analysis struct {
	FileName          string             `json:"fileName"`
	ContractText      ContractText       `json:"contractText,omitempty"`
	SimplifiedClauses []SimplifiedClause `json:"simplifiedClauses"`
	Risks             []Risk             `json:"risks"`
	Fairness          Fairness           `json:"fairness"`
}

// ChatQuestion is a follow-up question asked against a contract.
type ChatQuestion struct {
	ContractText string `json:"contractText"`
	UserQuestion string `json:"userQuestion"`
}

// ChatAnswer is the model's reply to a ChatQuestion.
type ChatAnswer struct {
	Advice    string `json:"advice"`
	Reasoning string `json:"reasoning"`
}

// Prompt is a fully built instruction plus the schema its answer must follow.
type Prompt struct {
	Task   Task
	Text   string
	Schema *Schema
}
