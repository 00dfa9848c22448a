package prompt

import "contractlens/internal/domain"

func str(desc string) *domain.Schema {
	return &domain.Schema{Type: domain.TypeString, Description: desc}
}

func object(order []string, props map[string]*domain.Schema) *domain.Schema {
	return &domain.Schema{
		Type:             domain.TypeObject,
		Properties:       props,
		PropertyOrdering: order,
		Required:         order,
	}
}

// SimplifySchema is the response shape for the simplify task.
func SimplifySchema() *domain.Schema {
	clause := object(
		[]string{"original", "simplified", "explanation"},
		map[string]*domain.Schema{
			"original":    str("The clause text exactly as it appears in the contract."),
			"simplified":  str("The clause rewritten in plain, everyday language."),
			"explanation": str("What the clause means in practice for the reader."),
		},
	)
	return object(
		[]string{"clauses"},
		map[string]*domain.Schema{
			"clauses": {Type: domain.TypeArray, Items: clause},
		},
	)
}

// RisksSchema is the response shape for the risk task.
func RisksSchema() *domain.Schema {
	severities := make([]string, len(domain.Severities))
	for i, s := range domain.Severities {
		severities[i] = string(s)
	}
	risk := object(
		[]string{"clause", "risk_type", "reason", "severity"},
		map[string]*domain.Schema{
			"clause":    str("The risky clause quoted from the contract."),
			"risk_type": str("A short label for the kind of risk."),
			"reason":    str("Why the clause is risky for the reader."),
			"severity":  {Type: domain.TypeString, Enum: severities},
		},
	)
	return object(
		[]string{"risks"},
		map[string]*domain.Schema{
			"risks": {Type: domain.TypeArray, Items: risk},
		},
	)
}

// FairnessSchema is the response shape for the fairness task.
func FairnessSchema() *domain.Schema {
	return object(
		[]string{"fairness_score", "favored_party", "reason"},
		map[string]*domain.Schema{
			"fairness_score": {Type: domain.TypeNumber, Description: "0 is entirely one-sided, 10 is perfectly balanced."},
			"favored_party":  str("The party the contract favors, or \"Neither\"."),
			"reason":         str("A short justification of the score."),
		},
	)
}

// ChatSchema is the response shape for follow-up questions.
func ChatSchema() *domain.Schema {
	return object(
		[]string{"advice", "reasoning"},
		map[string]*domain.Schema{
			"advice":    str("A short, direct answer to the question."),
			"reasoning": str("A brief explanation grounded in the contract."),
		},
	)
}
