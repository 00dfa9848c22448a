// Package prompt builds the instructions sent to the model for each task,
// each paired with the schema its answer must follow.
package prompt

import (
	"strings"

	"contractlens/internal/domain"
)

const jsonOnly = `Return ONLY valid JSON that matches the provided response schema, with no markdown formatting, no code fences and no text before or after the JSON object.`

// Simplify builds the prompt asking for a clause-by-clause plain-language rewrite.
func Simplify(text domain.ContractText) domain.Prompt {
	var b strings.Builder
	b.WriteString(`You are a legal plain-language editor. Split the following contract into its individual clauses and simplify each one.

For every clause return:
- "original": the clause text as it appears in the contract
- "simplified": the same clause in plain language a non-lawyer understands
- "explanation": what the clause means in practice

Put the clauses in a "clauses" array in the order they appear.
`)
	b.WriteString(jsonOnly)
	writeContract(&b, text)
	return domain.Prompt{Task: domain.TaskSimplify, Text: b.String(), Schema: SimplifySchema()}
}

// Risks builds the prompt asking for risky clauses.
func Risks(text domain.ContractText) domain.Prompt {
	var b strings.Builder
	b.WriteString(`You are a contract risk analyst. Analyze the risks in the following contract for the person signing it.

For every risky clause return:
- "clause": the clause quoted from the contract
- "risk_type": a short label such as "Liability", "Termination", "Payment" or "Confidentiality"
- "reason": why it is risky
- "severity": exactly one of "Low", "Medium" or "High"

Put the findings in a "risks" array. Return an empty array if nothing is risky.
`)
	b.WriteString(jsonOnly)
	writeContract(&b, text)
	return domain.Prompt{Task: domain.TaskRisks, Text: b.String(), Schema: RisksSchema()}
}

// Fairness builds the prompt asking for an overall balance score.
func Fairness(text domain.ContractText) domain.Prompt {
	var b strings.Builder
	b.WriteString(`You are a neutral contract reviewer. Analyze the fairness of the following contract between its parties.

Return:
- "fairness_score": a number from 0 (entirely one-sided) to 10 (perfectly balanced)
- "favored_party": the party the contract favors, or "Neither"
- "reason": a short justification of the score
`)
	b.WriteString(jsonOnly)
	writeContract(&b, text)
	return domain.Prompt{Task: domain.TaskFairness, Text: b.String(), Schema: FairnessSchema()}
}

// Chat builds the prompt answering one follow-up question about a contract.
func Chat(text domain.ContractText, question string) domain.Prompt {
	var b strings.Builder
	b.WriteString(`You are a lawyer providing clear, concise and actionable advice.
Analyze the document and the user's question. Answer with a JSON object with exactly these fields:
- "advice": a short, direct answer to the question (1-2 sentences). Start with "Yes" or "No" if possible.
- "reasoning": a brief explanation for the advice based on the document's content (2-3 sentences).

Do not state or imply that you are an AI, a language model or an assistant. If the document is a standard form, explain its purpose simply in your reasoning.
`)
	b.WriteString(jsonOnly)
	writeContract(&b, text)
	b.WriteString("\n\nUser's question:\n\"\"\"\n")
	b.WriteString(question)
	b.WriteString("\n\"\"\"")
	return domain.Prompt{Task: domain.TaskChat, Text: b.String(), Schema: ChatSchema()}
}

func writeContract(b *strings.Builder, text domain.ContractText) {
	b.WriteString("\n\nContract text:\n\"\"\"\n")
	b.WriteString(string(text))
	b.WriteString("\n\"\"\"")
}
