package domain

// Task identifies which analysis a prompt asks the model to perform.
type Task string

const (
	TaskSimplify Task = "simplify"
	TaskRisks    Task = "risks"
	TaskFairness Task = "fairness"
	TaskChat     Task = "chat"
)

// Content types accepted for upload.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AllowedContentTypes maps accepted MIME content types to a short format name.
var AllowedContentTypes = map[string]string{
	ContentTypePDF:  "pdf",
	ContentTypeDOCX: "docx",
}

// RiskSeverity grades a single risk finding.
type RiskSeverity string

const (
	SeverityLow    RiskSeverity = "Low"
	SeverityMedium RiskSeverity = "Medium"
	SeverityHigh   RiskSeverity = "High"
)

// Severities lists the severity values the model is asked to choose from.
var Severities = []RiskSeverity{SeverityLow, SeverityMedium, SeverityHigh}
