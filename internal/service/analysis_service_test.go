package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contractlens/internal/domain"
	"contractlens/internal/llm"
	"contractlens/internal/port"
	"contractlens/internal/service"
	"contractlens/mocks"
)

const leaseText = domain.ContractText("1. The Tenant shall pay rent monthly.\n\n2. The Landlord may terminate at any time.")

func testDocument() domain.UploadedDocument {
	return domain.UploadedDocument{
		FileName:    "lease.pdf",
		ContentType: domain.ContentTypePDF,
		Content:     []byte("%PDF-1.4 fake"),
	}
}

func forTask(task domain.Task) interface{} {
	return mock.MatchedBy(func(p domain.Prompt) bool { return p.Task == task })
}

func output(payload string) *port.GenerateOutput {
	return &port.GenerateOutput{Payload: json.RawMessage(payload), ModelUsed: "test-model"}
}

func setup() (service.AnalysisService, *mocks.MockDocumentExtractor, *mocks.MockLLMClient) {
	extractor := new(mocks.MockDocumentExtractor)
	llmClient := new(mocks.MockLLMClient)
	return service.NewAnalysisService(extractor, llmClient), extractor, llmClient
}

func TestAnalysisService_Analyze_Success(t *testing.T) {
	svc, extractor, llmClient := setup()
	doc := testDocument()

	extractor.On("Extract", mock.Anything, doc).Return(leaseText, nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskSimplify)).
		Return(output(`{"clauses":[{"original":"The Tenant shall pay rent monthly.","simplified":"Pay rent every month.","explanation":"Rent is due monthly."}]}`), nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskRisks)).
		Return(output(`{"risks":[{"clause":"The Landlord may terminate at any time.","risk_type":"Termination","reason":"One-sided.","severity":"High"}]}`), nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskFairness)).
		Return(output(`{"fairness_score":3.5,"favored_party":"Landlord","reason":"Termination is one-sided."}`), nil)

	result, err := svc.Analyze(context.Background(), doc)

	require.NoError(t, err)
	assert.Equal(t, "lease.pdf", result.FileName)
	assert.Equal(t, leaseText, result.ContractText)
	assert.Equal(t, []domain.SimplifiedClause{{
		Original:    "The Tenant shall pay rent monthly.",
		Simplified:  "Pay rent every month.",
		Explanation: "Rent is due monthly.",
	}}, result.SimplifiedClauses)
	assert.Equal(t, []domain.Risk{{
		Clause:   "The Landlord may terminate at any time.",
		RiskType: "Termination",
		Reason:   "One-sided.",
		Severity: domain.SeverityHigh,
	}}, result.Risks)
	assert.Equal(t, domain.Fairness{Score: 3.5, FavoredParty: "Landlord", Reason: "Termination is one-sided."}, result.Fairness)

	extractor.AssertExpectations(t)
	llmClient.AssertExpectations(t)
	llmClient.AssertNumberOfCalls(t, "Generate", 3)
}

func TestAnalysisService_Analyze_SameTextInEveryPrompt(t *testing.T) {
	svc, extractor, llmClient := setup()

	var (
		mu      sync.Mutex
		prompts []domain.Prompt
	)
	record := func(args mock.Arguments) {
		mu.Lock()
		defer mu.Unlock()
		prompts = append(prompts, args.Get(1).(domain.Prompt))
	}

	extractor.On("Extract", mock.Anything, mock.Anything).Return(leaseText, nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskSimplify)).Run(record).Return(output(`{"clauses":[]}`), nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskRisks)).Run(record).Return(output(`{"risks":[]}`), nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskFairness)).Run(record).Return(output(`{"fairness_score":5,"favored_party":"Neither","reason":"Balanced."}`), nil)

	_, err := svc.Analyze(context.Background(), testDocument())
	require.NoError(t, err)

	require.Len(t, prompts, 3)
	for _, p := range prompts {
		assert.True(t, strings.Contains(p.Text, string(leaseText)), "prompt %s is missing the contract text", p.Task)
		assert.NotNil(t, p.Schema)
	}
}

func TestAnalysisService_Analyze_ExtractionFailureSkipsModel(t *testing.T) {
	svc, extractor, llmClient := setup()
	extractor.On("Extract", mock.Anything, mock.Anything).Return(domain.ContractText(""), domain.ErrUnsupportedFileType)

	result, err := svc.Analyze(context.Background(), testDocument())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	llmClient.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAnalysisService_Analyze_AnySingleFailureFailsAll(t *testing.T) {
	tasks := []domain.Task{domain.TaskSimplify, domain.TaskRisks, domain.TaskFairness}
	payloads := map[domain.Task]string{
		domain.TaskSimplify: `{"clauses":[]}`,
		domain.TaskRisks:    `{"risks":[]}`,
		domain.TaskFairness: `{"fairness_score":5,"favored_party":"Neither","reason":"Balanced."}`,
	}

	for _, failing := range tasks {
		t.Run(string(failing), func(t *testing.T) {
			svc, extractor, llmClient := setup()
			extractor.On("Extract", mock.Anything, mock.Anything).Return(leaseText, nil)

			apiErr := &llm.APIError{Provider: "gemini", StatusCode: 503, Message: "The model is overloaded."}
			for _, task := range tasks {
				if task == failing {
					llmClient.On("Generate", mock.Anything, forTask(task)).Return(nil, apiErr)
					continue
				}
				llmClient.On("Generate", mock.Anything, forTask(task)).Return(output(payloads[task]), nil).Maybe()
			}

			result, err := svc.Analyze(context.Background(), testDocument())

			assert.Nil(t, result)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRemoteAPI)
			assert.Equal(t, "API call failed: The model is overloaded.", err.Error())
		})
	}
}

func TestAnalysisService_Analyze_MissingListsDefaultToEmpty(t *testing.T) {
	svc, extractor, llmClient := setup()
	extractor.On("Extract", mock.Anything, mock.Anything).Return(leaseText, nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskSimplify)).Return(output(`{}`), nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskRisks)).Return(output(`{"risks":null}`), nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskFairness)).Return(output(`{"fairness_score":7,"favored_party":"Tenant","reason":"r"}`), nil)

	result, err := svc.Analyze(context.Background(), testDocument())

	require.NoError(t, err)
	assert.NotNil(t, result.SimplifiedClauses)
	assert.Empty(t, result.SimplifiedClauses)
	assert.NotNil(t, result.Risks)
	assert.Empty(t, result.Risks)
}

func TestAnalysisService_Analyze_FairnessDefaults(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected domain.Fairness
	}{
		{
			name:     "null payload",
			payload:  `null`,
			expected: domain.DefaultFairness(),
		},
		{
			name:     "empty object",
			payload:  `{}`,
			expected: domain.Fairness{Score: 0, FavoredParty: "N/A", Reason: "Could not be determined."},
		},
		{
			name:     "score only",
			payload:  `{"fairness_score":8}`,
			expected: domain.Fairness{Score: 8, FavoredParty: "N/A", Reason: "Could not be determined."},
		},
		{
			name:     "blank strings",
			payload:  `{"fairness_score":4,"favored_party":" ","reason":""}`,
			expected: domain.Fairness{Score: 4, FavoredParty: "N/A", Reason: "Could not be determined."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, extractor, llmClient := setup()
			extractor.On("Extract", mock.Anything, mock.Anything).Return(leaseText, nil)
			llmClient.On("Generate", mock.Anything, forTask(domain.TaskSimplify)).Return(output(`{"clauses":[]}`), nil)
			llmClient.On("Generate", mock.Anything, forTask(domain.TaskRisks)).Return(output(`{"risks":[]}`), nil)
			llmClient.On("Generate", mock.Anything, forTask(domain.TaskFairness)).Return(output(tt.payload), nil)

			result, err := svc.Analyze(context.Background(), testDocument())

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Fairness)
		})
	}
}

func TestAnalysisService_Analyze_TypeMismatchIsParseError(t *testing.T) {
	svc, extractor, llmClient := setup()
	extractor.On("Extract", mock.Anything, mock.Anything).Return(leaseText, nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskSimplify)).Return(output(`{"clauses":"none"}`), nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskRisks)).Return(output(`{"risks":[]}`), nil).Maybe()
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskFairness)).Return(output(`{}`), nil).Maybe()

	_, err := svc.Analyze(context.Background(), testDocument())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResponseParse))
}

func TestAnalysisService_Analyze_NormalizesSeverity(t *testing.T) {
	svc, extractor, llmClient := setup()
	extractor.On("Extract", mock.Anything, mock.Anything).Return(leaseText, nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskSimplify)).Return(output(`{"clauses":[]}`), nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskRisks)).
		Return(output(`{"risks":[{"clause":"a","risk_type":"t","reason":"r","severity":"medium"},{"clause":"b","risk_type":"t","reason":"r","severity":"Critical"}]}`), nil)
	llmClient.On("Generate", mock.Anything, forTask(domain.TaskFairness)).Return(output(`{}`), nil)

	result, err := svc.Analyze(context.Background(), testDocument())

	require.NoError(t, err)
	require.Len(t, result.Risks, 2)
	assert.Equal(t, domain.SeverityMedium, result.Risks[0].Severity)
	assert.Equal(t, domain.RiskSeverity("Critical"), result.Risks[1].Severity)
}
