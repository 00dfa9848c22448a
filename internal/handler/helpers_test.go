package handler_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"contractlens/internal/domain"
	"contractlens/internal/handler"
	"contractlens/internal/router"
	"contractlens/internal/service"
)

const testMaxFileSizeMB = 1

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, analysisSvc service.AnalysisService, chatSvc service.ChatService, apiKeyConfigured bool) *gin.Engine {
	t.Helper()
	r, err := router.Setup(
		router.Options{
			AllowedOrigins: []string{"http://localhost:3001"},
			MaxUploadBytes: testMaxFileSizeMB * 1024 * 1024,
		},
		handler.NewPageHandler(analysisSvc, testMaxFileSizeMB),
		handler.NewChatHandler(chatSvc),
		handler.NewExportHandler(),
		handler.NewHealthHandler(apiKeyConfigured),
	)
	require.NoError(t, err)
	return r
}

// uploadRequest builds a multipart POST /analyze with one file part. An empty
// contentType leaves the part's Content-Type header out entirely.
func uploadRequest(t *testing.T, field, fileName, contentType string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, fileName))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// buildDocx returns a minimal DOCX whose body holds one paragraph per entry.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var doc bytes.Buffer
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		fmt.Fprintf(&doc, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, html.EscapeString(p))
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write(doc.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

var embeddedContractText = regexp.MustCompile(`(?s)<script id="contract-text" type="application/json">(.*?)</script>`)

// dashboardContractText decodes the contract text the dashboard hands to the
// chat script.
func dashboardContractText(t *testing.T, body string) string {
	t.Helper()
	m := embeddedContractText.FindStringSubmatch(body)
	require.Len(t, m, 2, "dashboard has no contract-text block")
	var text string
	require.NoError(t, json.Unmarshal([]byte(m[1]), &text))
	return text
}

var embeddedAnalysis = regexp.MustCompile(`name="analysis" value="([^"]*)"`)

// dashboardAnalysis pulls the analysis JSON the dashboard embeds for export.
func dashboardAnalysis(t *testing.T, body string) string {
	t.Helper()
	m := embeddedAnalysis.FindStringSubmatch(body)
	require.Len(t, m, 2, "dashboard has no embedded analysis")
	return html.UnescapeString(m[1])
}

func sampleAnalysis() *domain.Analysis {
	return &domain.Analysis{
		FileName:     "lease.docx",
		ContractText: "1. Rent is due monthly.",
		SimplifiedClauses: []domain.SimplifiedClause{
			{Original: "Rent is due monthly.", Simplified: "Pay every month.", Explanation: "Monthly rent."},
		},
		Risks: []domain.Risk{
			{Clause: "Landlord may terminate.", RiskType: "Termination", Reason: "One-sided", Severity: domain.SeverityHigh},
		},
		Fairness: domain.Fairness{Score: 4, FavoredParty: "Landlord", Reason: "Termination is one-sided."},
	}
}
