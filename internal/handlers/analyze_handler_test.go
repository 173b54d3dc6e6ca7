package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/models"
)

type fakeAnalysis struct {
	result *models.AnalysisResult
	err    error

	question string
	pages    int
	limit    int
}

func (f *fakeAnalysis) Analyze(ctx context.Context, question string, pages, limit int) (*models.AnalysisResult, error) {
	f.question = question
	f.pages = pages
	f.limit = limit
	return f.result, f.err
}

func (f *fakeAnalysis) NewsSummary(ctx context.Context, question string, pages, limit int) (*models.AnalysisResult, error) {
	f.question = question
	f.pages = pages
	f.limit = limit
	return f.result, f.err
}

func (f *fakeAnalysis) AnalyzeFinancialData(ctx context.Context, req interfaces.FinancialDataRequest) (*models.AnalysisResult, error) {
	return f.result, f.err
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	analysis := &fakeAnalysis{result: &models.AnalysisResult{
		Question: "台積電財報如何？",
		Intent:   &models.Intent{StockID: "2330", Resource: models.ResourceBoth},
		Summary:  "分析結果",
	}}
	handler := NewAnalyzeHandler(analysis, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/analyze?question=台積電財報如何？&pages=2&limit=3", nil)
	rec := httptest.NewRecorder()

	handler.AnalyzeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "台積電財報如何？", analysis.question)
	assert.Equal(t, 2, analysis.pages)
	assert.Equal(t, 3, analysis.limit)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "分析結果", body["final_summary"])
	require.NotNil(t, body["semantic_parse"])
}

func TestAnalyzeHandlerMissingQuestion(t *testing.T) {
	handler := NewAnalyzeHandler(&fakeAnalysis{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()

	handler.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandlerMethodNotAllowed(t *testing.T) {
	handler := NewAnalyzeHandler(&fakeAnalysis{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/analyze?question=q", nil)
	rec := httptest.NewRecorder()

	handler.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnalyzeHandlerParseError(t *testing.T) {
	analysis := &fakeAnalysis{err: &models.ParseError{Raw: "我不懂", Err: errors.New("bad json")}}
	handler := NewAnalyzeHandler(analysis, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/analyze?question=亂問", nil)
	rec := httptest.NewRecorder()

	handler.AnalyzeHandler(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "我不懂", body["raw"])
}

func TestAnalyzeHandlerInternalError(t *testing.T) {
	analysis := &fakeAnalysis{err: errors.New("news fetch failed: timeout")}
	handler := NewAnalyzeHandler(analysis, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/analyze?question=台積電", nil)
	rec := httptest.NewRecorder()

	handler.AnalyzeHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewsSummaryHandlerDefaults(t *testing.T) {
	analysis := &fakeAnalysis{result: &models.AnalysisResult{Summary: "摘要"}}
	handler := NewAnalyzeHandler(analysis, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/analyze/news?question=長榮新聞", nil)
	rec := httptest.NewRecorder()

	handler.NewsSummaryHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, analysis.pages, "pages defaults to 1")
	assert.Equal(t, 0, analysis.limit, "limit defaults to the configured cap")
}
