package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/common"
	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/models"
)

type fakeIntent struct {
	intent *models.Intent
	err    error
}

func (f *fakeIntent) Parse(ctx context.Context, question string) (*models.Intent, error) {
	return f.intent, f.err
}

type fakeNews struct {
	articles []models.Article
	err      error
	calls    int
	keyword  string
}

func (f *fakeNews) FetchNews(ctx context.Context, keyword string, pages int) ([]models.Article, error) {
	f.calls++
	f.keyword = keyword
	return f.articles, f.err
}

type fakeFilings struct {
	results map[string]models.TableSet
	err     error
	calls   int

	stockIDs []string
	years    []int
	seasons  []int
}

func (f *fakeFilings) FetchFilings(ctx context.Context, stockIDs []string, years, seasons []int) (map[string]models.TableSet, error) {
	f.calls++
	f.stockIDs = stockIDs
	f.years = years
	f.seasons = seasons
	return f.results, f.err
}

type fakeLLM struct {
	response string
	err      error
	calls    int

	lastMessages []interfaces.Message
	lastOpts     *interfaces.ChatOptions
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message, opts *interfaces.ChatOptions) (string, error) {
	f.calls++
	f.lastMessages = messages
	f.lastOpts = opts
	return f.response, f.err
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                          { return nil }

func sampleArticles() []models.Article {
	return []models.Article{
		{Title: "法說會展望樂觀", Link: "https://example.com/1", Date: "2025-08-10", Content: "內文一"},
		{Title: "營收創新高", Link: "https://example.com/2", Date: "2025-08-12", Content: "內文二"},
	}
}

func sampleFilings() map[string]models.TableSet {
	return map[string]models.TableSet{
		"2330_2024Q1": {{TableIndex: 0, Data: []map[string]string{{"金額": "100"}}}},
	}
}

func newTestService(intent interfaces.IntentService, news *fakeNews, filings *fakeFilings, llm *fakeLLM) *Service {
	return NewService(common.DefaultConfig(), arbor.NewLogger(), intent, news, filings, llm)
}

func TestAnalyzeBothSources(t *testing.T) {
	intent := &fakeIntent{intent: &models.Intent{
		Company: "台積電", StockID: "2330", Topic: "財報",
		Resource: models.ResourceBoth, Year: 2024, Season: 1,
	}}
	news := &fakeNews{articles: sampleArticles()}
	filings := &fakeFilings{results: sampleFilings()}
	llm := &fakeLLM{response: "綜合分析結果"}

	service := newTestService(intent, news, filings, llm)

	result, err := service.Analyze(context.Background(), "台積電2024Q1財報如何？", 1, 0)
	require.NoError(t, err)

	assert.Equal(t, "台積電2024Q1財報如何？", result.Question)
	assert.Equal(t, "2330", result.Intent.StockID)
	assert.Equal(t, "綜合分析結果", result.Summary)
	assert.Equal(t, 2, result.ArticlesUsed)
	assert.Len(t, result.Filings, 1)

	// Both sources consulted, keyword derived from company+topic
	assert.Equal(t, 1, news.calls)
	assert.Equal(t, "台積電財報", news.keyword)
	assert.Equal(t, 1, filings.calls)
	assert.Equal(t, []string{"2330"}, filings.stockIDs)
	assert.Equal(t, []int{2024}, filings.years)
	assert.Equal(t, []int{1}, filings.seasons)

	// Synthesis runs at moderate temperature with both evidence sections
	require.NotNil(t, llm.lastOpts)
	assert.InDelta(t, 0.5, llm.lastOpts.Temperature, 0.001)
	require.Len(t, llm.lastMessages, 2)
	assert.Equal(t, "system", llm.lastMessages[0].Role)
	assert.Contains(t, llm.lastMessages[1].Content, "【第 1 篇】")
	assert.Contains(t, llm.lastMessages[1].Content, "2330_2024Q1")
}

func TestAnalyzeNewsOnlySkipsFilings(t *testing.T) {
	intent := &fakeIntent{intent: &models.Intent{
		Company: "長榮", StockID: "2603", Resource: models.ResourceNews,
	}}
	news := &fakeNews{articles: sampleArticles()}
	filings := &fakeFilings{}
	llm := &fakeLLM{response: "新聞分析"}

	service := newTestService(intent, news, filings, llm)

	result, err := service.Analyze(context.Background(), "長榮最近怎麼樣？", 1, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, filings.calls)
	assert.Equal(t, 1, news.calls)
	assert.Equal(t, "新聞分析", result.Summary)
}

func TestAnalyzeFilingsOnlySkipsNews(t *testing.T) {
	intent := &fakeIntent{intent: &models.Intent{
		Company: "台積電", StockID: "2330",
		Resource: models.ResourceFilings, Year: 2024, Season: 1,
	}}
	news := &fakeNews{}
	filings := &fakeFilings{results: sampleFilings()}
	llm := &fakeLLM{response: "財報分析"}

	service := newTestService(intent, news, filings, llm)

	result, err := service.Analyze(context.Background(), "台積電財報", 1, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, news.calls)
	assert.Equal(t, 1, filings.calls)
	assert.Equal(t, "財報分析", result.Summary)
	assert.Equal(t, 0, result.ArticlesUsed)
}

func TestAnalyzeNoEvidenceAdvisory(t *testing.T) {
	intent := &fakeIntent{intent: &models.Intent{Company: "冷門公司", StockID: "9999", Resource: models.ResourceNews}}
	news := &fakeNews{articles: nil}
	llm := &fakeLLM{}

	service := newTestService(intent, news, &fakeFilings{}, llm)

	result, err := service.Analyze(context.Background(), "冷門公司新聞", 1, 0)
	require.NoError(t, err)

	assert.Equal(t, "找不到符合條件的新聞。請換個問題試試。", result.Summary)
	assert.Equal(t, 0, llm.calls, "no synthesis without evidence")
}

func TestAnalyzeParseErrorPropagates(t *testing.T) {
	parseErr := &models.ParseError{Raw: "not json", Err: errors.New("bad")}
	service := newTestService(&fakeIntent{err: parseErr}, &fakeNews{}, &fakeFilings{}, &fakeLLM{})

	_, err := service.Analyze(context.Background(), "???", 1, 0)
	var got *models.ParseError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "not json", got.Raw)
}

func TestAnalyzeSynthesisError(t *testing.T) {
	intent := &fakeIntent{intent: &models.Intent{StockID: "2330", Resource: models.ResourceNews, Company: "台積電"}}
	llm := &fakeLLM{err: errors.New("model overloaded")}

	service := newTestService(intent, &fakeNews{articles: sampleArticles()}, &fakeFilings{}, llm)

	_, err := service.Analyze(context.Background(), "台積電", 1, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synthesis failed")
}

func TestNewsSummary(t *testing.T) {
	intent := &fakeIntent{intent: &models.Intent{Company: "台積電", StockID: "2330", Topic: "關稅", Resource: models.ResourceNews}}
	news := &fakeNews{articles: sampleArticles()}
	llm := &fakeLLM{response: "兩部分摘要"}

	service := newTestService(intent, news, &fakeFilings{}, llm)

	result, err := service.NewsSummary(context.Background(), "台積電關稅影響？", 1, 0)
	require.NoError(t, err)

	assert.Equal(t, "兩部分摘要", result.Summary)
	assert.Equal(t, 2, result.ArticlesUsed)
	assert.InDelta(t, 0.7, llm.lastOpts.Temperature, 0.001)
	assert.Contains(t, llm.lastMessages[1].Content, "台積電關稅")
}

func TestNewsSummaryNoKeyword(t *testing.T) {
	intent := &fakeIntent{intent: &models.Intent{StockID: "2330", Resource: models.ResourceNews}}
	news := &fakeNews{}
	llm := &fakeLLM{}

	service := newTestService(intent, news, &fakeFilings{}, llm)

	result, err := service.NewsSummary(context.Background(), "2330", 1, 0)
	require.NoError(t, err)

	// Advisory answer, no search and no synthesis
	assert.Equal(t, "⚠️ 無法組出有效關鍵字", result.Summary)
	assert.Equal(t, 0, news.calls)
	assert.Equal(t, 0, llm.calls)
}

func TestNewsSummaryNoArticles(t *testing.T) {
	intent := &fakeIntent{intent: &models.Intent{Company: "冷門公司", StockID: "9999", Resource: models.ResourceNews}}
	news := &fakeNews{articles: nil}
	llm := &fakeLLM{}

	service := newTestService(intent, news, &fakeFilings{}, llm)

	result, err := service.NewsSummary(context.Background(), "冷門公司新聞", 1, 0)
	require.NoError(t, err)

	assert.Equal(t, "找不到符合條件的新聞。請換個問題試試。", result.Summary)
	assert.Equal(t, 1, news.calls)
	assert.Equal(t, 0, llm.calls, "no synthesis without evidence")
}

func TestAnalyzeFinancialDataWithKnownStock(t *testing.T) {
	intent := &fakeIntent{err: errors.New("should not be called")}
	news := &fakeNews{articles: sampleArticles()}
	filings := &fakeFilings{results: sampleFilings()}
	llm := &fakeLLM{response: "財務體質分析"}

	service := newTestService(intent, news, filings, llm)

	result, err := service.AnalyzeFinancialData(context.Background(), interfaces.FinancialDataRequest{
		Question: "台積電財務體質如何？",
		StockID:  "2330",
		Company:  "台積電",
	})
	require.NoError(t, err)

	assert.Equal(t, "財務體質分析", result.Summary)
	assert.Nil(t, result.Intent, "no parse when stock and company are supplied")

	// Current plus previous year, opening and closing seasons
	assert.Equal(t, []string{"2330"}, filings.stockIDs)
	assert.Len(t, filings.years, 2)
	assert.Equal(t, filings.years[0]-1, filings.years[1])
	assert.Equal(t, []int{1, 4}, filings.seasons)
}

func TestAnalyzeFinancialDataParsesWhenMissing(t *testing.T) {
	intent := &fakeIntent{intent: &models.Intent{Company: "台積電", StockID: "2330", Topic: "財報"}}
	news := &fakeNews{articles: sampleArticles()}
	filings := &fakeFilings{results: sampleFilings()}
	llm := &fakeLLM{response: "分析"}

	service := newTestService(intent, news, filings, llm)

	result, err := service.AnalyzeFinancialData(context.Background(), interfaces.FinancialDataRequest{
		Question: "台積電財務狀況？",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Intent)
	assert.Equal(t, []string{"2330"}, filings.stockIDs)
	assert.Equal(t, "台積電 財報", news.keyword)
}

func TestAnalyzeFinancialDataNewsFailureDegrades(t *testing.T) {
	news := &fakeNews{err: errors.New("search down")}
	filings := &fakeFilings{results: sampleFilings()}
	llm := &fakeLLM{response: "僅憑財報的分析"}

	service := newTestService(&fakeIntent{}, news, filings, llm)

	result, err := service.AnalyzeFinancialData(context.Background(), interfaces.FinancialDataRequest{
		Question: "台積電財務狀況？",
		StockID:  "2330",
		Company:  "台積電",
	})
	require.NoError(t, err, "news failure must not fail the filings-centric flow")
	assert.Equal(t, "僅憑財報的分析", result.Summary)
}
