package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/common"
	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/models"
)

// Advisory summaries returned without a synthesis call. These are degraded
// successes: the pipeline worked, the evidence just isn't there.
const (
	summaryNoKeyword = "⚠️ 無法組出有效關鍵字"
	summaryNoNews    = "找不到符合條件的新聞。請換個問題試試。"
)

const (
	synthesisTemperature = 0.5
	summaryTemperature   = 0.7
)

// Service orchestrates the question-answering pipeline. Every invocation
// runs under the configured pipeline deadline on top of the caller's
// context, so one slow evidence source cannot hold a request open
// indefinitely.
type Service struct {
	config  *common.Config
	logger  arbor.ILogger
	intent  interfaces.IntentService
	news    interfaces.NewsService
	filings interfaces.FilingsService
	llm     interfaces.LLMService
}

// NewService creates the analysis orchestrator
func NewService(
	config *common.Config,
	logger arbor.ILogger,
	intent interfaces.IntentService,
	news interfaces.NewsService,
	filings interfaces.FilingsService,
	llm interfaces.LLMService,
) *Service {
	return &Service{
		config:  config,
		logger:  logger,
		intent:  intent,
		news:    news,
		filings: filings,
		llm:     llm,
	}
}

// deadlineCtx derives the per-invocation pipeline context
func (s *Service) deadlineCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline := common.ParseDurationOr(s.config.Pipeline.Deadline, 3*time.Minute)
	return context.WithTimeout(ctx, deadline)
}

// Analyze runs the full pipeline: extract the intent, gather the evidence
// the resource selector asks for, assemble the corpus under the configured
// budgets, and synthesize an answer.
func (s *Service) Analyze(ctx context.Context, question string, pages, limit int) (*models.AnalysisResult, error) {
	ctx, cancel := s.deadlineCtx(ctx)
	defer cancel()

	startTime := time.Now()

	intent, err := s.intent.Parse(ctx, question)
	if err != nil {
		return nil, err
	}

	result := &models.AnalysisResult{
		Question: question,
		Intent:   intent,
	}

	if intent.WantsFilings() {
		filings, err := s.filings.FetchFilings(ctx,
			[]string{intent.StockID},
			[]int{intent.Year},
			[]int{intent.Season},
		)
		if err != nil {
			return nil, fmt.Errorf("filings fetch failed: %w", err)
		}
		result.Filings = filings
	}

	if intent.WantsNews() {
		keyword := intent.Keyword()
		if keyword == "" {
			s.logger.Warn().Str("question", question).Msg("Intent produced no usable keyword")
		} else {
			articles, err := s.news.FetchNews(ctx, keyword, pages)
			if err != nil {
				return nil, fmt.Errorf("news fetch failed: %w", err)
			}
			result.Articles = articles
		}
	}

	maxArticles := s.maxArticles(limit)
	corpus, used := RenderArticles(result.Articles, maxArticles, s.config.Pipeline.ArticleCharLimit)
	result.ArticlesUsed = used
	filingsText := RenderFilings(result.Filings, s.config.Pipeline.FilingsCharLimit)

	// With no evidence at all a synthesis call has nothing to ground on;
	// answer with the advisory instead.
	if corpus == "" && filingsText == "無" {
		result.Summary = summaryNoNews
		return result, nil
	}
	if corpus == "" {
		corpus = "無"
	}

	summary, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: analystSystem},
		{Role: "user", Content: fmt.Sprintf(synthesisPrompt, question, filingsText, corpus)},
	}, &interfaces.ChatOptions{Temperature: synthesisTemperature})
	if err != nil {
		return nil, fmt.Errorf("answer synthesis failed: %w", err)
	}
	result.Summary = summary

	s.logger.Info().
		Str("resource", string(intent.Resource)).
		Int("articles_used", used).
		Int("filings", len(result.Filings)).
		Dur("duration", time.Since(startTime)).
		Msg("Analysis complete")

	return result, nil
}

// NewsSummary runs the news-only flow. Missing keywords and empty search
// results are degraded successes carrying an advisory summary, not errors.
func (s *Service) NewsSummary(ctx context.Context, question string, pages, limit int) (*models.AnalysisResult, error) {
	ctx, cancel := s.deadlineCtx(ctx)
	defer cancel()

	intent, err := s.intent.Parse(ctx, question)
	if err != nil {
		return nil, err
	}

	result := &models.AnalysisResult{
		Question: question,
		Intent:   intent,
	}

	keyword := intent.Keyword()
	if keyword == "" {
		result.Summary = summaryNoKeyword
		return result, nil
	}

	articles, err := s.news.FetchNews(ctx, keyword, pages)
	if err != nil {
		return nil, fmt.Errorf("news fetch failed: %w", err)
	}
	if len(articles) == 0 {
		result.Summary = summaryNoNews
		return result, nil
	}
	result.Articles = articles

	corpus, used := RenderArticles(articles, s.maxArticles(limit), s.config.Pipeline.ArticleCharLimit)
	result.ArticlesUsed = used

	summary, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: analystSystem},
		{Role: "user", Content: fmt.Sprintf(newsSummaryPrompt, keyword, used, corpus)},
	}, &interfaces.ChatOptions{Temperature: summaryTemperature})
	if err != nil {
		return nil, fmt.Errorf("news summary synthesis failed: %w", err)
	}
	result.Summary = summary

	return result, nil
}

// AnalyzeFinancialData combines recent filing periods with a compact news
// digest. When the stock id or company is not supplied, the question is
// parsed first to resolve them. The filing window covers the current and
// previous year's first and fourth seasons, giving the model year-over-year
// comparison points.
func (s *Service) AnalyzeFinancialData(ctx context.Context, req interfaces.FinancialDataRequest) (*models.AnalysisResult, error) {
	ctx, cancel := s.deadlineCtx(ctx)
	defer cancel()

	result := &models.AnalysisResult{Question: req.Question}

	stockID := req.StockID
	company := req.Company
	topic := req.Topic
	if stockID == "" || company == "" {
		intent, err := s.intent.Parse(ctx, req.Question)
		if err != nil {
			return nil, err
		}
		result.Intent = intent
		if stockID == "" {
			stockID = intent.StockID
		}
		if company == "" {
			company = intent.Company
		}
		if topic == "" {
			topic = intent.Topic
		}
	}

	currentYear, _ := models.CurrentPeriod(time.Now())
	filings, err := s.filings.FetchFilings(ctx,
		[]string{stockID},
		[]int{currentYear, currentYear - 1},
		[]int{1, 4},
	)
	if err != nil {
		return nil, fmt.Errorf("filings fetch failed: %w", err)
	}
	result.Filings = filings

	// Compact news digest as supporting context
	newsText := "無"
	keyword := company
	if topic != "" {
		keyword = company + " " + topic
	}
	if keyword != "" {
		pages := req.Pages
		if pages < 1 {
			pages = 1
		}
		articles, err := s.news.FetchNews(ctx, keyword, pages)
		if err != nil {
			s.logger.Warn().Err(err).Str("keyword", keyword).Msg("Supporting news fetch failed")
		} else {
			result.Articles = articles
			if rendered, used := RenderArticles(articles, 3, 300); rendered != "" {
				newsText = rendered
				result.ArticlesUsed = used
			}
		}
	}

	filingsText := RenderFilings(filings, s.config.Pipeline.FilingsCharLimit)

	summary, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: analystSystem},
		{Role: "user", Content: fmt.Sprintf(financialDataPrompt, company, req.Question, filingsText, newsText)},
	}, &interfaces.ChatOptions{Temperature: synthesisTemperature})
	if err != nil {
		return nil, fmt.Errorf("financial analysis synthesis failed: %w", err)
	}
	result.Summary = summary

	return result, nil
}

// maxArticles resolves the per-call article cap against the configured one
func (s *Service) maxArticles(limit int) int {
	if limit > 0 {
		return limit
	}
	return s.config.Pipeline.MaxArticles
}
