package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/models"
)

// parseTemperature keeps the extraction call shape deterministic; the
// synthesis calls run warmer.
const parseTemperature = 0.2

const parsePrompt = `你是一個財經語意分析助手，請將下列問題解析為結構化的 JSON 格式。若有缺漏資訊，請合理推測或補齊。

問題：
「%s」

請輸出以下欄位（直接以 JSON 格式回傳）：
- company：公司名稱（若無則為空字串）
- stock_id：股票代號（必須是數字）
- resource：mops, news, both
- topic：問題主題（如財報、營收、法說會、關稅等）
- year：年度(2021,2022,...)，若無則填入最近一年
- season：季度(1,2,3,4)，若無則填入最近一季

stock_id, company, resource 為必填。
請**只輸出純 JSON格式**，不要加註解，不要加反引號。`

// Parser converts a free-text finance question into a structured Intent via
// one language-model call. A malformed response is surfaced as
// *models.ParseError and is never retried; a single bad completion is a
// structured failure, not a crash.
type Parser struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
	now    func() time.Time
}

// NewParser creates a new intent parser
func NewParser(llm interfaces.LLMService, logger arbor.ILogger) *Parser {
	return &Parser{
		llm:    llm,
		logger: logger,
		now:    time.Now,
	}
}

// intentResponse mirrors the JSON shape the extraction prompt requests.
// Numeric fields arrive as either JSON numbers or digit strings depending on
// the model's mood, so they decode loosely and are coerced afterwards.
// "resourse" is accepted alongside "resource"; the upstream prompt carried
// that spelling for a long time and some fine-tuned responses still use it.
type intentResponse struct {
	Company  string `json:"company"`
	StockID  any    `json:"stock_id"`
	Topic    string `json:"topic"`
	Resource string `json:"resource"`
	Resourse string `json:"resourse"`
	Year     any    `json:"year"`
	Season   any    `json:"season"`
}

// Parse converts the question into a structured Intent
func (p *Parser) Parse(ctx context.Context, question string) (*models.Intent, error) {
	raw, err := p.llm.Chat(ctx, []interfaces.Message{
		{Role: "user", Content: fmt.Sprintf(parsePrompt, question)},
	}, &interfaces.ChatOptions{Temperature: parseTemperature})
	if err != nil {
		return nil, fmt.Errorf("intent extraction call failed: %w", err)
	}

	text := stripCodeFences(raw)

	var resp intentResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		p.logger.Warn().
			Err(err).
			Int("raw_length", len(raw)).
			Msg("Intent extraction returned non-JSON text")
		return nil, &models.ParseError{Raw: raw, Err: err}
	}

	stockID := coerceString(resp.StockID)
	if !isDigits(stockID) {
		return nil, &models.ParseError{
			Raw: raw,
			Err: fmt.Errorf("stock_id must be a non-empty digit string, got %q", stockID),
		}
	}

	resource := resp.Resource
	if resource == "" {
		resource = resp.Resourse
	}

	year, season := models.CurrentPeriod(p.now())
	intent := &models.Intent{
		Company:  strings.TrimSpace(resp.Company),
		StockID:  stockID,
		Topic:    strings.TrimSpace(resp.Topic),
		Resource: models.NormalizeResource(resource),
		Year:     coerceInt(resp.Year, year),
		Season:   coerceInt(resp.Season, season),
	}
	if intent.Season < 1 || intent.Season > 4 {
		intent.Season = season
	}

	p.logger.Debug().
		Str("company", intent.Company).
		Str("stock_id", intent.StockID).
		Str("topic", intent.Topic).
		Str("resource", string(intent.Resource)).
		Int("year", intent.Year).
		Int("season", intent.Season).
		Msg("Question parsed into intent")

	return intent, nil
}

// stripCodeFences removes markdown code fences the model sometimes wraps
// around JSON output despite being told not to.
func stripCodeFences(s string) string {
	text := strings.TrimSpace(s)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// coerceString renders a loosely-typed JSON value as a trimmed string
func coerceString(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatInt(int64(value), 10)
	case json.Number:
		return value.String()
	default:
		return ""
	}
}

// coerceInt renders a loosely-typed JSON value as an int, with fallback
func coerceInt(v any, fallback int) int {
	switch value := v.(type) {
	case float64:
		return int(value)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return int(n)
		}
	}
	return fallback
}

// isDigits reports whether s is a non-empty string of ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
