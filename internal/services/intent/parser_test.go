package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/models"
)

// fakeLLM returns a canned response and records the last call
type fakeLLM struct {
	response string
	err      error

	lastMessages []interfaces.Message
	lastOpts     *interfaces.ChatOptions
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message, opts *interfaces.ChatOptions) (string, error) {
	f.lastMessages = messages
	f.lastOpts = opts
	return f.response, f.err
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                          { return nil }

func newTestParser(llm interfaces.LLMService) *Parser {
	parser := NewParser(llm, arbor.NewLogger())
	parser.now = func() time.Time {
		return time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)
	}
	return parser
}

func TestParseCleanJSON(t *testing.T) {
	llm := &fakeLLM{response: `{"company":"台積電","stock_id":"2330","topic":"財報","resource":"both","year":2024,"season":2}`}
	parser := newTestParser(llm)

	intent, err := parser.Parse(context.Background(), "台積電2024年Q2財報表現如何？")
	require.NoError(t, err)

	assert.Equal(t, "台積電", intent.Company)
	assert.Equal(t, "2330", intent.StockID)
	assert.Equal(t, "財報", intent.Topic)
	assert.Equal(t, models.ResourceBoth, intent.Resource)
	assert.Equal(t, 2024, intent.Year)
	assert.Equal(t, 2, intent.Season)
}

func TestParseUsesLowTemperature(t *testing.T) {
	llm := &fakeLLM{response: `{"stock_id":"2330","resource":"news"}`}
	parser := newTestParser(llm)

	_, err := parser.Parse(context.Background(), "台積電新聞")
	require.NoError(t, err)

	require.NotNil(t, llm.lastOpts)
	assert.InDelta(t, 0.2, llm.lastOpts.Temperature, 0.001)
	require.Len(t, llm.lastMessages, 1)
	assert.Equal(t, "user", llm.lastMessages[0].Role)
	assert.Contains(t, llm.lastMessages[0].Content, "台積電新聞")
}

func TestParseStripsCodeFences(t *testing.T) {
	llm := &fakeLLM{response: "```json\n{\"stock_id\":\"2603\",\"company\":\"長榮\",\"resource\":\"news\"}\n```"}
	parser := newTestParser(llm)

	intent, err := parser.Parse(context.Background(), "長榮最近有什麼消息？")
	require.NoError(t, err)
	assert.Equal(t, "2603", intent.StockID)
	assert.Equal(t, models.ResourceNews, intent.Resource)
}

func TestParseNumericStockID(t *testing.T) {
	llm := &fakeLLM{response: `{"company":"台積電","stock_id":2330,"resource":"mops","year":"2024","season":"1"}`}
	parser := newTestParser(llm)

	intent, err := parser.Parse(context.Background(), "台積電財報")
	require.NoError(t, err)

	assert.Equal(t, "2330", intent.StockID)
	assert.Equal(t, models.ResourceFilings, intent.Resource)
	assert.Equal(t, 2024, intent.Year)
	assert.Equal(t, 1, intent.Season)
}

func TestParseAcceptsLegacyResourceSpelling(t *testing.T) {
	llm := &fakeLLM{response: `{"stock_id":"2330","resourse":"mops"}`}
	parser := newTestParser(llm)

	intent, err := parser.Parse(context.Background(), "台積電財報")
	require.NoError(t, err)
	assert.Equal(t, models.ResourceFilings, intent.Resource)
}

func TestParseDefaultsMissingPeriod(t *testing.T) {
	llm := &fakeLLM{response: `{"stock_id":"2330","company":"台積電","resource":"both"}`}
	parser := newTestParser(llm)

	intent, err := parser.Parse(context.Background(), "台積電表現如何？")
	require.NoError(t, err)

	// Fixed clock: August 2025 is Q3
	assert.Equal(t, 2025, intent.Year)
	assert.Equal(t, 3, intent.Season)
}

func TestParseClampsInvalidSeason(t *testing.T) {
	llm := &fakeLLM{response: `{"stock_id":"2330","resource":"both","year":2024,"season":7}`}
	parser := newTestParser(llm)

	intent, err := parser.Parse(context.Background(), "台積電")
	require.NoError(t, err)
	assert.Equal(t, 3, intent.Season)
}

func TestParseNonJSONResponse(t *testing.T) {
	llm := &fakeLLM{response: "很抱歉，我無法解析這個問題。"}
	parser := newTestParser(llm)

	_, err := parser.Parse(context.Background(), "???")
	require.Error(t, err)

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, llm.response, parseErr.Raw)
}

func TestParseInvalidStockID(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"empty", `{"stock_id":"","resource":"news"}`},
		{"missing", `{"company":"台積電","resource":"news"}`},
		{"non-numeric", `{"stock_id":"TSMC","resource":"news"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := newTestParser(&fakeLLM{response: tt.response})

			_, err := parser.Parse(context.Background(), "問題")
			var parseErr *models.ParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestParseLLMError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection refused")}
	parser := newTestParser(llm)

	_, err := parser.Parse(context.Background(), "台積電")
	require.Error(t, err)

	// Transport failures are not parse errors
	var parseErr *models.ParseError
	assert.False(t, errors.As(err, &parseErr))
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFences(tt.input))
		})
	}
}
