package models

import (
	"fmt"
	"strings"
	"time"
)

// Resource selects which evidence sources a question should be answered from.
type Resource string

const (
	ResourceNews    Resource = "news"
	ResourceFilings Resource = "filings"
	ResourceBoth    Resource = "both"
)

// NormalizeResource maps a model-emitted resource selector onto a known value.
// The extraction prompt historically used "mops" for regulatory filings, so
// both spellings are accepted. Unknown or empty values default to both.
func NormalizeResource(raw string) Resource {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "news":
		return ResourceNews
	case "mops", "filings":
		return ResourceFilings
	case "both", "":
		return ResourceBoth
	default:
		return ResourceBoth
	}
}

// Intent is the structured form of a free-text finance question.
// It is produced once per question by the intent parser and is immutable
// afterwards.
type Intent struct {
	Company  string   `json:"company"`
	StockID  string   `json:"stock_id"`
	Topic    string   `json:"topic"`
	Resource Resource `json:"resource"`
	Year     int      `json:"year"`
	Season   int      `json:"season"`
}

// Keyword returns the news search keyword derived from company and topic.
func (i *Intent) Keyword() string {
	return strings.TrimSpace(i.Company + i.Topic)
}

// WantsNews reports whether the news source should be queried.
func (i *Intent) WantsNews() bool {
	return i.Resource == ResourceNews || i.Resource == ResourceBoth
}

// WantsFilings reports whether the regulatory filing source should be queried.
func (i *Intent) WantsFilings() bool {
	return i.Resource == ResourceFilings || i.Resource == ResourceBoth
}

// CurrentPeriod returns the calendar year and quarter for the given time.
func CurrentPeriod(now time.Time) (year, season int) {
	return now.Year(), (int(now.Month())-1)/3 + 1
}

// ParseError reports that intent extraction produced output that could not be
// used. Raw preserves the unmodified model output for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("intent parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
