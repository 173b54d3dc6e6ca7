package models

// AnalysisResult is the envelope returned by every analysis entry point.
// The JSON field names match the public /analyze response contract.
type AnalysisResult struct {
	Question     string              `json:"question"`
	Intent       *Intent             `json:"semantic_parse,omitempty"`
	Filings      map[string]TableSet `json:"mops_data,omitempty"`
	Articles     []Article           `json:"news_data,omitempty"`
	ArticlesUsed int                 `json:"articles_used"`
	Summary      string              `json:"final_summary"`
}
