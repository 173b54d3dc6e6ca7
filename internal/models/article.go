package models

// Article is one news item gathered for a keyword. Content holds the full
// body text, or a human-readable placeholder when the body fetch failed;
// an article is never dropped solely because its body could not be retrieved.
type Article struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Date    string `json:"date"` // YYYY-MM-DD, empty if unparseable
	Content string `json:"content"`
	Keyword string `json:"keyword"`
}
