package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/models"
)

// AnalyzeHandler serves the question-answering endpoints
type AnalyzeHandler struct {
	analysis interfaces.AnalysisService
	logger   arbor.ILogger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analysis interfaces.AnalysisService, logger arbor.ILogger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysis: analysis,
		logger:   logger,
	}
}

// AnalyzeHandler handles GET /analyze?question=...&pages=N&limit=N
func (h *AnalyzeHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	question := r.URL.Query().Get("question")
	if question == "" {
		WriteError(w, http.StatusBadRequest, "question parameter is required")
		return
	}

	pages := queryInt(r, "pages", 1)
	limit := queryInt(r, "limit", 0)

	result, err := h.analysis.Analyze(r.Context(), question, pages, limit)
	if err != nil {
		h.writeAnalysisError(w, question, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// NewsSummaryHandler handles GET /analyze/news?question=...&pages=N&limit=N
func (h *AnalyzeHandler) NewsSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	question := r.URL.Query().Get("question")
	if question == "" {
		WriteError(w, http.StatusBadRequest, "question parameter is required")
		return
	}

	pages := queryInt(r, "pages", 1)
	limit := queryInt(r, "limit", 0)

	result, err := h.analysis.NewsSummary(r.Context(), question, pages, limit)
	if err != nil {
		h.writeAnalysisError(w, question, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// writeAnalysisError maps pipeline errors to HTTP status codes. An intent
// extraction failure is the client's problem (unanswerable question), so it
// returns 422 along with the raw model text for debugging.
func (h *AnalyzeHandler) writeAnalysisError(w http.ResponseWriter, question string, err error) {
	var parseErr *models.ParseError
	if errors.As(err, &parseErr) {
		h.logger.Warn().
			Err(err).
			Str("question", question).
			Msg("Question could not be parsed")
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"status": "error",
			"error":  "question could not be parsed into a structured intent",
			"raw":    parseErr.Raw,
		})
		return
	}

	h.logger.Error().
		Err(err).
		Str("question", question).
		Msg("Analysis failed")
	WriteError(w, http.StatusInternalServerError, err.Error())
}

// queryInt reads an integer query parameter with a fallback
func queryInt(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
