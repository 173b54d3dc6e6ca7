package server

import "net/http"

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Question answering
	mux.HandleFunc("/analyze", s.app.AnalyzeHandler.AnalyzeHandler)
	mux.HandleFunc("/analyze/news", s.app.AnalyzeHandler.NewsSummaryHandler)

	// Filing cache inspection and invalidation
	mux.HandleFunc("/api/filings/cache", s.app.FilingsHandler.CacheHandler)
	mux.HandleFunc("/api/filings/cache/", s.app.FilingsHandler.CacheHandler)

	// Operational endpoints
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			s.app.APIHandler.NotFoundHandler(w, r)
			return
		}
		http.Redirect(w, r, "/api/health", http.StatusFound)
	})

	return mux
}
