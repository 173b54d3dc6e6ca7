package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/interfaces"
)

// FilingsHandler exposes the filing cache for inspection and invalidation
type FilingsHandler struct {
	storage interfaces.FilingStorage
	logger  arbor.ILogger
}

// NewFilingsHandler creates a new filings cache handler
func NewFilingsHandler(storage interfaces.FilingStorage, logger arbor.ILogger) *FilingsHandler {
	return &FilingsHandler{
		storage: storage,
		logger:  logger,
	}
}

// CacheHandler handles /api/filings/cache and /api/filings/cache/{key}.
// GET on the collection lists cached keys; DELETE on a key removes it so the
// next fetch re-scrapes that filing period.
func (h *FilingsHandler) CacheHandler(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/filings/cache")
	key = strings.Trim(key, "/")

	switch {
	case r.Method == http.MethodGet && key == "":
		h.listKeys(w, r)
	case r.Method == http.MethodGet:
		h.getEntry(w, r, key)
	case r.Method == http.MethodDelete && key != "":
		h.deleteEntry(w, r, key)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FilingsHandler) listKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.storage.Keys(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list filing cache keys")
		WriteError(w, http.StatusInternalServerError, "failed to list cache keys")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(keys),
		"keys":  keys,
	})
}

func (h *FilingsHandler) getEntry(w http.ResponseWriter, r *http.Request, key string) {
	tables, err := h.storage.Get(r.Context(), key)
	if err == interfaces.ErrKeyNotFound {
		WriteError(w, http.StatusNotFound, "no cached filing for "+key)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("Failed to read filing cache entry")
		WriteError(w, http.StatusInternalServerError, "failed to read cache entry")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"key":    key,
		"tables": len(tables),
		"data":   tables,
	})
}

func (h *FilingsHandler) deleteEntry(w http.ResponseWriter, r *http.Request, key string) {
	if err := h.storage.Delete(r.Context(), key); err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("Failed to delete filing cache entry")
		WriteError(w, http.StatusInternalServerError, "failed to delete cache entry")
		return
	}

	h.logger.Info().Str("key", key).Msg("Filing cache entry deleted")
	WriteSuccess(w, "deleted "+strconv.Quote(key))
}
