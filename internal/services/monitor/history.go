package monitor

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/NordCoder/Upwatch/internal/domain/run"
)

// HistoryHandler serves GET /history?check=<id> as a JSON array of log entries,
// oldest first.
func HistoryHandler(h run.History, log *zap.Logger) http.Handler {
	log = log.With(zap.String("component", "monitor.history"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimSpace(r.URL.Query().Get("check"))
		if len(id) != idLen {
			http.Error(w, "check must be a valid check id", http.StatusBadRequest)
			return
		}
		entries, err := h.History(r.Context(), id)
		if err != nil {
			log.Warn("read history", zap.String("check_id", id), zap.Error(err))
			http.Error(w, "history unavailable", http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []*run.Run{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entries)
	})
}
