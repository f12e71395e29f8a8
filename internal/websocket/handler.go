package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/chorechart/internal/auth"
)

// ChartAuthorizer reports whether userID ("" when anonymous) may see chartID.
type ChartAuthorizer func(ctx context.Context, userID, chartID string) (bool, error)

// HandleWebSocket upgrades the request and runs it as a hub client.
// ?chart=<id> watches one chart the caller may see. Without it the caller
// must be signed in and hears about its own charts. With no origin patterns
// any origin is accepted.
func HandleWebSocket(hub *Hub, originPatterns []string, canWatch ChartAuthorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		chartID := r.URL.Query().Get("chart")

		if chartID == "" && userID == "" {
			writeError(w, http.StatusBadRequest, "chart is required")
			return
		}
		if chartID != "" {
			ok, err := canWatch(r.Context(), userID, chartID)
			if err != nil {
				hub.logger.Error("websocket chart lookup", "chart_id", chartID, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to get chart")
				return
			}
			if !ok {
				writeError(w, http.StatusNotFound, "chart not found")
				return
			}
		}

		opts := &ws.AcceptOptions{OriginPatterns: originPatterns}
		if len(originPatterns) == 0 {
			opts.InsecureSkipVerify = true
		}
		conn, err := ws.Accept(w, r, opts)
		if err != nil {
			hub.logger.Warn("websocket accept", "error", err, "remote", r.RemoteAddr)
			return
		}
		defer conn.CloseNow()

		client := NewClient(hub, conn, userID, chartID)
		client.Run(r.Context())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
