package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
	"github.com/dukerupert/homehub/internal/auth"
)

// HandleWebSocket upgrades authenticated requests and subscribes them to
// their household's change notifications. It must run behind the household
// resolving middleware.
func HandleWebSocket(hub *Hub, originPatterns []string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := auth.HouseholdID(r.Context())
		if householdID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warn("accept websocket", "error", err)
			return
		}
		defer conn.CloseNow()

		logger.Debug("websocket connected", "household_id", householdID)
		client := NewClient(hub, conn, householdID)
		client.Run(r.Context())
		conn.Close(ws.StatusNormalClosure, "")
	}
}
