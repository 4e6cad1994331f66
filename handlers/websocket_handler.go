package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/league-tracker/realtime"
	"github.com/Dosada05/league-tracker/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub           *realtime.Hub
	leagueService services.LeagueService
	upgrader      websocket.Upgrader
}

// NewWebSocketHandler accepts connections from the given origins. An empty
// list or "*" accepts any origin.
func NewWebSocketHandler(hub *realtime.Hub, ls services.LeagueService, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		leagueService: ls,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWs subscribes the client to /ws/leagues/{league}. The league must be
// open.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		slog.WarnContext(r.Context(), "failed to upgrade websocket connection",
			slog.String("league", league.Key), slog.Any("error", err))
		return
	}

	h.hub.Attach(conn, league.Key)
	slog.DebugContext(r.Context(), "websocket client attached", slog.String("room", league.Key))
}
