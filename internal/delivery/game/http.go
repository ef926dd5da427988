package game

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gogame/internal/httpresponse"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type GameHandler struct {
	log   *zap.SugaredLogger
	lobby *Lobby
}

func NewGameHandler(log *zap.SugaredLogger, lobby *Lobby) *GameHandler {
	return &GameHandler{
		log:   log,
		lobby: lobby,
	}
}

func (g *GameHandler) Router(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", g.HandleHealth)
	r.Get("/sessions", g.HandleSessions)
	r.Get("/ws", g.HandleWebsocket)
}

func (g *GameHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, "ok")
}

func (g *GameHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, g.lobby.Summaries())
}

// HandleWebsocket plays the line protocol over a websocket, one line per frame.
func (g *GameHandler) HandleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Errorw("websocket upgrade failed", "error", err)
		return
	}
	g.lobby.Accept(r.Context(), NewWebsocketConn(conn))
}
