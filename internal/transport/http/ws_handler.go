package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"quiz-management-service/internal/app"
)

// WSHandler streams live quiz standings over a websocket. Clients connect
// with ?quiz_id= and receive a snapshot followed by a push on every rescore.
type WSHandler struct {
	results  *app.ResultService
	hub      *app.LeaderboardHub
	upgrader websocket.Upgrader
}

func NewWSHandler(results *app.ResultService, hub *app.LeaderboardHub) *WSHandler {
	return &WSHandler{
		results: results,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID, err := strconv.ParseInt(r.URL.Query().Get("quiz_id"), 10, 64)
	if err != nil || quizID <= 0 {
		http.Error(w, "missing or invalid quiz_id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.hub.Subscribe(quizID)
	defer cancel()

	standings, err := h.results.GetResultsByQuiz(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: err.Error()})
		return
	}
	if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: standings}); err != nil {
		return
	}

	// The read loop only watches for the client hanging up; all writes
	// happen on this goroutine so the connection has a single writer.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: update}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-readerDone:
			return
		}
	}
}
