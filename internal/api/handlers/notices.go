package handlers

import (
	"log"
	"net/http"
	"time"

	"mdvrp-planner/internal/services"

	"github.com/gorilla/websocket"
)

type NoticeHandler struct {
	Board *services.NoticeBoard
}

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// Current returns the most recent notice, or 204 when there is none.
func (h *NoticeHandler) Current(w http.ResponseWriter, r *http.Request) {
	n, ok := h.Board.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, http.StatusOK, n)
}

// Dismiss clears the current notice; ?id= limits it to that notice.
func (h *NoticeHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if !h.Board.Dismiss(r.URL.Query().Get("id")) {
		writeError(w, r, http.StatusNotFound, "no such notice")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stream pushes every new notice over a websocket until the client goes away.
func (h *NoticeHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	notices, stop := h.Board.Subscribe()
	defer stop()

	if n, ok := h.Board.Current(); ok {
		if err := conn.WriteJSON(n); err != nil {
			return
		}
	}

	// Reads only serve to notice the client closing.
	closed := make(chan struct{})
	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(60 * time.Second)) })
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(20 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case n, ok := <-notices:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(n); err != nil {
				log.Printf("notice stream write failed: err=%v", err)
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
