package ws

import (
	"log"
	"net/http"
)

// DefaultRoom receives every transcription-completed event.
const DefaultRoom = "transcriptions"

// Handler upgrades the connection and holds it open in the default room
// until the client disconnects. Events are pushed through the hub by the
// pipeline listener in main; every client sees the same feed.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "ws upgrade failed", http.StatusBadRequest)
			return
		}

		hub.Register(DefaultRoom, conn)
		defer hub.Unregister(DefaultRoom, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Printf("[ws] disconnect room=%s", DefaultRoom)
				return
			}
		}
	}
}
