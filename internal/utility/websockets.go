package utility

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Simple hub for the live status feed: Map[ClientID] -> Connection
var (
	StatusClients   = make(map[string]*websocket.Conn)
	StatusClientsMu sync.Mutex // Mutex to prevent race conditions
	Upgrader        = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Allow CORS for development
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

// RegisterStatusClient adds a new monitoring connection.
func RegisterStatusClient(clientID string, conn *websocket.Conn) {
	StatusClientsMu.Lock()
	defer StatusClientsMu.Unlock()
	StatusClients[clientID] = conn
	log.Info().Str("client_id", clientID).Msg("Status WebSocket client connected")
}

// UnregisterStatusClient removes a connection when the client disconnects.
func UnregisterStatusClient(clientID string) {
	StatusClientsMu.Lock()
	defer StatusClientsMu.Unlock()
	if _, ok := StatusClients[clientID]; ok {
		delete(StatusClients, clientID)
		log.Info().Str("client_id", clientID).Msg("Status WebSocket client disconnected")
	}
}

// StatusClientCount reports how many monitoring clients are connected.
func StatusClientCount() int {
	StatusClientsMu.Lock()
	defer StatusClientsMu.Unlock()
	return len(StatusClients)
}

// BroadcastStatus pushes a status payload to every connected client,
// dropping connections that fail to write.
func BroadcastStatus(message []byte) {
	StatusClientsMu.Lock()
	defer StatusClientsMu.Unlock()

	for clientID, conn := range StatusClients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Error().Err(err).Str("client_id", clientID).Msg("Failed to send status message, removing client")
			conn.Close()
			delete(StatusClients, clientID)
		}
	}
}
