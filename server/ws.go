package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"genoscope/models/dtos"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 16,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocketHandler upgrades and serves one socket. The peer may speak
// either side of the protocol: UI frames (connection handshake, state
// updates, tool responses) or plain JSON-RPC messages; the two are
// told apart by the presence of the jsonrpc field.
func (s *Service) WebSocketHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			fmt.Printf("[%s] - WebSocket upgrade failed: %s\n", time.Now(), err)
			return
		}
		s.serveSocket(r.Context(), conn)
	})
}

// serveSocket reads one socket until it drops. A peer only joins the
// hub (and becomes the UI dispatch target) after it announces itself
// with a connection frame; a plain JSON-RPC agent never does, so it
// never receives execute-tool traffic. JSON-RPC messages are answered
// off the read loop, otherwise a tool call that round-trips through
// the UI on this same socket could never read its tool-response.
func (s *Service) serveSocket(ctx context.Context, conn *websocket.Conn) {
	wrapped := &wsConn{conn: conn}
	s.trackSocket(wrapped)
	defer s.untrackSocket(wrapped)

	var client *UIClient
	defer func() {
		if client != nil {
			s.disconnect(client)
		}
	}()

	var handlers sync.WaitGroup
	defer handlers.Wait()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var probe struct {
			Jsonrpc string `json:"jsonrpc"`
		}
		if json.Unmarshal(raw, &probe) == nil && probe.Jsonrpc != "" {
			handlers.Add(1)
			go func(message []byte) {
				defer handlers.Done()
				if response := s.HandleMessage(ctx, message); response != nil {
					_ = wrapped.writeRaw(response)
				}
			}(raw)
			continue
		}

		var frame dtos.Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			fmt.Printf("[%s] - Dropping undecodable frame\n", time.Now())
			continue
		}
		if client == nil {
			if frame.Type == dtos.FrameConnection {
				client = s.hub.add(wrapped)
				fmt.Printf("[%s] - UI client %s connected\n", time.Now(), client.Id)
				s.greet(client)
			} else {
				fmt.Printf("[%s] - Dropping %q frame from unidentified peer\n", time.Now(), frame.Type)
			}
			continue
		}
		s.handleFrame(&frame)
	}
}
