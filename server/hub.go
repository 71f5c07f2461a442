package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"genoscope/models/dtos"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// frameConn is the transport under one UI client; the concrete
// implementations are the WebSocket wrapper and the SSE event stream.
type frameConn interface {
	SendFrame(frame *dtos.Frame) error
	Close() error
}

// UIClient is one connected browser shell.
type UIClient struct {
	Id   string
	conn frameConn
}

func (c *UIClient) SendFrame(frame *dtos.Frame) error {
	return c.conn.SendFrame(frame)
}

// wsConn serializes writes; gorilla connections allow one writer at a
// time.
type wsConn struct {
	mutex sync.Mutex
	conn  *websocket.Conn
}

func (w *wsConn) SendFrame(frame *dtos.Frame) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteJSON(frame)
}

func (w *wsConn) writeRaw(payload []byte) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, payload)
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}

// Hub tracks connected UI clients and the last browser state any of
// them pushed. The newest client is the dispatch target.
type Hub struct {
	mutex       sync.RWMutex
	clients     map[string]*UIClient
	order       []string
	latestState *dtos.BrowserState
}

func newHub() *Hub {
	return &Hub{clients: map[string]*UIClient{}}
}

func (h *Hub) add(conn frameConn) *UIClient {
	client := &UIClient{Id: uuid.New().String(), conn: conn}
	h.mutex.Lock()
	h.clients[client.Id] = client
	h.order = append(h.order, client.Id)
	h.mutex.Unlock()
	return client
}

func (h *Hub) remove(clientId string) {
	h.mutex.Lock()
	delete(h.clients, clientId)
	for i, id := range h.order {
		if id == clientId {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.mutex.Unlock()
}

// primary returns the most recently connected client.
func (h *Hub) primary() *UIClient {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if len(h.order) == 0 {
		return nil
	}
	return h.clients[h.order[len(h.order)-1]]
}

func (h *Hub) setState(state *dtos.BrowserState) {
	h.mutex.Lock()
	h.latestState = state
	h.mutex.Unlock()
}

func (h *Hub) state() *dtos.BrowserState {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.latestState
}

func (h *Hub) snapshot() []*UIClient {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	clients := make([]*UIClient, 0, len(h.clients))
	for _, id := range h.order {
		clients = append(clients, h.clients[id])
	}
	return clients
}

func (h *Hub) count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// greet sends the connection frame and the current tool catalog to a
// freshly accepted client.
func (s *Service) greet(client *UIClient) {
	_ = client.SendFrame(&dtos.Frame{Type: dtos.FrameConnection, ClientId: client.Id})
	if catalog, err := json.Marshal(s.Registry.Descriptors()); err == nil {
		_ = client.SendFrame(&dtos.Frame{Type: dtos.FrameTools, Tools: catalog})
	}
}

// handleFrame routes one inbound UI frame.
func (s *Service) handleFrame(frame *dtos.Frame) {
	switch frame.Type {
	case dtos.FrameToolResponse:
		if !s.pending.resolve(frame.RequestId, frame) {
			fmt.Printf("[%s] - Dropping tool-response for unknown request %s\n", time.Now(), frame.RequestId)
		}
	case dtos.FrameStateUpdate:
		s.hub.setState(frame.State)
	}
}

// disconnect retires the client and fails its in-flight calls.
func (s *Service) disconnect(client *UIClient) {
	s.hub.remove(client.Id)
	s.pending.rejectClient(client.Id)
	_ = client.conn.Close()
	fmt.Printf("[%s] - UI client %s disconnected\n", time.Now(), client.Id)
}
