package server

import (
	"sync"

	"github.com/google/uuid"
)

// SseClient is one open event stream; messages queued here are
// flushed by the transport goroutine holding the HTTP response.
type SseClient struct {
	Id     string
	Events chan []byte
}

type sseRegistry struct {
	mutex   sync.RWMutex
	clients map[string]*SseClient
}

func newSseRegistry() *sseRegistry {
	return &sseRegistry{clients: map[string]*SseClient{}}
}

// OpenEventStream registers a new SSE client; the caller owns the
// stream and must CloseEventStream when the HTTP connection ends.
func (s *Service) OpenEventStream() *SseClient {
	client := &SseClient{Id: uuid.New().String(), Events: make(chan []byte, 16)}
	s.sse.mutex.Lock()
	s.sse.clients[client.Id] = client
	s.sse.mutex.Unlock()
	return client
}

func (s *Service) CloseEventStream(clientId string) {
	s.sse.mutex.Lock()
	client, ok := s.sse.clients[clientId]
	if ok {
		delete(s.sse.clients, clientId)
	}
	s.sse.mutex.Unlock()
	if ok {
		close(client.Events)
	}
}

// PushEvent queues one payload for the stream; a missing or saturated
// client reports false so the companion endpoint can answer for it.
func (s *Service) PushEvent(clientId string, payload []byte) bool {
	s.sse.mutex.RLock()
	client, ok := s.sse.clients[clientId]
	s.sse.mutex.RUnlock()
	if !ok {
		return false
	}
	select {
	case client.Events <- payload:
		return true
	default:
		return false
	}
}
