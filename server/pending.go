package server

import (
	"sync"

	"genoscope/models/dtos"
)

// pendingCall is one in-flight UI round-trip. A closed done channel
// means the owning client disconnected before answering.
type pendingCall struct {
	clientId string
	done     chan *dtos.Frame
}

type pendingTable struct {
	mutex sync.Mutex
	calls map[string]*pendingCall
}

func newPendingTable() *pendingTable {
	return &pendingTable{calls: map[string]*pendingCall{}}
}

func (t *pendingTable) add(requestId, clientId string) *pendingCall {
	call := &pendingCall{clientId: clientId, done: make(chan *dtos.Frame, 1)}
	t.mutex.Lock()
	t.calls[requestId] = call
	t.mutex.Unlock()
	return call
}

// resolve delivers the UI's answer and retires the entry.
func (t *pendingTable) resolve(requestId string, frame *dtos.Frame) bool {
	t.mutex.Lock()
	call, ok := t.calls[requestId]
	if ok {
		delete(t.calls, requestId)
	}
	t.mutex.Unlock()
	if !ok {
		return false
	}
	call.done <- frame
	return true
}

func (t *pendingTable) remove(requestId string) {
	t.mutex.Lock()
	delete(t.calls, requestId)
	t.mutex.Unlock()
}

// rejectClient closes every call owned by clientId; waiters observe
// the closed channel and fail with unavailable.
func (t *pendingTable) rejectClient(clientId string) {
	t.mutex.Lock()
	for requestId, call := range t.calls {
		if call.clientId == clientId {
			delete(t.calls, requestId)
			close(call.done)
		}
	}
	t.mutex.Unlock()
}

func (t *pendingTable) size() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.calls)
}
