package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"genoscope/models"
	"genoscope/models/dtos"
	"genoscope/models/dtos/errors"
	"genoscope/tools"

	"github.com/google/uuid"
)

const defaultProtocolVersion = "2024-11-05"

// Service is the JSON-RPC tool server: one catalog, one pending-call
// table, one UI hub, many interleaved requests.
type Service struct {
	Config   *models.Config
	Registry *tools.Registry

	hub     *Hub
	pending *pendingTable
	sse     *sseRegistry

	socketMutex sync.Mutex
	sockets     map[*wsConn]struct{}

	stateMutex  sync.RWMutex
	initialized bool
	ready       bool
}

func NewService(cfg *models.Config, registry *tools.Registry) *Service {
	return &Service{
		Config:   cfg,
		Registry: registry,
		hub:      newHub(),
		pending:  newPendingTable(),
		sse:      newSseRegistry(),
		sockets:  map[*wsConn]struct{}{},
	}
}

func (s *Service) trackSocket(socket *wsConn) {
	s.socketMutex.Lock()
	s.sockets[socket] = struct{}{}
	s.socketMutex.Unlock()
}

func (s *Service) untrackSocket(socket *wsConn) {
	s.socketMutex.Lock()
	delete(s.sockets, socket)
	s.socketMutex.Unlock()
}

// Shutdown retires every UI client, failing their in-flight calls,
// then closes the remaining sockets. HTTP server shutdown does not
// reach hijacked WebSocket connections, so the service closes them
// itself; each read loop then exits on its own.
func (s *Service) Shutdown() {
	for _, client := range s.hub.snapshot() {
		s.disconnect(client)
	}
	s.socketMutex.Lock()
	sockets := make([]*wsConn, 0, len(s.sockets))
	for socket := range s.sockets {
		sockets = append(sockets, socket)
	}
	s.socketMutex.Unlock()
	for _, socket := range sockets {
		_ = socket.Close()
	}
}

// UiTimeout is how long a UI-targeted dispatch waits for its reply.
func (s *Service) UiTimeout() time.Duration {
	ms := s.Config.Server.UiCallTimeoutMs
	if ms <= 0 {
		ms = 30000
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *Service) acceptedInitialize() bool {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.initialized
}

// Ready reports whether the initialized notification has arrived.
func (s *Service) Ready() bool {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.ready
}

// HandleMessage processes one raw JSON-RPC message and returns the
// encoded response, or nil for notifications.
func (s *Service) HandleMessage(ctx context.Context, raw []byte) []byte {
	var request RpcRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return encodeResponse(newError(nil, codeParseError, fmt.Sprintf("parse error: %s", err)))
	}
	if request.Jsonrpc != "2.0" || request.Method == "" {
		if request.IsNotification() {
			return nil
		}
		return encodeResponse(newError(request.Id, codeInvalidRequest, "invalid request"))
	}

	response := s.dispatch(ctx, &request)
	if request.IsNotification() || response == nil {
		return nil
	}
	return encodeResponse(response)
}

func (s *Service) dispatch(ctx context.Context, request *RpcRequest) *RpcResponse {
	switch request.Method {
	case "initialize":
		return s.handleInitialize(request)
	case "initialized", "notifications/initialized":
		s.stateMutex.Lock()
		s.ready = true
		s.stateMutex.Unlock()
		return nil
	case "ping":
		return newResult(request.Id, map[string]interface{}{})
	case "tools/list":
		if !s.acceptedInitialize() {
			return newToolError(request.Id, errors.NewUnavailable("server not initialized"))
		}
		return newResult(request.Id, map[string]interface{}{"tools": s.Registry.Descriptors()})
	case "tools/call":
		if !s.acceptedInitialize() {
			return newToolError(request.Id, errors.NewUnavailable("server not initialized"))
		}
		return s.handleToolCall(ctx, request)
	}
	return newError(request.Id, codeMethodNotFound, fmt.Sprintf("method '%s' not found", request.Method))
}

func (s *Service) handleInitialize(request *RpcRequest) *RpcResponse {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	_ = json.Unmarshal(request.Params, &params)
	if params.ProtocolVersion == "" {
		params.ProtocolVersion = defaultProtocolVersion
	}

	s.stateMutex.Lock()
	s.initialized = true
	s.stateMutex.Unlock()

	return newResult(request.Id, map[string]interface{}{
		"protocolVersion": params.ProtocolVersion,
		"serverInfo": map[string]interface{}{
			"name":    s.Config.Server.Name,
			"version": s.Config.Server.Version,
		},
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{"listChanged": true},
		},
	})
}

func (s *Service) handleToolCall(ctx context.Context, request *RpcRequest) *RpcResponse {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(request.Params, &params); err != nil || params.Name == "" {
		return newToolError(request.Id, errors.NewInvalidParams("tools/call params require a tool name"))
	}

	fmt.Printf("[%s] - Tool call '%s' hit!\n", time.Now(), params.Name)

	result, err := s.Registry.Call(ctx, params.Name, params.Arguments)
	if err != nil {
		return newToolError(request.Id, err)
	}
	envelope, err := dtos.NewTextResult(result)
	if err != nil {
		return newToolError(request.Id, errors.NewInternal(fmt.Sprintf("encoding tool result: %s", err)))
	}
	return newResult(request.Id, envelope)
}

// DispatchUI is the Dispatcher for UI-targeted tools: it forwards an
// execute-tool frame to the newest UI client and waits for the
// correlated tool-response.
func (s *Service) DispatchUI(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	client := s.hub.primary()
	if client == nil {
		return nil, errors.NewUnavailable("no UI client connected")
	}

	requestId := uuid.New().String()
	call := s.pending.add(requestId, client.Id)

	frame := &dtos.Frame{
		Type:       dtos.FrameExecuteTool,
		ClientId:   client.Id,
		RequestId:  requestId,
		ToolName:   name,
		Parameters: args,
	}
	if err := client.SendFrame(frame); err != nil {
		s.pending.remove(requestId)
		return nil, errors.NewUnavailable(fmt.Sprintf("forwarding to UI failed: %s", err))
	}

	select {
	case reply, ok := <-call.done:
		if !ok || reply == nil {
			return nil, errors.NewUnavailable("UI client disconnected before answering")
		}
		if !reply.Success {
			return nil, errors.NewInternal(reply.Error)
		}
		var result interface{}
		if len(reply.Result) > 0 {
			if err := json.Unmarshal(reply.Result, &result); err != nil {
				return nil, errors.NewInternal(fmt.Sprintf("bad UI result payload: %s", err))
			}
		}
		return result, nil
	case <-time.After(s.UiTimeout()):
		s.pending.remove(requestId)
		return nil, errors.NewTimeout(fmt.Sprintf("UI did not answer tool '%s' within %s", name, s.UiTimeout()))
	case <-ctx.Done():
		s.pending.remove(requestId)
		return nil, errors.NewTimeout(fmt.Sprintf("tool '%s' abandoned: %s", name, ctx.Err()))
	}
}

// LatestState returns the last state-update any UI pushed, if any.
func (s *Service) LatestState() *dtos.BrowserState {
	return s.hub.state()
}

func (s *Service) ClientCount() int {
	return s.hub.count()
}

func encodeResponse(response *RpcResponse) []byte {
	encoded, err := json.Marshal(response)
	if err != nil {
		fallback := newError(response.Id, codeInternalError, "response encoding failed")
		encoded, _ = json.Marshal(fallback)
	}
	return encoded
}

// Preflight verifies the listen ports are free before any transport
// starts, so a busy port fails fast with a clear message.
func Preflight(ports ...string) error {
	for _, port := range ports {
		listener, err := net.Listen("tcp", ":"+port)
		if err != nil {
			return fmt.Errorf("port %s is unavailable: %w", port, err)
		}
		listener.Close()
	}
	return nil
}
