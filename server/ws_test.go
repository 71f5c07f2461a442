package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	errorKind "genoscope/models/constants/error-kind"
	"genoscope/models/dtos"
	"genoscope/models/dtos/errors"
	"genoscope/tools"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUIService() *Service {
	registry := tools.NewRegistry()
	tools.RegisterLocals(registry)
	service := NewService(testConfig(), registry)
	tools.RegisterUI(registry, service.DispatchUI)
	return service
}

func dialSocket(t *testing.T, httpUrl string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(httpUrl, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

// identifyAsUI performs the browser handshake and returns the
// assigned client id.
func identifyAsUI(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.WriteJSON(&dtos.Frame{Type: dtos.FrameConnection}))

	var hello dtos.Frame
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, dtos.FrameConnection, hello.Type)
	require.NotEmpty(t, hello.ClientId)

	var catalog dtos.Frame
	require.NoError(t, conn.ReadJSON(&catalog))
	require.Equal(t, dtos.FrameTools, catalog.Type)
	return hello.ClientId
}

func TestSocketAgentNeverBecomesDispatchTarget(t *testing.T) {
	service := testUIService()
	httpServer := httptest.NewServer(service.WebSocketHandler())
	defer httpServer.Close()

	conn := dialSocket(t, httpServer.URL)
	defer conn.Close()

	// A plain JSON-RPC peer gets answers but is never hub-registered.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	response := decode(t, raw)
	assert.Equal(t, json.RawMessage("1"), response.Id)
	assert.Equal(t, 0, service.ClientCount())

	// With no UI connected, a UI-targeted dispatch fails immediately
	// instead of timing out against the agent's socket.
	_, dispatchErr := service.DispatchUI(context.Background(), "get_browser_state", nil)
	require.Error(t, dispatchErr)
	assert.Equal(t, errorKind.Unavailable, errors.KindOf(dispatchErr))
}

func TestSocketUIHandshakeRegisters(t *testing.T) {
	service := testUIService()
	httpServer := httptest.NewServer(service.WebSocketHandler())
	defer httpServer.Close()

	conn := dialSocket(t, httpServer.URL)
	defer conn.Close()

	identifyAsUI(t, conn)
	assert.Equal(t, 1, service.ClientCount())
}

// The socket must keep serving requests while a UI round-trip is in
// flight on it; a single browser shell both answers execute-tool
// frames and issues its own calls over one connection.
func TestSocketServesRequestsDuringUIRoundTrip(t *testing.T) {
	service := testUIService()
	httpServer := httptest.NewServer(service.WebSocketHandler())
	defer httpServer.Close()

	conn := dialSocket(t, httpServer.URL)
	defer conn.Close()

	identifyAsUI(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Nil(t, decode(t, raw).Error)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"jsonrpc":"2.0","method":"initialized"}`)))

	// The UI-targeted call goes out, then a ping chases it before any
	// tool-response exists.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_browser_state","arguments":{}}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"jsonrpc":"2.0","id":3,"method":"ping"}`)))

	var execute *dtos.Frame
	pongSeen := false
	for execute == nil || !pongSeen {
		_, raw, readErr := conn.ReadMessage()
		require.NoError(t, readErr)
		if strings.Contains(string(raw), `"jsonrpc"`) {
			response := decode(t, raw)
			require.Equal(t, json.RawMessage("3"), response.Id)
			pongSeen = true
			continue
		}
		var frame dtos.Frame
		require.NoError(t, json.Unmarshal(raw, &frame))
		require.Equal(t, dtos.FrameExecuteTool, frame.Type)
		execute = &frame
	}
	assert.Equal(t, "get_browser_state", execute.ToolName)

	// Answering the frame completes the original call.
	require.NoError(t, conn.WriteJSON(&dtos.Frame{
		Type:      dtos.FrameToolResponse,
		RequestId: execute.RequestId,
		Success:   true,
		Result:    json.RawMessage(`{"chromosome":"chr1"}`),
	}))
	_, raw, err = conn.ReadMessage()
	require.NoError(t, err)
	response := decode(t, raw)
	assert.Equal(t, json.RawMessage("2"), response.Id)
	require.Nil(t, response.Error)
	assert.Equal(t, 0, service.pending.size())
}

func TestShutdownClosesSocketsAndRejectsPending(t *testing.T) {
	service := testUIService()
	httpServer := httptest.NewServer(service.WebSocketHandler())
	defer httpServer.Close()

	conn := dialSocket(t, httpServer.URL)
	defer conn.Close()

	identifyAsUI(t, conn)

	dispatched := make(chan error, 1)
	go func() {
		_, err := service.DispatchUI(context.Background(), "get_browser_state", nil)
		dispatched <- err
	}()
	require.Eventually(t, func() bool { return service.pending.size() == 1 },
		2*time.Second, 10*time.Millisecond)

	service.Shutdown()

	select {
	case err := <-dispatched:
		require.Error(t, err)
		assert.Equal(t, errorKind.Unavailable, errors.KindOf(err))
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch not rejected by shutdown")
	}
	assert.Equal(t, 0, service.ClientCount())
	assert.Equal(t, 0, service.pending.size())

	// The underlying socket is really gone.
	_, _, readErr := conn.ReadMessage()
	assert.Error(t, readErr)
}
