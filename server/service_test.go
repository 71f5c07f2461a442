package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"genoscope/models"
	"genoscope/models/dtos"
	"genoscope/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *models.Config {
	cfg := &models.Config{}
	cfg.Server.Name = "genoscope-tools"
	cfg.Server.Version = "1.0.0"
	cfg.Server.UiCallTimeoutMs = 30000
	return cfg
}

func testService() *Service {
	registry := tools.NewRegistry()
	tools.RegisterLocals(registry)
	return NewService(testConfig(), registry)
}

func initialize(t *testing.T, s *Service) {
	t.Helper()
	response := s.HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`))
	require.NotNil(t, response)
	assert.Nil(t, s.HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","method":"initialized"}`)))
}

func decode(t *testing.T, raw []byte) *RpcResponse {
	t.Helper()
	var response RpcResponse
	require.NoError(t, json.Unmarshal(raw, &response))
	return &response
}

func TestInitializeResult(t *testing.T) {
	s := testService()
	raw := s.HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":7,"method":"initialize","params":{"protocolVersion":"2025-01-01"}}`))
	response := decode(t, raw)

	assert.Equal(t, json.RawMessage("7"), response.Id)
	require.Nil(t, response.Error)
	result := response.Result.(map[string]interface{})
	assert.Equal(t, "2025-01-01", result["protocolVersion"])
	serverInfo := result["serverInfo"].(map[string]interface{})
	assert.Equal(t, "genoscope-tools", serverInfo["name"])
	capabilities := result["capabilities"].(map[string]interface{})
	toolsCap := capabilities["tools"].(map[string]interface{})
	assert.Equal(t, true, toolsCap["listChanged"])

	assert.False(t, s.Ready())
	assert.Nil(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"initialized"}`)))
	assert.True(t, s.Ready())
}

func TestLifecycleGate(t *testing.T) {
	s := testService()

	// tools/call before initialize is rejected.
	raw := s.HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"ping"}}`))
	response := decode(t, raw)
	require.NotNil(t, response.Error)
	assert.Equal(t, -32002, response.Error.Code)

	// ping is always available.
	raw = s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":2,"method":"ping"}`))
	assert.Nil(t, decode(t, raw).Error)
}

func TestToolCallDispatch(t *testing.T) {
	s := testService()
	initialize(t, s)

	raw := s.HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":"call-1","method":"tools/call",`+
			`"params":{"name":"reverse_complement","arguments":{"dna":"ATG"}}}`))
	response := decode(t, raw)
	assert.Equal(t, json.RawMessage(`"call-1"`), response.Id)
	require.Nil(t, response.Error)

	envelope, err := json.Marshal(response.Result)
	require.NoError(t, err)
	var result dtos.ToolResult
	require.NoError(t, json.Unmarshal(envelope, &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Contains(t, result.Content[0].Text, `"CAT"`)
}

func TestToolCallInvalidParams(t *testing.T) {
	s := testService()
	initialize(t, s)

	raw := s.HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":3,"method":"tools/call",`+
			`"params":{"name":"reverse_complement","arguments":{"dna":""}}}`))
	response := decode(t, raw)
	require.NotNil(t, response.Error)
	assert.Equal(t, -32602, response.Error.Code)
}

func TestNotificationsAreSilent(t *testing.T) {
	s := testService()
	initialize(t, s)

	// A request without id produces no response even when it would
	// normally answer.
	assert.Nil(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"ping"}`)))
	assert.Nil(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":null,"method":"ping"}`)))
}

func TestFramingErrors(t *testing.T) {
	s := testService()

	response := decode(t, s.HandleMessage(context.Background(), []byte(`{not json`)))
	assert.Equal(t, codeParseError, response.Error.Code)

	response = decode(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"1.0","id":1,"method":"ping"}`)))
	assert.Equal(t, codeInvalidRequest, response.Error.Code)

	initialize(t, s)
	response = decode(t, s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"no/such"}`)))
	assert.Equal(t, codeMethodNotFound, response.Error.Code)
}

func TestToolsList(t *testing.T) {
	s := testService()
	initialize(t, s)

	raw := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":4,"method":"tools/list"}`))
	response := decode(t, raw)
	require.Nil(t, response.Error)
	listing := response.Result.(map[string]interface{})
	assert.Len(t, listing["tools"], 5)
}

// fakeConn records frames instead of writing to a socket.
type fakeConn struct {
	frames chan *dtos.Frame
	fail   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan *dtos.Frame, 8)}
}

func (f *fakeConn) SendFrame(frame *dtos.Frame) error {
	if f.fail {
		return fmt.Errorf("socket gone")
	}
	f.frames <- frame
	return nil
}

func (f *fakeConn) Close() error { return nil }

func TestDispatchUIRoundTrip(t *testing.T) {
	s := testService()
	conn := newFakeConn()
	client := s.hub.add(conn)

	type outcome struct {
		result interface{}
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := s.DispatchUI(context.Background(), "get_browser_state", map[string]interface{}{})
		done <- outcome{result, err}
	}()

	// The execute-tool frame goes to the newest client with a fresh
	// correlation id.
	frame := <-conn.frames
	assert.Equal(t, dtos.FrameExecuteTool, frame.Type)
	assert.Equal(t, client.Id, frame.ClientId)
	assert.Equal(t, "get_browser_state", frame.ToolName)
	require.NotEmpty(t, frame.RequestId)

	s.handleFrame(&dtos.Frame{
		Type:      dtos.FrameToolResponse,
		RequestId: frame.RequestId,
		Success:   true,
		Result:    json.RawMessage(`{"chromosome":"chr1"}`),
	})

	result := <-done
	require.NoError(t, result.err)
	assert.Equal(t, "chr1", result.result.(map[string]interface{})["chromosome"])
	assert.Equal(t, 0, s.pending.size())
}

func TestDispatchUINoClient(t *testing.T) {
	s := testService()
	_, err := s.DispatchUI(context.Background(), "get_browser_state", nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no UI client"))
}

func TestDispatchUITimeout(t *testing.T) {
	s := testService()
	s.Config.Server.UiCallTimeoutMs = 50
	s.hub.add(newFakeConn())

	start := time.Now()
	_, err := s.DispatchUI(context.Background(), "navigate_to", map[string]interface{}{"position": "100"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not answer")
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 0, s.pending.size())
}

func TestDisconnectRejectsPending(t *testing.T) {
	s := testService()
	conn := newFakeConn()
	client := s.hub.add(conn)

	errCh := make(chan error, 1)
	go func() {
		_, err := s.DispatchUI(context.Background(), "get_browser_state", nil)
		errCh <- err
	}()
	<-conn.frames

	s.disconnect(client)

	err := <-errCh
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disconnected")
	assert.Nil(t, s.hub.primary())
}

func TestStateUpdateFrame(t *testing.T) {
	s := testService()
	assert.Nil(t, s.LatestState())
	s.handleFrame(&dtos.Frame{
		Type:  dtos.FrameStateUpdate,
		State: &dtos.BrowserState{Chromosome: "chr2", Start: 100, End: 200},
	})
	require.NotNil(t, s.LatestState())
	assert.Equal(t, "chr2", s.LatestState().Chromosome)
}

func TestRunStdio(t *testing.T) {
	s := testService()
	input := strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}` + "\n" +
			`{"jsonrpc":"2.0","method":"initialized"}` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"ping"}` + "\n")
	var output strings.Builder

	require.NoError(t, s.RunStdio(context.Background(), input, &output))

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	// Two responses: initialize and ping; the notification is silent.
	assert.Len(t, lines, 2)
	for _, line := range lines {
		var response RpcResponse
		require.NoError(t, json.Unmarshal([]byte(line), &response))
		assert.Nil(t, response.Error)
	}
}

func TestPreflight(t *testing.T) {
	assert.NoError(t, Preflight("0"))
}

func TestSseQueue(t *testing.T) {
	s := testService()
	client := s.OpenEventStream()
	assert.True(t, s.PushEvent(client.Id, []byte(`{"ok":true}`)))
	assert.Equal(t, `{"ok":true}`, string(<-client.Events))

	s.CloseEventStream(client.Id)
	assert.False(t, s.PushEvent(client.Id, []byte(`{}`)))
	_, open := <-client.Events
	assert.False(t, open)
}
