package tui

import (
	"encoding/json"
	"fmt"
	"sync"

	"genoscope/models/dtos"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

type frameEnvelope = dtos.Frame

// Bridge is the UI side of the tool server link: it identifies this
// process as the browser, answers execute-tool frames and pushes
// state updates.
type Bridge struct {
	url string

	mutex    sync.Mutex
	conn     *websocket.Conn
	clientId string

	frames chan frameEnvelope
}

func NewBridge(serverUrl string) *Bridge {
	return &Bridge{url: serverUrl, frames: make(chan frameEnvelope, 16)}
}

// connectCmd dials the server and waits for its connection frame; the
// read loop then pumps every later frame into the channel.
func (b *Bridge) connectCmd() tea.Cmd {
	return func() tea.Msg {
		conn, _, err := websocket.DefaultDialer.Dial(b.url, nil)
		if err != nil {
			return bridgeLostMsg{err: err}
		}

		// Identify as the browser; the server only treats peers that
		// announce themselves as UI dispatch targets.
		if err := conn.WriteJSON(&frameEnvelope{Type: dtos.FrameConnection}); err != nil {
			conn.Close()
			return bridgeLostMsg{err: err}
		}

		var hello frameEnvelope
		if err := conn.ReadJSON(&hello); err != nil || hello.Type != dtos.FrameConnection {
			conn.Close()
			return bridgeLostMsg{err: fmt.Errorf("no connection frame from server")}
		}

		b.mutex.Lock()
		b.conn = conn
		b.clientId = hello.ClientId
		b.mutex.Unlock()

		go b.readLoop(conn)
		return bridgeConnectedMsg{clientId: hello.ClientId}
	}
}

func (b *Bridge) readLoop(conn *websocket.Conn) {
	defer close(b.frames)
	for {
		var frame frameEnvelope
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		b.frames <- frame
	}
}

// waitForFrame yields the next server frame as a tea message; the
// model re-arms it after handling each one.
func (b *Bridge) waitForFrame() tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-b.frames
		if !ok {
			return bridgeLostMsg{}
		}
		return bridgeFrameMsg{frame: frame}
	}
}

func (b *Bridge) send(frame *frameEnvelope) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.conn == nil {
		return fmt.Errorf("not connected")
	}
	return b.conn.WriteJSON(frame)
}

func (b *Bridge) pushState(state *dtos.BrowserState) {
	_ = b.send(&frameEnvelope{
		Type:     dtos.FrameStateUpdate,
		ClientId: b.clientId,
		State:    state,
	})
}

func (b *Bridge) sendToolResponse(requestId string, result interface{}, toolErr error) {
	frame := &frameEnvelope{
		Type:      dtos.FrameToolResponse,
		ClientId:  b.clientId,
		RequestId: requestId,
	}
	if toolErr != nil {
		frame.Error = toolErr.Error()
	} else {
		encoded, err := json.Marshal(result)
		if err != nil {
			frame.Error = fmt.Sprintf("encoding result: %s", err)
		} else {
			frame.Success = true
			frame.Result = encoded
		}
	}
	_ = b.send(frame)
}

// handleBridgeFrame answers server frames; tool execution happens
// here, inside the event loop, against the live model.
func (m Model) handleBridgeFrame(msg bridgeFrameMsg) (tea.Model, tea.Cmd) {
	frame := msg.frame
	switch frame.Type {
	case dtos.FrameExecuteTool:
		result, err := m.executeUITool(frame.ToolName, frame.Parameters)
		m.bridge.sendToolResponse(frame.RequestId, result, err)
		if err == nil {
			m.status = fmt.Sprintf("agent ran %s", frame.ToolName)
			m = m.pushState()
		}
	case dtos.FrameTools:
		// Catalog push; nothing to do, the UI does not invoke tools.
	}
	return m, m.bridge.waitForFrame()
}
