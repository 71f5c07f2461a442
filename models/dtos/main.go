package dtos

import (
	"encoding/json"

	"genoscope/models/constants"
)

// ---- tools/call result envelope

type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// NewTextResult wraps a domain result as the single text content item
// the envelope requires; the text is the JSON encoding of the result.
func NewTextResult(result interface{}) (*ToolResult, error) {
	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &ToolResult{
		Content: []ToolContent{{Type: "text", Text: string(encoded)}},
	}, nil
}

// ---- UI <-> server auxiliary frames (WebSocket / SSE)

type Frame struct {
	Type       string                 `json:"type"`
	ClientId   string                 `json:"clientId,omitempty"`
	RequestId  string                 `json:"requestId,omitempty"`
	ToolName   string                 `json:"toolName,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Success    bool                   `json:"success,omitempty"`
	Result     json.RawMessage        `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
	State      *BrowserState          `json:"state,omitempty"`
	Tools      json.RawMessage        `json:"tools,omitempty"`
}

const (
	FrameConnection   = "connection"
	FrameTools        = "tools"
	FrameExecuteTool  = "execute-tool"
	FrameToolResponse = "tool-response"
	FrameStateUpdate  = "state-update"
)

// BrowserState is the `state-update` payload pushed by the UI.
type BrowserState struct {
	Chromosome    string                `json:"chromosome"`
	Start         int                   `json:"start"`
	End           int                   `json:"end"`
	LoadedFiles   []string              `json:"loadedFiles"`
	VisibleTracks []constants.TrackKind `json:"visibleTracks"`
}
