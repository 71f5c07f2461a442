package server

import (
	"bytes"
	"encoding/json"

	errorKind "genoscope/models/constants/error-kind"
	"genoscope/models/dtos/errors"
)

// JSON-RPC 2.0 framing codes; taxonomy errors carry their own codes
// via errorKind.JsonRpcCode.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInternalError  = -32603
)

type RpcRequest struct {
	Jsonrpc string          `json:"jsonrpc"`
	Id      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id and thus
// expects no response.
func (r *RpcRequest) IsNotification() bool {
	return len(r.Id) == 0 || bytes.Equal(r.Id, []byte("null"))
}

type RpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type RpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	Id      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RpcError       `json:"error,omitempty"`
}

func newResult(id json.RawMessage, result interface{}) *RpcResponse {
	return &RpcResponse{Jsonrpc: "2.0", Id: idOrNull(id), Result: result}
}

func newError(id json.RawMessage, code int, message string) *RpcResponse {
	return &RpcResponse{Jsonrpc: "2.0", Id: idOrNull(id), Error: &RpcError{Code: code, Message: message}}
}

// newToolError maps a handler error onto the taxonomy's JSON-RPC code.
func newToolError(id json.RawMessage, err error) *RpcResponse {
	kind := errors.KindOf(err)
	return &RpcResponse{
		Jsonrpc: "2.0",
		Id:      idOrNull(id),
		Error: &RpcError{
			Code:    errorKind.JsonRpcCode(kind),
			Message: err.Error(),
			Data:    map[string]interface{}{"kind": kind},
		},
	}
}

func idOrNull(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
