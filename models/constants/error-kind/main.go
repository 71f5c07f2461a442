package errorKind

import "genoscope/models/constants"

const (
	InvalidParams constants.ErrorKind = "invalid_params"
	NotFound      constants.ErrorKind = "not_found"
	Unavailable   constants.ErrorKind = "unavailable"
	Timeout       constants.ErrorKind = "timeout"
	Upstream      constants.ErrorKind = "upstream"
	Internal      constants.ErrorKind = "internal"
)

// JsonRpcCode maps the taxonomy onto JSON-RPC error codes. The
// framing codes (-32700, -32600, -32601) are emitted directly by the
// server; everything a tool handler can produce goes through here.
func JsonRpcCode(kind constants.ErrorKind) int {
	switch kind {
	case InvalidParams:
		return -32602
	case NotFound:
		return -32001
	case Unavailable:
		return -32002
	case Timeout:
		return -32003
	case Upstream:
		return -32004
	case Internal:
		return -32603
	default:
		return -32603
	}
}
