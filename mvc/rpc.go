package mvc

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/labstack/echo"
)

// maxRpcBody caps inbound JSON-RPC messages.
const maxRpcBody = 4 << 20

// GetServiceInfo describes the running tool server.
func GetServiceInfo(c echo.Context) error {
	rpc, cfg := RetrieveCommonElements(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":      cfg.Server.Name,
		"version":   cfg.Server.Version,
		"ready":     rpc.Ready(),
		"uiClients": rpc.ClientCount(),
	})
}

// PostRpc is the plain-HTTP JSON-RPC transport: one message per POST,
// 204 for notifications.
func PostRpc(c echo.Context) error {
	rpc, _ := RetrieveCommonElements(c)

	raw, err := ioutil.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxRpcBody))
	if err != nil {
		return c.NoContent(http.StatusRequestEntityTooLarge)
	}

	response := rpc.HandleMessage(c.Request().Context(), raw)
	if response == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSONBlob(http.StatusOK, response)
}

// GetEvents opens the SSE stream. The first event names the companion
// endpoint the client must POST its messages to; every response is
// then delivered as a message event on this stream.
func GetEvents(c echo.Context) error {
	rpc, _ := RetrieveCommonElements(c)

	response := c.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set("Cache-Control", "no-cache")
	response.Header().Set("Connection", "keep-alive")
	response.WriteHeader(http.StatusOK)

	client := rpc.OpenEventStream()
	defer rpc.CloseEventStream(client.Id)
	fmt.Printf("[%s] - SSE client %s connected\n", time.Now(), client.Id)

	fmt.Fprintf(response, "event: endpoint\ndata: /messages?clientId=%s\n\n", client.Id)
	response.Flush()

	for {
		select {
		case payload, ok := <-client.Events:
			if !ok {
				return nil
			}
			fmt.Fprintf(response, "event: message\ndata: %s\n\n", payload)
			response.Flush()
		case <-c.Request().Context().Done():
			return nil
		}
	}
}

// PostMessage is the SSE companion endpoint: the message is handled
// and its response pushed onto the caller's event stream.
func PostMessage(c echo.Context) error {
	rpc, _ := RetrieveCommonElements(c)

	clientId := c.QueryParam("clientId")
	if clientId == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "clientId query parameter required"})
	}

	raw, err := ioutil.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxRpcBody))
	if err != nil {
		return c.NoContent(http.StatusRequestEntityTooLarge)
	}

	response := rpc.HandleMessage(c.Request().Context(), raw)
	if response != nil && !rpc.PushEvent(clientId, response) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown or saturated event stream"})
	}
	return c.NoContent(http.StatusAccepted)
}
