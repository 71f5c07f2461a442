package mvc

import (
	"genoscope/contexts"
	"genoscope/models"
	"genoscope/server"

	"github.com/labstack/echo"
)

func RetrieveCommonElements(c echo.Context) (*server.Service, *models.Config) {
	gc := c.(*contexts.GenoscopeContext)
	return gc.RpcService, gc.Config
}
