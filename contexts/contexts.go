package contexts

import (
	"genoscope/models"
	"genoscope/server"

	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  the rpc service and other variables
	GenoscopeContext struct {
		echo.Context
		Config     *models.Config
		RpcService *server.Service
	}
)
