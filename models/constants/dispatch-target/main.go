package dispatchTarget

import "genoscope/models/constants"

const (
	// Local tools are pure compute answered inside the server process.
	Local constants.DispatchTarget = "local"
	// UI tools round-trip to a connected browser client.
	UI constants.DispatchTarget = "ui"
	// Remote tools delegate to an external HTTPS service.
	Remote constants.DispatchTarget = "remote"
)
