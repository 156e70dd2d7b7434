// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires the college site into WAFFLE's lifecycle. Background work
// begins in OnReady, after the listener is up.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "collegesite",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectDB,
	EnsureSchema:   EnsureSchema,
	Startup:        Startup,
	BuildHandler:   BuildHandler,
	OnReady:        OnReady,
	Shutdown:       Shutdown,
}
