package handler

import (
	"github.com/Beikwaw/RezTek/internal/inventory"
	"github.com/Beikwaw/RezTek/internal/maintenance"
	"github.com/Beikwaw/RezTek/internal/realtime"
	"github.com/Beikwaw/RezTek/internal/storage"
	"github.com/Beikwaw/RezTek/pkg/config"
)

// Handler dependencies, wired once at startup by cmd/portal. The engines are
// constructed with their own injected database handle; handlers never reach
// for ambient state beyond these.
var (
	requests *maintenance.Engine
	stock    *inventory.Engine
	images   *storage.ImageStore
	feed     *realtime.Hub
	adminCfg config.AdminConfig
)

// Init wires the handler package's dependencies.
func Init(requestEngine *maintenance.Engine, stockEngine *inventory.Engine, imageStore *storage.ImageStore, hub *realtime.Hub, admin config.AdminConfig) {
	requests = requestEngine
	stock = stockEngine
	images = imageStore
	feed = hub
	adminCfg = admin
}
