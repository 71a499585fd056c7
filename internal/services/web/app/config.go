package app

import (
	module "github.com/louisbranch/teamdesk/internal/services/web/module"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/requestmeta"
)

// Config captures the composition inputs for the web root handler.
type Config struct {
	PublicModules    []module.Module
	ProtectedModules []module.Module
	SchemePolicy     requestmeta.SchemePolicy
}
