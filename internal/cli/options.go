package cli

import (
	"github.com/aretw0/formflow/internal/config"
)

// Options contains the configuration shared by the commands.
type Options struct {
	Config *config.Config
	Debug  bool

	// Run only
	Headless bool
	JSON     bool
	FlowID   string

	// MCP only
	Transport string
	Port      int
}
