package formflow

import _ "embed"

// Version is the release of the formflow module, read from the VERSION file.
//
//go:embed VERSION
var Version string
