package core

import (
	"fmt"

	"go.uber.org/zap"
)

// Version is resolved once at startup. The -ldflags build value wins
// over the --version flag; with neither, NoVersion is reported.
var Version string

const NoVersion = "unversioned"

func SetVersion(c *Conf, versionByBuildFlag string) {
	switch {
	case versionByBuildFlag != "":
		Version = versionByBuildFlag
	case c.Version != "":
		Version = c.Version
	default:
		Version = NoVersion
	}
	zap.L().Info(fmt.Sprintf("h2c version:%s", Version))
}
