package go_canto

import (
	"fmt"
	"runtime"
)

func VersionNumberString() string {
	// TODO: we probably want a commit hash for non-debug binaries
	return "dev"
}

func VersionString() string {
	return fmt.Sprintf("go-canto %s", VersionNumberString())
}

func UserAgent() string {
	return fmt.Sprintf("go-canto/%s Go/%s", VersionNumberString(), runtime.Version())
}
