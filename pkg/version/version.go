// Package version reports which fileagg build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Overridden with -ldflags "-X fileagg/pkg/version.Version=1.2.3". When left
// at their defaults, Get falls back to the module and VCS data the Go
// toolchain stamps into the binary.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

const shortCommitLen = 7

// Info describes the running binary.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	Modified  bool // Built from a working tree with uncommitted changes.
	GoVersion string
	Platform  string
}

// Get returns the build information of the running binary.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = info.withBuildInfo(bi)
	}
	return info
}

// withBuildInfo fills the fields still at their defaults from bi.
func (i Info) withBuildInfo(bi *debug.BuildInfo) Info {
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == "none" && s.Value != "" {
				i.Commit = s.Value
			}
		case "vcs.time":
			if i.BuildTime == "unknown" && s.Value != "" {
				i.BuildTime = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
	return i
}

// ShortCommit returns the first seven characters of the commit hash.
func (i Info) ShortCommit() string {
	if len(i.Commit) > shortCommitLen {
		return i.Commit[:shortCommitLen]
	}
	return i.Commit
}

// String renders a line such as
// "fileagg 1.2.3 (abcdefg+dirty, 2024-04-27T15:04:05Z) go1.23.1 linux/amd64".
func (i Info) String() string {
	var meta []string
	commit := i.ShortCommit()
	if i.Modified {
		commit += "+dirty"
	}
	meta = append(meta, commit)
	if i.BuildTime != "unknown" {
		meta = append(meta, i.BuildTime)
	}
	return fmt.Sprintf("fileagg %s (%s) %s %s",
		i.Version, strings.Join(meta, ", "), i.GoVersion, i.Platform)
}
