// Package compileinfo reports the version control state a binary was built
// from, as recorded by the Go toolchain.
package compileinfo

import (
	"fmt"
	"runtime/debug"
)

type CompileInfo struct {
	Module     string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Commit == "" {
		return fmt.Sprintf("%s built with %s from an unknown commit", c.Module, c.GoVersion)
	}

	mod := ""
	if c.Modified {
		mod = " with local modifications"
	}
	return fmt.Sprintf("%s built with %s at commit %s (%s)%s", c.Module, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Version is a short identifier of the build suitable for --version.
func (c CompileInfo) Version() string {
	if c.Commit == "" {
		return "devel"
	}

	v := c.Commit
	if len(v) > 12 {
		v = v[:12]
	}
	if c.Modified {
		v += "-dirty"
	}
	return v
}

func Get() CompileInfo {
	out := CompileInfo{Module: "ibdprep"}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	if z.Main.Path != "" {
		out.Module = z.Main.Path
	}
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
