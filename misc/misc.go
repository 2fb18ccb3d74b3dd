// Package misc keeps program identification helpers in one place so they can
// be used from both CLI and configuration code without import cycles.
package misc

import (
	"runtime/debug"
)

// Set at build time via -ldflags, falls back to module build info.
var (
	appName = "scssmig"
	version = ""
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	if len(version) != 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "(devel)" && len(bi.Main.Version) != 0 {
		return bi.Main.Version
	}
	return "development"
}

func GetGitHash() string {
	if len(gitHash) != 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				if len(s.Value) > 12 {
					return s.Value[:12]
				}
				return s.Value
			}
		}
	}
	return "unknown"
}
