// Package version carries build information for the duckcheck CLI. The
// variables are overridden at build time via -ldflags.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = "" // ISO-8601
)

// Commit returns GitCommit, falling back to the VCS revision embedded by
// the go tool.
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}

// Banner renders the version line, with each semver component in its own
// color when colorize is set.
func Banner(colorize bool) string {
	major := color.New(color.FgYellow, color.Bold)
	minor := color.New(color.FgGreen, color.Bold)
	patch := color.New(color.FgBlue, color.Bold)
	for _, c := range []*color.Color{major, minor, patch} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	var v string
	if len(parts) == 3 {
		v = major.Sprint(parts[0]) + "." + minor.Sprint(parts[1]) + "." + patch.Sprint(parts[2])
	} else {
		v = core
	}
	if suffix != "" {
		v += "-" + suffix
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "duckcheck %s", v)
	if commit := Commit(); commit != "" {
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&sb, " (%s", commit)
		if BuildDate != "" {
			fmt.Fprintf(&sb, ", %s", BuildDate)
		}
		sb.WriteString(")")
	}
	if GitMessage != "" {
		fmt.Fprintf(&sb, "\n%s", GitMessage)
	}
	return sb.String()
}
