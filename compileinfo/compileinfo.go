// Package compileinfo reports which commit a freqplot binary was built from.
package compileinfo

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Package == "" {
		return "Build information is unavailable for this binary."
	}

	commit := c.Commit
	if commit == "" {
		commit = "(unknown)"
	}

	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("%s %s was built with %s at commit %s (%s).%s", c.Package, c.Version, c.GoVersion, commit, c.CommitTime, mod)
}

// FromBuildInfo extracts the fields of interest from b.
func FromBuildInfo(b *debug.BuildInfo) CompileInfo {
	out := CompileInfo{}
	if b == nil {
		return out
	}

	out.GoVersion = b.GoVersion
	out.Package = b.Path
	out.Version = b.Main.Version
	for _, s := range b.Settings {
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

func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return FromBuildInfo(z)
}

func Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s\n", Get())
}

func PrintToStdErr() {
	Fprint(os.Stderr)
}
