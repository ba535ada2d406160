// Package version reports the usbtree release and build details.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Current is the usbtree release. Release builds override it with
// -ldflags "-X github.com/Nicoretti/usb-info/pkg/version.Current=...".
var Current = "0.3.0"

// Info describes the running binary.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Revision  string `json:"revision,omitempty" yaml:"revision,omitempty"`
	Modified  bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// Get returns the build information of the running binary.
func Get() Info {
	info := Info{Version: Current, GoVersion: runtime.Version()}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String returns a one-line summary such as "0.3.0 (go1.25.5, rev 1a2b3c4)".
func (i Info) String() string {
	if i.Revision == "" {
		return fmt.Sprintf("%s (%s)", i.Version, i.GoVersion)
	}
	rev := i.Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if i.Modified {
		rev += "-dirty"
	}
	return fmt.Sprintf("%s (%s, rev %s)", i.Version, i.GoVersion, rev)
}
