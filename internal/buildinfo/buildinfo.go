package buildinfo

import "runtime/debug"

// Ces variables sont injectées à la release via -ldflags :
//
//	-X github.com/Guilhem-Bonnet/showwatch/internal/buildinfo.Version=v0.3.0
//	-X github.com/Guilhem-Bonnet/showwatch/internal/buildinfo.Commit=abcdef
//	-X github.com/Guilhem-Bonnet/showwatch/internal/buildinfo.Date=2026-01-18
//
// Sans ldflags (go install, go run), Current complète Commit/Date depuis les
// infos VCS embarquées par le toolchain.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	Dirty   bool   `json:"dirty,omitempty"`
}

func Current() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fromSettings(info, bi.Settings)
	}
	return info
}

func fromSettings(info Info, settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

func (i Info) String() string {
	s := i.Version
	if i.Commit != "" {
		c := i.Commit
		if len(c) > 12 {
			c = c[:12]
		}
		s += " (" + c
		if i.Dirty {
			s += "-dirty"
		}
		s += ")"
	}
	return s
}
