package codemap

import "strings"

// Backend names the analysis implementation behind a run. Only the
// text-scanning fallback is implemented; "auto" resolves to it.
type Backend struct {
	Name   string
	Reason string
}

// SelectBackend resolves a requested backend name. Everything resolves
// to the fallback scanner; unknown names carry an explanatory reason so
// commands can warn.
func SelectBackend(requested string) Backend {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case "fallback":
		return Backend{Name: "fallback", Reason: "requested fallback"}
	case "auto", "":
		return Backend{Name: "fallback", Reason: "text-scanning backend"}
	default:
		return Backend{Name: "fallback", Reason: "unknown backend '" + requested + "', using fallback"}
	}
}
