package brew

// Package represents one formula as reported by the vendored Homebrew.
// Records are only constructed from brew output (info or list), never
// hand-built with invented version or bottle data.
type Package struct {
	Name    string
	Version string
	// Bottled is true when a precompiled binary artifact is used for the
	// formula. brew list --versions does not expose bottle status, so
	// records returned by List always report false here; only Info-derived
	// records carry a meaningful value.
	Bottled bool
}
