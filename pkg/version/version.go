package version

// Application version information, set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = ""
)

// String returns the version with the commit hash appended when known.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
