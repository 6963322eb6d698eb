package version

// Overridden at build time with -ldflags "-X github.com/pulumi-idp/idp-console/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// GetFullVersion returns the version line printed by `idpctl version`
func GetFullVersion() string {
	return "idpctl " + Version + " (commit: " + Commit + ", built: " + BuildDate + ")"
}

// IsDevBuild reports whether the binary was built without release ldflags
func IsDevBuild() bool {
	return Version == "" || Version == "dev"
}
