package env

// Overridden at build time with -ldflags "-X github.com/ostafen/chkrecover/internal/env.Version=...".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

const AppName = "chkrecover"
