// Package version holds the build version of the service.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/ndewijer/ETF-Simulator-Backend/internal/version.Version=x.y.z".
var Version = "0.1.0"
