// Package buildinfo reports the version of the running binary.
//
// Release builds inject values via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/kvplay-go/internal/infra/buildinfo.Version=v1.0.0"
//
// Other builds fall back to the VCS stamp recorded by the go tool.
package buildinfo
