// Package version reports the studyhub build identity.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/studyhub/version.Version=1.2.0" ./cmd/studyhub
//
// Unset values fall back to the module build info recorded by the Go
// toolchain.
package version
