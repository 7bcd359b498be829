// Package buildinfo exposes build-time version information for respd.
//
// Values are injected via ldflags and fall back to what the Go toolchain
// embeds in the binary:
//
//	go build -ldflags "-X github.com/yndnr/respd/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
