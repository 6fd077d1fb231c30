// Package mala holds build metadata shared by the binary and the library.
package mala

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/mala/pkg/mala.Version=...".
var Version = "0.1.0"
