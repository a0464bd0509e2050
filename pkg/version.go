// Package gngeo holds build information shared by the CLI.
package gngeo

var (
	// Version of gngeo, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
