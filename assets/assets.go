// Package assets embeds the static files shipped with the binaries.
package assets

import "embed"

// Explicit patterns, so that the "_base" layouts are embedded too.
//
//go:embed templates/email/*
var FS embed.FS
