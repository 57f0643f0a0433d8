// Package web embeds the host document and its static assets.
package web

import "embed"

//go:embed static
var Static embed.FS
