// Package templates embeds the documents hwt writes to disk.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed overlay
var overlayTemplates embed.FS

// OverlayFS returns the embedded overlay templates.
func OverlayFS() fs.FS {
	return overlayTemplates
}

// OverlayDocument is the template path of the standalone overlay page.
const OverlayDocument = "overlay/document.html.tmpl"
