// Package web embeds the single-page client served by the content service.
package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed dist
var dist embed.FS

// Assets returns the client build. An empty dir selects the embedded copy.
func Assets(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(dist, "dist")
}
