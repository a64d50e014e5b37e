// Package static — embedded static assets of the portal UI.
// Files are built into the binary via //go:embed and served over HTTP.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

// content — embedded file system with all static assets.
//
//go:embed css/*.css
var content embed.FS

// FileSystem returns an http.FileSystem serving /static/* requests.
// Files are reachable as /static/css/app.css and so on.
func FileSystem() http.FileSystem {
	return http.FS(content)
}

// FS returns an fs.FS for direct access to the embedded files.
func FS() fs.FS {
	return content
}
