package web

import (
	"embed"
	"io/fs"
	"path"
)

var (
	//go:embed static
	embeddedStaticFiles embed.FS

	//go:embed templates
	embeddedTemplates embed.FS
)

// templateEmbedFS serves the embedded templates relative to the templates directory,
// so template names do not carry the directory prefix.
type templateEmbedFS struct {
	content fs.FS
}

// Open opens name below the templates directory.
func (e templateEmbedFS) Open(name string) (fs.File, error) {
	return e.content.Open(path.Join("templates", name))
}
