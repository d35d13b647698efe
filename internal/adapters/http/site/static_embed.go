package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/**
var staticFS embed.FS

//go:embed content/about.md
var aboutMarkdown []byte

// FS returns an http.FileSystem for the embedded stylesheet and assets.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
