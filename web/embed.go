// Package web embeds the console's page templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// Static holds the files served under /static/.
var Static = mustSub("static")

// Templates holds the page templates.
var Templates = mustSub("templates")

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic("web: embedded directory " + dir + ": " + err.Error())
	}
	return sub
}
