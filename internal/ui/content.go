package ui

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed content/*.md
var contentFS embed.FS

// pageContent holds the rendered marketing copy, keyed by file stem.
var pageContent = mustRenderContent()

func mustRenderContent() map[string]template.HTML {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	files, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		panic(err)
	}

	rendered := make(map[string]template.HTML, len(files))
	for _, file := range files {
		raw, err := contentFS.ReadFile(file)
		if err != nil {
			panic(err)
		}

		var buf bytes.Buffer
		if err := md.Convert(raw, &buf); err != nil {
			panic(err)
		}

		name := file[len("content/") : len(file)-len(".md")]
		rendered[name] = template.HTML(buf.String())
	}

	return rendered
}
