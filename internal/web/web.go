package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var files embed.FS

// Engine returns the Views engine over the embedded templates, so the
// server renders the same pages regardless of working directory.
func Engine() *html.Engine {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("add", func(a, b int) int { return a + b })
	return engine
}
