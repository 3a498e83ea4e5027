// Package web serves the browser upload form.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// AnalyzePath is where the form posts.
const AnalyzePath = "/api/v1/analyze"

type indexData struct {
	RequestID   string
	UserID      string
	AnalyzePath string
}

// Index renders the upload form with a fresh request id.
func Index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	data := indexData{
		RequestID:   uuid.NewString(),
		UserID:      c.Query("user_id"),
		AnalyzePath: AnalyzePath,
	}
	if err := indexTmpl.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}
