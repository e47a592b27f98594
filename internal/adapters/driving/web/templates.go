package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var verifyTemplate = template.Must(template.ParseFS(templateFS, "templates/verify.html"))

// verifyPage is the data rendered by verify.html.
type verifyPage struct {
	Hash        string
	Error       string
	Record      *verifyRecord
	Recorded    string
	DocumentURL string
	QRPath      string
}

// verifyRecord exposes the fields the template reads.
type verifyRecord struct {
	ExporterInfo string
	BlockNumber  uint64
	ContentID    string
	Exists       bool
}
