package domain

import (
	"path/filepath"
	"strings"
)

// Format is the declared document format of an uploaded file.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatDocx  Format = "docx"
	FormatText  Format = "text"
	FormatHTML  Format = "html"
	FormatImage Format = "image"
)

// Document is one uploaded file for the duration of a single analysis
// request. TempPath points at request-scoped storage that the orchestrator
// must remove on every exit path.
type Document struct {
	Filename string
	Format   Format
	TempPath string
}

// DetectFormat maps a filename extension onto a supported format.
func DetectFormat(filename string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, true
	case ".docx":
		return FormatDocx, true
	case ".txt", ".text":
		return FormatText, true
	case ".html", ".htm":
		return FormatHTML, true
	case ".png", ".jpg", ".jpeg":
		return FormatImage, true
	default:
		return "", false
	}
}
