// Package source loads book source files and turns them into plain text for
// the segmenter. It owns charset detection, per-format extraction, and
// retry-wrapped reads; the segmenter only ever sees decoded text.
package source

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extractor converts raw file bytes into plain text. Structural headings in
// formats that carry them (markdown, HTML, DOCX styles) are emitted as
// "#"-marked lines so the classifier's marker rule picks them up.
type Extractor interface {
	Extract(data []byte, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
	".pdf":      true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Read loads one source file and returns its plain text, retrying transient
// failures with a short delay. The returned text is always UTF-8; callers
// never see raw bytes or encoding names.
func Read(path string, retries int, log *slog.Logger) (string, error) {
	ex, err := ForFile(path)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			log.Warn("retrying source read", "path", path, "attempt", attempt, "error", lastErr)
			time.Sleep(time.Second)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		text, err := ex.Extract(data, filepath.Base(path))
		if err != nil {
			lastErr = err
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("read %s: %w", path, lastErr)
}

// writeBlock appends a text block separated from the previous one by a
// blank line.
func writeBlock(buf *bytes.Buffer, block string) {
	block = strings.TrimSpace(block)
	if block == "" {
		return
	}
	if buf.Len() > 0 {
		buf.WriteString("\n\n")
	}
	buf.WriteString(block)
}
