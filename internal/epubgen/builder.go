// Package epubgen renders an ordered chapter list into an EPUB container.
package epubgen

import (
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	epub "github.com/bmaupin/go-epub"

	"github.com/zz2213/qinglong-txt-to-epub/internal/segment"
)

// maxTitleRunes caps section titles; some readers choke on very long ones.
const maxTitleRunes = 100

const stylesheet = `body {
  font-family: "SimSun", "宋体", serif;
  line-height: 1.8;
  margin: 2em;
  color: #333;
}
h1 {
  font-size: 1.8em;
  text-align: center;
  border-bottom: 2px solid #666;
  padding-bottom: 0.5em;
  margin-bottom: 1.5em;
  color: #222;
}
p {
  text-indent: 2em;
  margin-bottom: 1.2em;
  text-align: justify;
}
`

// Builder assembles EPUB files from chapter lists.
type Builder struct {
	author   string
	language string
	log      *slog.Logger
}

func New(author, language string, log *slog.Logger) *Builder {
	return &Builder{author: author, language: language, log: log}
}

// Build writes an EPUB for the given book to destPath. An empty chapter list
// degrades to a single undifferentiated section holding fullContent, so the
// output always has at least one readable section. coverPath optionally
// points at a local cover image; empty means no cover.
func (b *Builder) Build(title string, chapters []segment.Chapter, fullContent, coverPath, destPath string) error {
	book := epub.NewEpub(title)
	book.SetAuthor(b.author)
	book.SetLang(b.language)
	book.SetIdentifier(fmt.Sprintf("book-%d", time.Now().Unix()))

	cssPath, err := b.addStylesheet(book)
	if err != nil {
		return err
	}

	if coverPath != "" {
		if err := b.addCover(book, coverPath); err != nil {
			b.log.Warn("adding cover failed", "book", title, "error", err)
		}
	}

	if len(chapters) == 0 {
		b.log.Warn("no chapters to render, creating single-section fallback", "book", title)
		chapters = []segment.Chapter{{Title: segment.TitleBody, Body: fullContent}}
	}

	for i, ch := range chapters {
		sectionTitle := truncateTitle(ch.Title)
		body := renderSection(sectionTitle, ch.Body)
		filename := fmt.Sprintf("chapter_%04d.xhtml", i+1)
		if _, err := book.AddSection(body, sectionTitle, filename, cssPath); err != nil {
			return fmt.Errorf("add section %q: %w", sectionTitle, err)
		}
	}

	if err := book.Write(destPath); err != nil {
		return fmt.Errorf("write epub %s: %w", destPath, err)
	}
	return nil
}

// addStylesheet registers the shared CSS. go-epub copies resources from
// local paths, so the stylesheet goes through a temp file.
func (b *Builder) addStylesheet(book *epub.Epub) (string, error) {
	tmp, err := os.CreateTemp("", "txt2epub-*.css")
	if err != nil {
		return "", fmt.Errorf("create css temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(stylesheet); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write css temp file: %w", err)
	}
	tmp.Close()

	cssPath, err := book.AddCSS(tmpPath, "styles.css")
	if err != nil {
		return "", fmt.Errorf("add css: %w", err)
	}
	return cssPath, nil
}

func (b *Builder) addCover(book *epub.Epub, coverPath string) error {
	internal, err := book.AddImage(coverPath, "cover"+filepath.Ext(coverPath))
	if err != nil {
		return err
	}
	book.SetCover(internal, "")
	return nil
}

// renderSection builds the inner XHTML body for one chapter.
func renderSection(title, body string) string {
	var buf strings.Builder
	buf.WriteString("<h1>")
	buf.WriteString(html.EscapeString(title))
	buf.WriteString("</h1>\n")
	buf.WriteString(formatParagraphs(body))
	return buf.String()
}

// formatParagraphs turns body lines into escaped <p> elements, dropping
// blank lines (CSS spacing replaces them in the rendered page).
func formatParagraphs(body string) string {
	lines := strings.Split(body, "\n")
	var buf strings.Builder
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		buf.WriteString("<p>")
		buf.WriteString(html.EscapeString(line))
		buf.WriteString("</p>\n")
	}
	if buf.Len() == 0 {
		return "<p></p>\n"
	}
	return buf.String()
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return string(runes[:maxTitleRunes])
}
