package source

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"book.txt", false},
		{"book.TXT", false},
		{"notes.md", false},
		{"page.html", false},
		{"doc.docx", false},
		{"scan.pdf", false},
		{"image.jpg", true},
		{"noext", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): expected err=%v, got %v", tt.filename, tt.wantErr, err)
		}
		if got := IsSupportedExtension(tt.filename); got == tt.wantErr {
			t.Errorf("IsSupportedExtension(%q): got %v", tt.filename, got)
		}
	}
}

func TestDecodeText_UTF8Passthrough(t *testing.T) {
	in := "第一章 开始\n正文内容。"
	out, err := DecodeText([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Errorf("expected passthrough, got %q", out)
	}
}

func TestDecodeText_GBK(t *testing.T) {
	// A sample long enough for the charset detector to be confident.
	plain := strings.Repeat("第一章 风起于青萍之末。他推开门，看见满院的落叶。\n", 30)
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(plain))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	out, err := DecodeText(gbk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != plain {
		t.Errorf("GBK round trip failed:\nexpected prefix %q\ngot prefix      %q", plain[:60], out[:min(60, len(out))])
	}
}

func TestTextExtractor_NormalizesLineEndings(t *testing.T) {
	e := &TextExtractor{}
	out, err := e.Extract([]byte("第一章\r\n内容\r尾行"), "book.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "第一章\n内容\n尾行" {
		t.Errorf("expected normalized newlines, got %q", out)
	}
}

func TestMarkdownExtractor_HeadingsBecomeMarkedLines(t *testing.T) {
	e := &MarkdownExtractor{}
	out, err := e.Extract([]byte("# 第一章 船\n\n正文第一段。\n\n## 插曲\n\n正文第二段。"), "book.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"#第一章 船", "正文第一段。", "#插曲", "正文第二段。"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestHTMLExtractor_HeadingsAndParagraphs(t *testing.T) {
	e := &HTMLExtractor{}
	in := `<html><head><title>书</title><style>p{}</style></head>
<body><h1>第一章 船</h1><p>正文第一段。</p><script>x()</script><p>正文第二段。</p></body></html>`
	out, err := e.Extract([]byte(in), "book.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"#第一章 船", "正文第一段。", "正文第二段。"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
	if strings.Contains(out, "x()") {
		t.Errorf("script content leaked into output: %q", out)
	}
}

func TestRead_TxtFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.txt")
	if err := os.WriteFile(path, []byte("第一章\n内容"), 0o644); err != nil {
		t.Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	text, err := Read(path, 1, log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "第一章\n内容" {
		t.Errorf("expected file content, got %q", text)
	}
}

func TestRead_MissingFile(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := Read(filepath.Join(t.TempDir(), "nope.txt"), 0, log); err == nil {
		t.Fatal("expected error for missing file")
	}
}
