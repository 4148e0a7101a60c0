package epubgen

import (
	"strings"
	"testing"
)

func TestFormatParagraphs(t *testing.T) {
	out := formatParagraphs("第一段。\n\n第二段 <b>带标签</b>\n  \n第三段。")
	want := "<p>第一段。</p>\n<p>第二段 &lt;b&gt;带标签&lt;/b&gt;</p>\n<p>第三段。</p>\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestFormatParagraphs_Empty(t *testing.T) {
	if out := formatParagraphs(""); out != "<p></p>\n" {
		t.Errorf("expected empty placeholder, got %q", out)
	}
}

func TestRenderSection(t *testing.T) {
	out := renderSection("第1章 <试>", "内容")
	if !strings.HasPrefix(out, "<h1>第1章 &lt;试&gt;</h1>") {
		t.Errorf("expected escaped heading, got %q", out)
	}
	if !strings.Contains(out, "<p>内容</p>") {
		t.Errorf("expected body paragraph, got %q", out)
	}
}

func TestTruncateTitle(t *testing.T) {
	short := "第1章"
	if got := truncateTitle(short); got != short {
		t.Errorf("short title changed: %q", got)
	}

	long := strings.Repeat("很", 150)
	got := truncateTitle(long)
	if runes := []rune(got); len(runes) != maxTitleRunes {
		t.Errorf("expected %d runes, got %d", maxTitleRunes, len(runes))
	}
}
