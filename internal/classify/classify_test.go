package classify

import "testing"

func TestClassify_HeadingForms(t *testing.T) {
	tests := []struct {
		line      string
		isHeading bool
		canonical string
	}{
		// Digit-numbered chapters, with the trailing-character guard.
		{"第1章", true, "第1章"},
		{"第1章 黎明", true, "第1章 黎明"},
		{"第 12 章 风起", true, "第 12 章 风起"},
		{"第1章节课", false, "第1章节课"},
		{"第1节课", false, "第1节课"},
		{"第3节", true, "第3节"},

		// Localized numerals, including financial variants.
		{"第一章 开始", true, "第一章 开始"},
		{"第二十三章", true, "第二十三章"},
		{"第壹佰章", true, "第壹佰章"},
		{"第三部", true, "第三部"},
		{"第一卷 起航", true, "第一卷 起航"},
		{"第2卷", true, "第2卷"},
		{"第一章节", false, "第一章节"},

		// Latin keyword forms, Arabic and Roman numerals.
		{"Chapter 1", true, "Chapter 1"},
		{"chapter 42 The End", true, "chapter 42 The End"},
		{"Section 3", true, "Section 3"},
		{"Chapter10x", false, "Chapter10x"},
		{"Chapter IV", true, "Chapter IV"},
		{"SECTION XII", true, "SECTION XII"},
		{"Chapter IVy", false, "Chapter IVy"},

		// Enumeration forms; the mark itself also needs the guard, so a
		// decimal point or a glued title stays prose.
		{"1. 开场", true, "1. 开场"},
		{"12、 收尾", true, "12、 收尾"},
		{"12、", true, "12、"},
		{"一、 缘起", true, "一、 缘起"},
		{"一、缘起", false, "一、缘起"},
		{"1.2 小节", false, "1.2 小节"},

		// Ordinary prose.
		{"这是一段普通的正文内容。", false, "这是一段普通的正文内容。"},
		{"Just plain prose.", false, "Just plain prose."},
	}

	for _, tt := range tests {
		gotHeading, gotText := Classify(tt.line)
		if gotHeading != tt.isHeading {
			t.Errorf("Classify(%q): expected heading=%v, got %v", tt.line, tt.isHeading, gotHeading)
		}
		if gotText != tt.canonical {
			t.Errorf("Classify(%q): expected canonical %q, got %q", tt.line, tt.canonical, gotText)
		}
	}
}

func TestClassify_MarkerEscapeHatch(t *testing.T) {
	// The marker rule wins regardless of any numeral pattern.
	tests := []struct {
		line      string
		canonical string
	}{
		{"# 终章", "终章"},
		{"## 第1章节课", "第1章节课"},
		{"@番外 若干年后", "番外 若干年后"},
	}
	for _, tt := range tests {
		gotHeading, gotText := Classify(tt.line)
		if !gotHeading {
			t.Errorf("Classify(%q): expected heading", tt.line)
		}
		if gotText != tt.canonical {
			t.Errorf("Classify(%q): expected canonical %q, got %q", tt.line, tt.canonical, gotText)
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	lines := []string{"第1章", "第1章节课", "# 终章", "正文内容"}
	for _, line := range lines {
		h1, t1 := Classify(line)
		for range 5 {
			h2, t2 := Classify(line)
			if h1 != h2 || t1 != t2 {
				t.Fatalf("Classify(%q) not stable: (%v,%q) then (%v,%q)", line, h1, t1, h2, t2)
			}
		}
	}
}
