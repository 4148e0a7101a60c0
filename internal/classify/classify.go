// Package classify decides whether a single line of text is a chapter or
// volume heading. Rules are evaluated in a fixed order and the first match
// wins; the classifier is a pure function of the line.
package classify

import (
	"regexp"
	"strings"
)

// Markers are the reserved leading characters authors use to force a line to
// be treated as a heading regardless of its content.
const Markers = "#@"

// CJKNumerals is the closed set of localized numeral characters accepted by
// the numbered-heading rules, including the formal/financial variants.
const CJKNumerals = "〇一二两三四五六七八九十百千万亿零壹贰叁肆伍陸柒捌玖拾佰仟"

// Every numbered rule ends in (?:\s|$): the keyword must be followed by
// whitespace or end-of-line. Without it lines like "第1章节课", where the
// heading form is just a prefix of ordinary prose, would be misclassified.
// RE2 has no negative lookahead, so the guard consumes the whitespace; that
// is fine because only the verdict is used, never the matched span.
var (
	digitChapterRe = regexp.MustCompile(`^第\s*[0-9]+\s*[章节卷](?:\s|$)`)
	latinChapterRe = regexp.MustCompile(`(?i)^(?:Chapter|Section)\s*[0-9]+(?:\s|$)`)
	cjkChapterRe   = regexp.MustCompile(`^第\s*[` + CJKNumerals + `]+\s*[章节部卷](?:\s|$)`)
	romanChapterRe = regexp.MustCompile(`(?i)^(?:Chapter|Section)\s+[IVXLCM]+(?:\s|$)`)
	digitEnumRe    = regexp.MustCompile(`^[0-9]+\s*[.、](?:\s|$)`)
	cjkEnumRe      = regexp.MustCompile(`^[` + CJKNumerals + `]+\s*[.、](?:\s|$)`)
)

// Classify reports whether line is a chapter/volume heading and returns the
// text to use as the chapter title when it is. The caller passes trimmed,
// non-empty lines; blank-line handling lives in the segmenter.
//
// For every rule except the marker rule the canonical text is the whole
// original line, so trailing annotations such as "（本卷完）" survive. The
// marker rule strips the marker characters instead.
func Classify(line string) (bool, string) {
	if line == "" {
		return false, line
	}

	// Rule 1: explicit marker prefix, the escape hatch that always wins.
	if strings.IndexByte(Markers, line[0]) >= 0 {
		return true, strings.TrimSpace(strings.TrimLeft(line, Markers))
	}

	// Rule 2: digit-numbered 章/节/卷 and Latin Chapter/Section forms.
	if digitChapterRe.MatchString(line) || latinChapterRe.MatchString(line) {
		return true, line
	}

	// Rule 3: localized-numeral 章/节/部/卷 forms.
	if cjkChapterRe.MatchString(line) {
		return true, line
	}

	// Rule 4: Latin keyword with Roman numerals.
	if romanChapterRe.MatchString(line) {
		return true, line
	}

	// Rule 5: enumeration ("1." / "一、"), guarded so "1.2" stays prose.
	if digitEnumRe.MatchString(line) || cjkEnumRe.MatchString(line) {
		return true, line
	}

	return false, line
}
