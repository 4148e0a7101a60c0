// Package cnum converts localized (Chinese) numeral expressions to integers.
// It accepts ASCII digits, the common and financial numeral characters, and
// mixed digit/unit forms, e.g. "12", "十五", "两千零一十", "壹佰贰拾",
// "二〇二一", "1千2百".
package cnum

import (
	"fmt"
	"strconv"
	"strings"
)

var digits = map[rune]int{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4,
	'5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'〇': 0, '零': 0,
	'一': 1, '壹': 1,
	'二': 2, '两': 2, '贰': 2,
	'三': 3, '叁': 3,
	'四': 4, '肆': 4,
	'五': 5, '伍': 5,
	'六': 6, '陆': 6, '陸': 6,
	'七': 7, '柒': 7,
	'八': 8, '捌': 8,
	'九': 9, '玖': 9,
}

var sectionUnits = map[rune]int{
	'十': 10, '拾': 10,
	'百': 100, '佰': 100,
	'千': 1000, '仟': 1000,
}

var groupUnits = map[rune]int{
	'万': 10_000,
	'亿': 100_000_000,
}

// Parse converts a localized numeral expression to an integer. It is a
// best-effort parse: an expression containing characters outside the numeral
// set, or reducing to nothing, yields an error rather than a guess.
func Parse(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("cnum: empty numeral")
	}

	// Pure ASCII digits take the fast path.
	if isASCIIDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("cnum: %q: %w", s, err)
		}
		return n, nil
	}

	// Section/group accumulation: digits build num positionally (so 二〇二一
	// reads as 2021), section units (十/百/千) close out num into the current
	// section, group units (万/亿) close out the section into the total.
	total, section, num := 0, 0, 0
	seen := false
	for _, r := range s {
		switch {
		case hasDigit(r):
			num = num*10 + digits[r]
			seen = true
		case sectionUnits[r] != 0:
			if num == 0 {
				num = 1 // bare 十 means 10
			}
			section += num * sectionUnits[r]
			num = 0
			seen = true
		case groupUnits[r] != 0:
			section += num
			if section == 0 {
				section = 1 // bare 万 means 10000
			}
			total += section * groupUnits[r]
			section, num = 0, 0
			seen = true
		default:
			return 0, fmt.Errorf("cnum: unsupported character %q in %q", r, s)
		}
	}
	if !seen {
		return 0, fmt.Errorf("cnum: no numerals in %q", s)
	}
	return total + section + num, nil
}

func hasDigit(r rune) bool {
	_, ok := digits[r]
	return ok
}

func isASCIIDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
