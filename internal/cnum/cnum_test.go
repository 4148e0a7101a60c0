package cnum

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1", 1},
		{"12", 12},
		{"0", 0},
		{"〇", 0},
		{"一", 1},
		{"两", 2},
		{"十", 10},
		{"十五", 15},
		{"二十三", 23},
		{"九十九", 99},
		{"一百", 100},
		{"一百零五", 105},
		{"三百二十一", 321},
		{"一千", 1000},
		{"两千零一十", 2010},
		{"一万", 10000},
		{"万", 10000},
		{"三万五千", 35000},
		{"一亿二千万", 120000000},
		{"壹佰贰拾", 120},
		{"叁仟", 3000},
		{"二〇二一", 2021},
		{"1千2百", 1200},
		{" 十二 ", 12},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "第1章", "1a2"} {
		if got, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error, got %d", in, got)
		}
	}
}
