package file

import "testing"

func TestWithSuffix(t *testing.T) {
	cases := []struct {
		path   string
		suffix string
		want   string
	}{
		{"in/drama_kr.vtt", "_FINAL", "in/drama_kr_FINAL.vtt"},
		{"drama_en.vtt", "_FINAL", "drama_en_FINAL.vtt"},
		{"noext", "_FINAL", "noext_FINAL"},
		{"", "_FINAL", ""},
	}

	for _, tc := range cases {
		if got := WithSuffix(tc.path, tc.suffix); got != tc.want {
			t.Errorf("WithSuffix(%q, %q) = %q, want %q", tc.path, tc.suffix, got, tc.want)
		}
	}
}

func TestInDir(t *testing.T) {
	if got := InDir("in/drama_kr.vtt", "out"); got != "out/drama_kr.vtt" {
		t.Errorf("InDir = %q", got)
	}
	if got := InDir("drama_kr.vtt", ""); got != "drama_kr.vtt" {
		t.Errorf("InDir with empty dir = %q", got)
	}
}
