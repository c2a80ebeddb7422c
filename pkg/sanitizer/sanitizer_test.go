package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"no change", "no change"},
		{"\ttabs\tand\nnewlines\n", "tabs and newlines"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := TrimAndNormalize(tt.in); got != tt.want {
			t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeReason(t *testing.T) {
	in := "plans \x00changed,  meeting\x1b moved "
	want := "plans changed, meeting moved"
	if got := NormalizeReason(in); got != want {
		t.Errorf("NormalizeReason = %q, want %q", got, want)
	}
}
