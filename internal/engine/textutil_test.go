package engine

import "testing"

func TestCanonicalSkillKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Python", "python"},
		{"  Node.js ", "node.js"},
		{"C++", "c++"},
		{"Machine   Learning", "machine learning"},
		{"REST\tAPI", "rest api"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CanonicalSkillKey(tt.in); got != tt.want {
			t.Errorf("CanonicalSkillKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanHTML(t *testing.T) {
	got := CleanHTML("<p>Learn <b>Docker</b> basics</p>")
	if got != "Learn Docker basics" {
		t.Errorf("CleanHTML = %q", got)
	}
}
