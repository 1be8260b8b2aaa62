package permission

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"user:get", "user:get", true},
		{"user:get", "user:set", false},
		{"", "", true},
		{"", "x", false},
		{"*", "", true},
		{"*", "anything:at:all", true},
		{"user:*", "user:get", true},
		{"user:*", "user:", true},
		{"user:*", "user", false},
		{"user:*", "admin:get", false},
		{"*:get", "user:get", true},
		{"*:get", "user:set", false},
		{"user:*:view", "user:1:view", true},
		{"user:*:view", "user:1:2:view", true},
		{"user:*:view", "user:1:edit", false},
		{"a*b*c", "abc", true},
		{"a*b*c", "aXbYc", true},
		{"a*b*c", "aXbY", false},
		{"**", "whatever", true},
	}
	for _, tt := range tests {
		if got := Matches(tt.pattern, tt.value); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.want)
		}
	}
}

func TestListMatches(t *testing.T) {
	owned := []string{"user:get", "order:*", "report.view"}

	tests := []struct {
		required string
		want     bool
	}{
		{"user:get", true},
		{"user:set", false},
		{"order:create", true},
		{"order:refund:partial", true},
		{"report.view", true},
		{"report.edit", false},
	}
	for _, tt := range tests {
		if got := ListMatches(owned, tt.required); got != tt.want {
			t.Errorf("ListMatches(owned, %q) = %v, want %v", tt.required, got, tt.want)
		}
	}

	if ListMatches(nil, "anything") {
		t.Error("empty owned list matched")
	}
	if !ListMatches([]string{"*"}, "anything") {
		t.Error("universal wildcard did not match")
	}
}
