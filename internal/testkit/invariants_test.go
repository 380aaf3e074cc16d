package testkit

import (
	"strings"
	"testing"
)

func TestCheckGenerated(t *testing.T) {
	ok := "// <auto-generated/>\n\nnamespace App\n{\n    partial struct OrderId { string s = \"}\"; char c = '{'; /* { */ }\n}\n"
	cases := []struct {
		name string
		text string
		typ  string
		want string
	}{
		{"valid", ok, "OrderId", ""},
		{"no header", strings.TrimPrefix(ok, "// <auto-generated/>\n"), "", "missing auto-generated header"},
		{"placeholder", ok + "// PLACEHOLDERID\n", "", "placeholder"},
		{"crlf", strings.ReplaceAll(ok, "\n", "\r\n"), "", "missing auto-generated header"},
		{"cr inside", ok + "x\r\n", "", "carriage return"},
		{"extra close", ok + "}\n", "", "unbalanced brace at 7:1"},
		{"unclosed", ok + "{\n", "", "unbalanced brace at 7:1"},
		{"missing type", ok, "UserId", `type name "UserId" not found`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckGenerated(tc.text, tc.typ)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}
