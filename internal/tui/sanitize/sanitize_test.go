package sanitize

import "testing"

func TestLine(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain", "open failed", "open failed"},
		{"colors", "\x1b[31mred\x1b[0m text", "red text"},
		{"title", "\x1b]0;pwned\x07boom", "boom"},
		{"alt screen", "\x1b[?1049hhidden", "hidden"},
		{"multiline", "first\r\nsecond\n\tthird", "first second third"},
		{"bell", "a\x07b", "ab"},
		{"trim", "  padded  ", "padded"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Line(c.in); got != c.want {
				t.Fatalf("Line(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("launcher", 5); got != "laun…" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("ok", 5); got != "ok" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("ok", 0); got != "ok" {
		t.Fatalf("got %q", got)
	}
}
