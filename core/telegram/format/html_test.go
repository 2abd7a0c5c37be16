package format

import "testing"

func TestEscapeHTML(t *testing.T) {
	cases := map[string]string{
		"plain":            "plain",
		"<b>x</b>":         "&lt;b&gt;x&lt;/b&gt;",
		"a & b":            "a &amp; b",
		"&<>":              "&amp;&lt;&gt;",
		"Иван <script>":    "Иван &lt;script&gt;",
		"":                 "",
		"already &amp; ok": "already &amp;amp; ok",
	}
	for in, want := range cases {
		if got := EscapeHTML(in); got != want {
			t.Fatalf("EscapeHTML(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBoldAndCode(t *testing.T) {
	// Wrapping does not escape; callers escape first when needed.
	if got := Bold("x"); got != "<b>x</b>" {
		t.Fatalf("Bold = %q", got)
	}
	if got := Code("y"); got != "<code>y</code>" {
		t.Fatalf("Code = %q", got)
	}
	if got := Bold(EscapeHTML("x < y")); got != "<b>x &lt; y</b>" {
		t.Fatalf("Bold(EscapeHTML) = %q", got)
	}
}
