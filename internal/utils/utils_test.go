package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"rasdfs@gmail.com",
		"rasdfs@piosdf.com",
		"asdfj.jh@pio.sdf.com",
	}
	invalid := []string{
		"asdjfkjsdhf",
		"@asdfjaskh",
		"asdfasdf@",
	}

	for _, v := range valid {
		if !ValidateEmail(v) {
			t.Errorf("Email should be valid: %s", v)
		}
	}

	for _, v := range invalid {
		if ValidateEmail(v) {
			t.Errorf("Email should be invalid: %s", v)
		}
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("hello", 10); got != "hello" {
		t.Errorf("Excerpt should not cut short strings, got %q", got)
	}
	if got := Excerpt("hello world", 5); got != "hello..." {
		t.Errorf("Excerpt(\"hello world\", 5) = %q", got)
	}
}

func TestQuote(t *testing.T) {
	if got := Quote("a\nb\n"); got != "> a\n> b" {
		t.Errorf("Quote = %q", got)
	}
}

func TestGenToken(t *testing.T) {
	a := GenToken(32)
	b := GenToken(32)
	if len(a) != 64 || len(b) != 64 {
		t.Errorf("GenToken(32) should be 64 hex chars, got %d and %d", len(a), len(b))
	}
	if a == b {
		t.Error("two tokens should differ")
	}
}
