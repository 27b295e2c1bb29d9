package charset_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/hamwave/cw/cw"
	"github.com/hamwave/cw/cw/charset"
)

func TestRepresentation(t *testing.T) {
	tests := []struct {
		r    rune
		want string
	}{
		{'A', ".-"},
		{'a', ".-"},
		{'E', "."},
		{'T', "-"},
		{'Q', "--.-"},
		{'0', "-----"},
		{'5', "....."},
		{'9', "----."},
		{'?', "..--.."},
		{'/', "-..-."},
		{'<', "...-.-"},  // SK
		{'&', ".-..."},   // AS
		{'$', "...-..-"}, // one of the two longest entries, with '>'
	}

	for _, tt := range tests {
		got, ok := charset.Representation(tt.r)
		if !ok {
			t.Errorf("Representation(%q): not found", tt.r)
			continue
		}
		if got != tt.want {
			t.Errorf("Representation(%q) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestRepresentationUnknown(t *testing.T) {
	for _, r := range []rune{'%', '#', '\n', 'é', ' '} {
		if _, ok := charset.Representation(r); ok {
			t.Errorf("Representation(%q): unexpectedly found", r)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !charset.IsValid(' ') {
		t.Error("space must be sendable as a word gap")
	}
	if !charset.IsValid('k') {
		t.Error("lowercase letters must be sendable")
	}
	if charset.IsValid('%') {
		t.Error("'%' has no representation")
	}
}

func TestValidateString(t *testing.T) {
	if err := charset.ValidateString("CQ CQ DE N0CALL K"); err != nil {
		t.Errorf("valid string rejected: %v", err)
	}
	err := charset.ValidateString("ok then %")
	if err == nil {
		t.Fatal("expected error for '%'")
	}
	if got := err.Error(); !strings.Contains(got, "'%'") {
		t.Error("error should name the character")
	}
}

func TestValidateStringErrorKind(t *testing.T) {
	err := charset.ValidateString("#")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, cw.ErrUnknownCharacter) {
		t.Errorf("error %v should wrap ErrUnknownCharacter", err)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, r := range charset.Characters() {
		rep, ok := charset.Representation(r)
		if !ok {
			t.Fatalf("Characters() listed %q but it has no representation", r)
		}
		if !charset.IsRepresentation(rep) {
			t.Errorf("%q: representation %q contains stray runes", r, rep)
		}
		back, ok := charset.FromRepresentation(rep)
		if !ok || back != r {
			t.Errorf("FromRepresentation(%q) = %q, want %q", rep, back, r)
		}
	}
}

func TestIsRepresentation(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{".-", true},
		{"-----", true},
		{"", false},
		{".- ", false},
		{"x", false},
	}
	for _, tt := range tests {
		if got := charset.IsRepresentation(tt.in); got != tt.want {
			t.Errorf("IsRepresentation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
