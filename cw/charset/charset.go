// Package charset maps characters to their Morse code representations.
// A representation is a string of '.' and '-' runes in sending order,
// e.g. "A" -> ".-".
package charset

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/hamwave/cw/cw"
)

// Dot and Dash are the two element runes used in representations.
const (
	Dot  = '.'
	Dash = '-'
)

// table lists every character the library can send. Procedural
// signals ride on otherwise unused punctuation, as is conventional:
// '<' is VA/SK (end of work), '>' is BK (break), '!' is SN
// (understood), '&' is AS (wait), '^' is KA (starting signal), '~' is
// AL (paragraph).
var table = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.",
	'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..",
	'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-",
	'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",

	'0': "-----", '1': ".----", '2': "..---",
	'3': "...--", '4': "....-", '5': ".....",
	'6': "-....", '7': "--...", '8': "---..",
	'9': "----.",

	'"': ".-..-.", '\'': ".----.", '$': "...-..-",
	'(': "-.--.", ')': "-.--.-", '+': ".-.-.",
	',': "--..--", '-': "-....-", '.': ".-.-.-",
	'/': "-..-.", ':': "---...", ';': "-.-.-.",
	'=': "-...-", '?': "..--..", '_': "..--.-",
	'@': ".--.-.",

	'<': "...-.-", '>': "-...-.-", '!': "...-.",
	'&': ".-...", '^': "-.-.-", '~': ".-.-..",
}

// Representation returns the Morse representation of r. Lowercase
// letters are looked up as uppercase. The second return value is
// false when r is not representable.
func Representation(r rune) (string, bool) {
	rep, ok := table[unicode.ToUpper(r)]
	return rep, ok
}

// MustRepresentation is Representation for characters known to be in
// the table; it panics otherwise. Intended for static element tables.
func MustRepresentation(r rune) string {
	rep, ok := Representation(r)
	if !ok {
		panic(fmt.Sprintf("charset: no representation for %q", r))
	}
	return rep
}

// IsValid reports whether r can be sent as Morse code. The space
// character is valid: it is sent as a word gap.
func IsValid(r rune) bool {
	if r == ' ' {
		return true
	}
	_, ok := Representation(r)
	return ok
}

// ValidateString reports the first character of s, if any, that
// cannot be sent.
func ValidateString(s string) error {
	for _, r := range s {
		if !IsValid(r) {
			return fmt.Errorf("%q: %w", r, cw.ErrUnknownCharacter)
		}
	}
	return nil
}

// Characters returns every sendable character in ascending order,
// excluding space.
func Characters() []rune {
	chars := make([]rune, 0, len(table))
	for r := range table {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	return chars
}

// FromRepresentation returns the character for a representation, if
// any. Useful for echoing what was keyed.
func FromRepresentation(rep string) (rune, bool) {
	r, ok := reverse[rep]
	return r, ok
}

var reverse = func() map[string]rune {
	m := make(map[string]rune, len(table))
	for r, rep := range table {
		m[rep] = r
	}
	return m
}()

// IsRepresentation reports whether s consists solely of dots and
// dashes and is non-empty.
func IsRepresentation(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return r != Dot && r != Dash
	}) < 0
}
