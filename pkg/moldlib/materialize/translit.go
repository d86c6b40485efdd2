// Package materialize copies resolved media into a stable per-product
// layout and emits the durable mapping file consumed downstream.
package materialize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiRemover decomposes to NFD, drops combining marks and recomposes, so
// accented Latin letters fold to plain ASCII before the whitelist pass.
var asciiRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	underscoreRuns = regexp.MustCompile(`_+`)
	illegalRune    = regexp.MustCompile(`[^a-z0-9_]`)
)

// pinyinArgs selects the default (non-heteronym, toneless) reading per
// character, which keeps the output deterministic.
var pinyinArgs = pinyin.NewArgs()

// Transliterate converts a device name to a deterministic filename token
// over the safe [a-z0-9_] alphabet. Han characters become their pinyin
// reading, the result is folded to ASCII and whitelisted; if anything
// illegal survives, a stricter pass replaces every non-alphanumeric rune
// of the original with an underscore. An empty result falls back to
// "device".
func Transliterate(name string) string {
	folded, _, err := transform.String(asciiRemover, pinyinFold(name))
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r == ' ', r == '-', r == '_':
			b.WriteByte('_')
		}
	}
	out := collapse(b.String())

	if out == "" || illegalRune.MatchString(out) {
		out = strictPass(name)
	}
	if out == "" {
		return "device"
	}
	return out
}

// pinyinFold replaces every Han rune with its pinyin syllables; other runes
// pass through for the ASCII fold.
func pinyinFold(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			if syllables := pinyin.SinglePinyin(r, pinyinArgs); len(syllables) > 0 {
				b.WriteString(syllables[0])
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// strictPass keeps ASCII alphanumerics (lowered) and turns every other rune
// into an underscore.
func strictPass(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	return collapse(b.String())
}

func collapse(s string) string {
	return strings.Trim(underscoreRuns.ReplaceAllString(s, "_"), "_")
}
