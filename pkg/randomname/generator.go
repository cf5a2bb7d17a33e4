package randomname

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Generate returns a random name built from opts. A nil opts yields
// a "Locality-FirstName-JobArea" name such as "SantaFe-Ines-Metrics".
//
// The name is not guaranteed to be unique; callers that need uniqueness
// must either check it in Validator or handle the collision downstream.
func Generate(opts *Options) string {
	o := opts.withDefaults()

	var candidate string
	for range MaxAttempts {
		candidate = build(o)
		if o.Validator == nil || o.Validator(candidate) {
			return candidate
		}
	}
	return candidate
}

// Identifier returns a Locality-FirstName-JobArea name.
func Identifier() string {
	return Generate(nil)
}

// Simple returns an adjective-noun name, lower case.
func Simple() string {
	return Generate(&Options{Pattern: []WordType{Adjective, Noun}, Lowercase: true})
}

func build(o Options) string {
	parts := make([]string, 0, len(o.Pattern))
	for _, wt := range o.Pattern {
		words := getWords(wt, o.Words)
		if len(words) == 0 {
			continue
		}
		if token := fold(words[randomIndex(len(words))]); token != "" {
			parts = append(parts, token)
		}
	}

	name := strings.Join(parts, o.Separator)
	if o.Lowercase {
		name = strings.ToLower(name)
	}
	return name
}

// fold strips diacritics, whitespace and anything that is not a letter or digit.
func fold(word string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, word)
	if err != nil {
		plain = word
	}
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, plain)
}

// randomIndex prefers crypto/rand and falls back to math/rand when the
// system source is unavailable.
func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return mrand.IntN(n)
	}
	return int(v.Int64())
}
