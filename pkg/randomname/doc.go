// Package randomname generates readable random names from built-in word
// lists: localities, first names, job areas, adjectives and nouns.
//
// Names are produced by joining one word per entry of a pattern. Tokens are
// folded to plain ASCII letters and digits, so "Reykjavík" becomes "Reykjavik"
// and "Santa Fe" becomes "SantaFe". The default pattern yields tenant-style
// identifiers:
//
//	id := randomname.Identifier() // e.g. "Leuven-Astrid-Metrics"
//
// Customise the output with Options:
//
//	name := randomname.Generate(&randomname.Options{
//		Pattern:   []randomname.WordType{randomname.Adjective, randomname.Noun},
//		Separator: "_",
//		Lowercase: true,
//		Validator: func(s string) bool { return !taken(s) },
//	})
//
// Generated names are candidates, not reservations: the package keeps no
// state and makes no uniqueness promise across calls.
package randomname
