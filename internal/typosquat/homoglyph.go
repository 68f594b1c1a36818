// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package typosquat

import "strings"

// homoglyphs maps visually confusable characters to the Latin letter they
// imitate. Covers digit substitutions, symbols, and Cyrillic/Greek
// look-alikes. Multi-rune entries (vv -> w) are applied first.
var homoglyphs = map[string]string{
	// digits and symbols
	"4": "a", "@": "a",
	"8": "b", "ß": "b",
	"(": "c",
	"3": "e",
	"9": "g",
	"1": "l", "!": "i", "|": "l",
	"0": "o",
	"5": "s", "$": "s",
	"7": "t", "+": "t",
	"2": "z",
	"vv": "w",
	// Greek
	"α": "a", "ο": "o", "υ": "u", "ω": "w",
	// Cyrillic
	"а": "a", "в": "b", "с": "c", "е": "e", "є": "e", "і": "i",
	"ӏ": "l", "о": "o", "ѕ": "s", "ц": "u", "х": "x", "у": "y", "ү": "y",
	"×": "x",
}

var homoglyphReplacer = buildHomoglyphReplacer()

func buildHomoglyphReplacer() *strings.Replacer {
	// Longest patterns first so "vv" is rewritten before any single rune.
	pairs := make([]string, 0, len(homoglyphs)*2)
	for _, from := range []string{"vv"} {
		pairs = append(pairs, from, homoglyphs[from])
	}
	for from, to := range homoglyphs {
		if from == "vv" {
			continue
		}
		pairs = append(pairs, from, to)
	}
	return strings.NewReplacer(pairs...)
}

// NormalizeHomoglyphs rewrites confusable characters to their Latin
// equivalents. "paypa1" becomes "paypal", "fаcebook" (Cyrillic а) becomes
// "facebook".
func NormalizeHomoglyphs(s string) string {
	return homoglyphReplacer.Replace(strings.ToLower(s))
}

// ContainsHomoglyph reports whether s contains at least one confusable
// character, i.e. normalization changed it.
func ContainsHomoglyph(s string) bool {
	lower := strings.ToLower(s)
	return NormalizeHomoglyphs(lower) != lower
}
