// Package romaji implements the romaji-to-hiragana transliterator: a
// greedy longest-match table lookup, the same algorithm the original
// Rust IME's RomKanConverter runs from
// original_source/akaza-core/ibus-akaza/src/context.rs (to_hiragana
// on every keystroke, remove_last_char on backspace). No pack repo
// ships a table-driven transliterator, so the table and the matching
// loop are both written from first principles.
package romaji

import (
	"sort"
	"unicode/utf8"
)

// entry is one romaji->kana mapping. table is kept sorted by
// descending Roman byte length so the greedy match always prefers the
// longest applicable key at the cursor.
type entry struct {
	roman string
	kana  string
}

// Converter holds a romaji table ready for greedy longest-match
// conversion. The zero value is not usable; use NewConverter or
// DefaultConverter.
type Converter struct {
	table []entry
}

// NewConverter builds a Converter from a romaji->hiragana mapping. The
// caller owns table and may pass any map, including a customized or
// extended one; entries are copied and re-sorted.
func NewConverter(mapping map[string]string) *Converter {
	c := &Converter{table: make([]entry, 0, len(mapping))}
	for roman, kana := range mapping {
		c.table = append(c.table, entry{roman: roman, kana: kana})
	}
	sort.Slice(c.table, func(i, j int) bool {
		if len(c.table[i].roman) != len(c.table[j].roman) {
			return len(c.table[i].roman) > len(c.table[j].roman)
		}
		return c.table[i].roman < c.table[j].roman
	})
	return c
}

// DefaultConverter returns a Converter loaded with the built-in romaji
// table (DefaultTable).
func DefaultConverter() *Converter {
	return NewConverter(DefaultTable)
}

// ToHiragana greedily converts roman into hiragana: at each cursor
// position, the longest matching table key is consumed and its kana
// emitted; if nothing matches, the next UTF-8 code point is copied
// through unchanged. Trailing partial input (e.g. a lone "n" with no
// vowel yet) is therefore emitted verbatim, as the contract requires —
// callers decide when input is "done".
func (c *Converter) ToHiragana(roman string) string {
	var out []byte
	for len(roman) > 0 {
		matched := false
		for _, e := range c.table {
			if len(e.roman) <= len(roman) && roman[:len(e.roman)] == e.roman {
				out = append(out, e.kana...)
				roman = roman[len(e.roman):]
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		_, size := utf8.DecodeRuneInString(roman)
		out = append(out, roman[:size]...)
		roman = roman[size:]
	}
	return string(out)
}

// RemoveLastChar strips exactly one trailing Unicode code point from
// preedit, matching the "きつn" -> "きつ" backspace behavior (the
// pending "n" is itself a single code point, so removing one code
// point and removing the dangling consonant coincide).
func RemoveLastChar(preedit string) string {
	if preedit == "" {
		return preedit
	}
	_, size := utf8.DecodeLastRuneInString(preedit)
	return preedit[:len(preedit)-size]
}
