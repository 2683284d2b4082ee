// Package slug names files after books.
package slug

import (
	"strings"
	"unicode"
)

const maxTitleRunes = 60

// Title lowercases s and joins its letter and digit runs with dashes. Letters outside
// ASCII are kept so non-Latin titles stay distinguishable.
func Title(s string) string {
	var b strings.Builder
	dash := false
	n := 0
	for _, r := range strings.ToLower(s) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			dash = b.Len() > 0
			continue
		}
		if n >= maxTitleRunes {
			break
		}
		if dash {
			b.WriteByte('-')
			dash = false
		}
		b.WriteRune(r)
		n++
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}

// ISBN keeps the digits and a check character X, uppercased. Anything that is not a
// 10 or 13 character ISBN yields "".
func ISBN(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteByte('X')
		}
	}
	out := b.String()
	if len(out) != 10 && len(out) != 13 {
		return ""
	}
	if strings.IndexByte(out, 'X') >= 0 && (len(out) != 10 || strings.IndexByte(out, 'X') != 9) {
		return ""
	}
	return out
}

// Book names a book's file: the title slug followed by its ISBN, or by the first eight
// characters of its id when the ISBN is missing or malformed.
func Book(title, isbn, id string) string {
	suffix := ISBN(isbn)
	if suffix == "" {
		suffix = strings.ReplaceAll(id, "-", "")
		if len(suffix) > 8 {
			suffix = suffix[:8]
		}
	}
	if suffix == "" {
		return Title(title)
	}
	return Title(title) + "-" + strings.ToLower(suffix)
}
