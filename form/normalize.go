package form

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// normaliseText folds compatibility characters (full-width digits, for
// example), strips leading/trailing whitespace and collapses internal
// whitespace.
func normaliseText(s string) string {
	s = norm.NFKC.String(s)
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}

// normaliseEnum lower-cases a select value so "Rent" and " RENT " both match.
func normaliseEnum(s string) string {
	return strings.ToLower(normaliseText(s))
}

// normaliseNumber drops grouping characters and a leading currency sign.
func normaliseNumber(s string) string {
	s = normaliseText(s)
	s = strings.TrimLeft(s, "$฿")
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	return s
}
