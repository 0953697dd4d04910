// Package naming holds the pure, stateless identifier derivation rules
// of spec.md §4.2: type names, field names, method names, and enum
// variant names. Nothing here resolves collisions between method names
// within a DAO — that is the Planner's job alone (spec.md §4.6).
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// TypeName derives the record type name for a table: the table name run
// through Singularize, then Pascal-cased.
func TypeName(table string) string {
	return Pascal(Singularize(Snake(table)))
}

// ModuleName derives the DAO/record file stem for a table: snake_case of
// the raw name, kept plural as given (no singularize/pluralize pass).
func ModuleName(table string) string {
	return Snake(table)
}

// FieldName derives a struct field's identifier from a raw column name.
func FieldName(column string) string {
	return Pascal(Snake(column))
}

// ArgName derives a lowerCamelCase function-parameter identifier from a
// raw column name, e.g. "user_id" -> "userID", "id" -> "id". Unlike
// FieldName it lowercases the whole leading segment rather than just its
// first rune, so a column that is itself an initialism ("id", "url")
// doesn't leave a stray capital ("iD", "uRL") the way naively
// lowercasing FieldName's first letter would. The result is passed
// through EscapeIdent, since a column named "type" or "range" would
// otherwise derive a parameter name identical to a Go keyword.
func ArgName(column string) string {
	segs := splitSeparators(Snake(column))
	if len(segs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(segs[0]))
	for _, seg := range segs[1:] {
		b.WriteString(pascalSegment(seg))
	}
	return EscapeIdent(b.String())
}

// goKeywords is Go's fixed set of reserved words, none of which can be
// used as an identifier. A generated exported name (FieldName,
// TypeName, ...) can never literally collide with one, since every
// keyword is entirely lowercase and those derivations always capitalize
// their first rune; only ArgName's lowerCamel output can.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// IsGoKeyword reports whether s is one of Go's reserved words.
func IsGoKeyword(s string) bool {
	return goKeywords[s]
}

// EscapeIdent appends a trailing underscore to s if it is a Go keyword,
// leaving every other identifier untouched. Go has no raw-identifier
// escape like Rust's r#type, so this is the only way a column literally
// named "type" gets a usable parameter name; the struct tag still
// carries the original column name, so the row-scan/bind-params bridge
// is unaffected by the rename.
func EscapeIdent(s string) string {
	if IsGoKeyword(s) {
		return s + "_"
	}
	return s
}

// EnumTypeName derives the synthetic enumeration type name for an ENUM
// column: <TableTypePascal><ColumnPascal>.
func EnumTypeName(table, column string) string {
	return TypeName(table) + Pascal(Snake(column))
}

// EnumVariant derives a Go constant identifier from one ENUM/SET literal,
// coercing any non-identifier rune to an underscore before casing, and
// preserving the literal's own ordering (the caller is responsible for
// that; this function is per-literal).
func EnumVariant(literal string) string {
	var b strings.Builder
	for _, r := range literal {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return Pascal(b.String())
}

// FindByMethod derives the find_by_<...> method name for a column set.
func FindByMethod(columns []string) string { return joinedByMethod("find_by", columns) }

// DeleteByMethod derives the delete_by_<...> method name for a column set.
func DeleteByMethod(columns []string) string { return joinedByMethod("delete_by", columns) }

// UpdateByMethod derives the update_by_<...> method name for a column set.
func UpdateByMethod(columns []string) string { return joinedByMethod("update_by", columns) }

func joinedByMethod(prefix string, columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = Snake(c)
	}
	return prefix + "_" + strings.Join(parts, "_and_")
}

// BulkMethodName derives the bulk (IN-clause) variant of a find_by
// method: for a single column, the column is pluralized; for a composite
// set, only the last column is pluralized (the caller uses this for the
// enum-tailed composite variant of spec.md §4.6).
func BulkMethodName(columns []string) string {
	if len(columns) == 0 {
		return "find_by"
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = Snake(c)
	}
	last := len(parts) - 1
	plural := Pluralize(parts[last])
	if plural == parts[last] {
		// Doesn't change in plural form (e.g. "published"); avoid a
		// method name identical to the scalar variant.
		plural += "_list"
	}
	parts[last] = plural
	return "find_by_" + strings.Join(parts, "_and_")
}

// Pluralize delegates to the third-party English inflector for the
// "best-effort" pluralization spec.md §4.2 calls for in bulk method
// names — unlike TypeName's Singularize, which spec.md pins to an exact
// minimal rule set, implemented below by hand.
func Pluralize(word string) string {
	if word == "" {
		return word
	}
	return inflect.Pluralize(word)
}

// Singularize implements spec.md §4.2's minimal English rule set,
// applied once: -ies -> -y, -sses -> -ss, trailing -s dropped when
// preceded by a consonant. Irregular forms are not handled; a word that
// resists all three rules is returned unchanged.
func Singularize(word string) string {
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "sses") && len(word) > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "s") && len(word) > 1 && !isVowel(rune(lower[len(lower)-2])):
		return word[:len(word)-1]
	default:
		return word
	}
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}
