package codegen

import "strings"

// Quote backtick-quotes a single MySQL identifier for embedding into a
// generated SQL template string, guarding against the identifier itself
// carrying a backtick by doubling it (MySQL's own escaping rule).
func Quote(identifier string) string {
	return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
}

// QuoteAll backtick-quotes every element of columns, in order.
func QuoteAll(columns []string) []string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = Quote(c)
	}
	return quoted
}

// Placeholders returns a comma-joined run of n "?" placeholders, the
// VALUES list of every generated INSERT template; n <= 0 yields "".
// Bulk (IN-clause) methods do not use it: they build their placeholder
// list at call time from the length of their slice argument.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	marks := make([]string, n)
	for i := range marks {
		marks[i] = "?"
	}
	return strings.Join(marks, ", ")
}

// equalsClause renders "`col` = ?" for a single bind parameter.
func equalsClause(column string) string {
	return Quote(column) + " = ?"
}

// isNullClause renders "`col` IS NULL", the counterpart branch a
// nullable equality parameter switches to when its pointer is nil.
func isNullClause(column string) string {
	return Quote(column) + " IS NULL"
}

// andJoin joins pre-quoted clause fragments with " AND ", the shape
// every WHERE built from a composite key or index uses.
func andJoin(clauses []string) string {
	return strings.Join(clauses, " AND ")
}
