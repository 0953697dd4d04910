package naming

import "strings"

// commonInitialisms is the set of acronyms that Pascal renders fully
// capitalized rather than merely title-cased, the same list Go's own
// style-checking tooling uses for exported identifiers (ID, URL, HTTP,
// ...). Snake needs no such list: going from mixed case to snake_case is
// purely structural (see snakeSegment), the information loss only bites
// going the other way.
var commonInitialisms = map[string]bool{
	"ACL": true, "API": true, "ASCII": true, "CPU": true, "CSS": true,
	"DB": true, "DNS": true, "EOF": true, "GUID": true, "HTML": true,
	"HTTP": true, "HTTPS": true, "ID": true, "IP": true, "JSON": true,
	"LHS": true, "QPS": true, "RAM": true, "RHS": true, "RPC": true,
	"SLA": true, "SMTP": true, "SQL": true, "SSH": true, "TCP": true,
	"TLS": true, "TTL": true, "UDP": true, "UI": true, "UID": true,
	"UUID": true, "URI": true, "URL": true, "UTF8": true, "VM": true,
	"XML": true, "XMPP": true, "XSRF": true, "XSS": true,
}

// Pascal PascalCases a snake_case/kebab-case/space-separated identifier,
// rendering any segment that matches commonInitialisms fully
// capitalized. A single-character segment is trivially "fully
// capitalized" either way, so short identifiers like "a_b" round-trip
// through this rule without needing their own special case.
func Pascal(s string) string {
	var b strings.Builder
	for _, seg := range splitSeparators(s) {
		b.WriteString(pascalSegment(seg))
	}
	return b.String()
}

// pascalSegment title-cases a single separator-free segment, rendering it
// fully capitalized when it matches commonInitialisms.
func pascalSegment(seg string) string {
	if seg == "" {
		return ""
	}
	up := strings.ToUpper(seg)
	if commonInitialisms[up] {
		return up
	}
	return strings.ToUpper(seg[:1]) + strings.ToLower(seg[1:])
}

// Snake converts any mixed-case, snake_case, or kebab-case identifier to
// snake_case, keeping runs of capital letters together as one acronym
// token (HTTPCode -> http_code) rather than splitting every capital into
// its own word.
func Snake(s string) string {
	var tokens []string
	for _, seg := range splitSeparators(s) {
		tokens = append(tokens, snakeSegment(seg)...)
	}
	return strings.ToLower(strings.Join(tokens, "_"))
}

func splitSeparators(s string) []string {
	var segs []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch r {
		case '_', '-', ' ':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return segs
}

// snakeSegment tokenizes one separator-free run of characters into
// case-aware words. A lone capital letter starts a TitleCase word with
// whatever lowercase run follows it; a run of two or more capitals is an
// acronym — if exactly one lowercase letter follows, that letter is kept
// as a plural/suffix marker on the acronym itself (IDs -> "IDs", one
// token); if two or more lowercase letters follow, the run's last
// capital actually begins the next TitleCase word (PHBOrg -> "PHB",
// "Org"); if nothing follows, the whole run is the final token.
func snakeSegment(seg string) []string {
	runes := []rune(seg)
	n := len(runes)
	var tokens []string
	i := 0
	for i < n {
		if !isUpper(runes[i]) {
			j := i
			for j < n && !isUpper(runes[j]) {
				j++
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j
			continue
		}
		j := i
		for j < n && isUpper(runes[j]) {
			j++
		}
		runLen := j - i
		k := j
		for k < n && !isUpper(runes[k]) {
			k++
		}
		lowLen := k - j
		switch {
		case runLen == 1:
			tokens = append(tokens, string(runes[i:k]))
		case lowLen == 0, lowLen == 1:
			tokens = append(tokens, string(runes[i:k]))
		default:
			tokens = append(tokens, string(runes[i:j-1]))
			tokens = append(tokens, string(runes[j-1:k]))
		}
		i = k
	}
	return tokens
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
