package zonefile

import (
	"strings"

	"github.com/miekg/dns"
)

// Line is one physical line of zone text.
type Line struct {
	Raw    string   // line text including its line terminator, if any
	Start  int      // byte offset of the line in the zone text
	Tokens []string // fields with comments removed; parentheses are tokens of their own
	// Continued is set when the line begins inside a parenthesized block,
	// i.e. it continues the record started on an earlier line.
	Continued bool
}

// End returns the byte offset just past the line's content, excluding the
// line terminator.
func (l Line) End() int {
	return l.Start + len(strings.TrimRight(l.Raw, "\r\n"))
}

// Tokenize splits zone text into lines and tokenizes each of them.
func Tokenize(text string) []Line {
	raws := strings.SplitAfter(text, "\n")
	if n := len(raws); n > 0 && raws[n-1] == "" {
		raws = raws[:n-1]
	}

	lines := make([]Line, 0, len(raws))
	offset, depth := 0, 0
	for _, raw := range raws {
		toks := tokenizeLine(raw)
		lines = append(lines, Line{Raw: raw, Start: offset, Tokens: toks, Continued: depth > 0})
		for _, t := range toks {
			switch t {
			case "(":
				depth++
			case ")":
				if depth > 0 {
					depth--
				}
			}
		}
		offset += len(raw)
	}
	return lines
}

// tokenizeLine splits a line on whitespace, stopping at an unquoted ';'.
// Quoted strings are kept whole, including their quotes.
func tokenizeLine(s string) []string {
	var (
		toks    []string
		cur     strings.Builder
		quoted  bool
		escaped bool
	)
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		if quoted {
			cur.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				quoted = false
			}
			continue
		}
		switch r {
		case ';':
			flush()
			return toks
		case ' ', '\t', '\r', '\n':
			flush()
		case '(', ')':
			flush()
			toks = append(toks, string(r))
		case '"':
			cur.WriteRune(r)
			quoted = true
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

// hasHeader reports whether the line starts a record of the given type in
// the explicit "<owner> <ttl> IN <type>" form.
func (l Line) hasHeader(rrtype uint16) bool {
	if l.Continued || len(l.Tokens) < 4 {
		return false
	}
	if isParen(l.Tokens[0]) || strings.HasPrefix(l.Tokens[0], "$") {
		return false
	}
	if !isDigits(l.Tokens[1]) {
		return false
	}
	if class, ok := dns.StringToClass[strings.ToUpper(l.Tokens[2])]; !ok || class != dns.ClassINET {
		return false
	}
	t, ok := dns.StringToType[strings.ToUpper(l.Tokens[3])]
	return ok && t == rrtype
}

func isParen(tok string) bool {
	return tok == "(" || tok == ")"
}

func isDigits(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// leadingDigit matches SOA timer values, which may carry a unit suffix
// such as "3H" or "1W".
func leadingDigit(tok string) bool {
	return tok != "" && tok[0] >= '0' && tok[0] <= '9'
}
