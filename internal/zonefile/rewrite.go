// Package zonefile rewrites legacy BIND zone files for import into a
// hosted DNS provider: it injects an $ORIGIN directive, drops the zone's
// own NS records and replaces its SOA record with one generated for the
// target provider.
//
// Rewriting is not idempotent. Running Rewrite on its own output adds a
// second $ORIGIN line.
package zonefile

import (
	"errors"
	"strings"

	"github.com/miekg/dns"
)

// ErrSOAPatternNotFound is returned when the zone has no SOA record in the
// "<name> <ttl> IN SOA <primary> <contact> (serial refresh retry expire minimum)"
// form.
var ErrSOAPatternNotFound = errors.New("SOA record not found")

// Rewriter rewrites zone text using a fixed SOA template.
type Rewriter struct {
	soa SOATemplate
}

// NewRewriter returns a Rewriter generating SOA records from t.
func NewRewriter(t SOATemplate) *Rewriter {
	return &Rewriter{soa: t}
}

// Serial returns the serial written into every generated SOA record.
func (r *Rewriter) Serial() uint32 {
	return r.soa.Serial
}

// Rewrite returns text with an $ORIGIN directive for domain prepended, all
// NS records removed and the first SOA record replaced. If no SOA record
// can be located it returns ErrSOAPatternNotFound and no text.
func (r *Rewriter) Rewrite(text, domain string) (string, error) {
	zone := StripNS(InjectOrigin(text, domain))
	span, ok := FindSOA(zone)
	if !ok {
		return "", ErrSOAPatternNotFound
	}
	return span.Replace(zone, r.soa.Text(domain)), nil
}

// InjectOrigin prepends an $ORIGIN directive for domain. An existing
// $ORIGIN in text is left in place.
func InjectOrigin(text, domain string) string {
	return "$ORIGIN " + domain + "\n" + text
}

// StripNS removes every line holding an NS record of the form
// "<name> <ttl> IN NS <target>".
func StripNS(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, l := range Tokenize(text) {
		if l.hasHeader(dns.TypeNS) && len(l.Tokens) >= 5 {
			continue
		}
		b.WriteString(l.Raw)
	}
	return b.String()
}

// Span is the byte range of a record in zone text, covering whole lines
// without the final line terminator.
type Span struct {
	Start, End int
}

// Replace returns text with the span replaced by s.
func (sp Span) Replace(text, s string) string {
	return text[:sp.Start] + s + text[sp.End:]
}

// FindSOA locates the first SOA record written as
//
//	<name> <ttl> IN SOA <primary> <contact> ( <serial> <refresh> <retry> <expire> <minimum> )
//
// where the parenthesized block may span several lines, each value may be
// followed by a comment, and the parentheses may be omitted altogether.
func FindSOA(text string) (Span, bool) {
	lines := Tokenize(text)
	for i, l := range lines {
		if !l.hasHeader(dns.TypeSOA) || len(l.Tokens) < 6 {
			continue
		}
		if isParen(l.Tokens[4]) || isParen(l.Tokens[5]) {
			continue
		}
		if end, ok := soaEnd(lines, i); ok {
			return Span{Start: l.Start, End: lines[end].End()}, true
		}
	}
	return Span{}, false
}

// soaEnd scans the value block of the SOA record starting on lines[first]
// and returns the index of the line it ends on.
func soaEnd(lines []Line, first int) (int, bool) {
	var (
		toks   = lines[first].Tokens[6:]
		cur    = first
		values int
		open   bool
	)
	for {
		for len(toks) == 0 {
			cur++
			if cur >= len(lines) {
				return 0, false
			}
			toks = lines[cur].Tokens
		}
		tok := toks[0]
		toks = toks[1:]

		switch {
		case tok == "(" && !open && values == 0:
			open = true
		case values < 5 && leadingDigit(tok):
			values++
			if values == 5 && !open {
				return cur, true
			}
		case values == 5 && tok == ")":
			return cur, true
		default:
			return 0, false
		}
	}
}
