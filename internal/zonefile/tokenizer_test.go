package zonefile

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"fields", "www 300 IN A 192.0.2.1\n", []string{"www", "300", "IN", "A", "192.0.2.1"}},
		{"comment", "  2024010101 ; serial\n", []string{"2024010101"}},
		{"comment only", "; nothing here\n", nil},
		{"parens attached", "@ 300 IN SOA ns. host. (1\n", []string{"@", "300", "IN", "SOA", "ns.", "host.", "(", "1"}},
		{"closing paren", "\t300 )\n", []string{"300", ")"}},
		{"quoted semicolon", `txt 300 IN TXT "v=spf1; -all" ; note`, []string{"txt", "300", "IN", "TXT", `"v=spf1; -all"`}},
		{"quoted paren", `txt 300 IN TXT "a(b"`, []string{"txt", "300", "IN", "TXT", `"a(b"`}},
		{"escaped quote", `txt 300 IN TXT "a\";b"`, []string{"txt", "300", "IN", "TXT", `"a\";b"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenizeLine(tt.in))
		})
	}
}

func TestTokenize_OffsetsAndContinuation(t *testing.T) {
	text := "a 300 IN SOA ns. host. (\r\n 1 2 3\n 4 5 )\nb 300 IN A 192.0.2.1"
	lines := Tokenize(text)
	require.Len(t, lines, 4)

	assert.False(t, lines[0].Continued)
	assert.True(t, lines[1].Continued)
	assert.True(t, lines[2].Continued)
	assert.False(t, lines[3].Continued)

	assert.Equal(t, 0, lines[0].Start)
	assert.Equal(t, "a 300 IN SOA ns. host. (", text[lines[0].Start:lines[0].End()])
	assert.Equal(t, " 4 5 )", text[lines[2].Start:lines[2].End()])
	assert.Equal(t, "b 300 IN A 192.0.2.1", text[lines[3].Start:lines[3].End()])
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
}

func TestHasHeader(t *testing.T) {
	tests := []struct {
		line string
		typ  uint16
		want bool
	}{
		{"example.com. 300 IN NS ns1.old.com.", dns.TypeNS, true},
		{"@ 86400 in ns ns1.old.com.", dns.TypeNS, true},
		{"@ IN NS ns1.old.com.", dns.TypeNS, false},
		{"@ 1h IN NS ns1.old.com.", dns.TypeNS, false},
		{"@ 300 CH NS ns1.old.com.", dns.TypeNS, false},
		{"@ 300 IN A 192.0.2.1", dns.TypeNS, false},
		{"$TTL 300 IN NS", dns.TypeNS, false},
		{"@ 300 IN SOA ns. host. 1 2 3 4 5", dns.TypeSOA, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			l := Line{Tokens: tokenizeLine(tt.line)}
			assert.Equal(t, tt.want, l.hasHeader(tt.typ))
		})
	}
}
