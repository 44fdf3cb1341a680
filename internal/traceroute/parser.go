// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"math"
	"net/netip"
	"strconv"
	"strings"
)

// maxLineLength is the longest probe output line the parser accepts.
// Longer lines are skipped.
const maxLineLength = 64 * 1024

// unitMillis is the only round trip time unit traceroute utilities print.
const unitMillis = "ms"

type tokenKind int

const (
	// tokenName is any token that does not fit another kind, e.g. a hostname.
	tokenName tokenKind = iota
	// tokenNumber is a decimal number like 12.3, 12,3 or <1.
	tokenNumber
	// tokenUnit is the time unit following a round trip time.
	tokenUnit
	// tokenStar marks a probe without reply.
	tokenStar
	// tokenAddr is a bare IP literal.
	tokenAddr
	// tokenEnclosedAddr is an IP literal in parentheses or brackets.
	tokenEnclosedAddr
)

type token struct {
	kind tokenKind
	// text is the raw token, or the inner address for tokenEnclosedAddr.
	text string
}

// Parse converts the raw output of a traceroute utility into hop records.
//
// Every line is tokenized and matched against the hop line grammar:
// a leading hop index followed by reply addresses, optional hostnames and
// up to three round trip times, each suffixed with "ms". Lines that do not
// match, like headers and footers, are skipped. The hops are returned in the
// order they appear in the output. Empty output results in an empty slice.
func Parse(raw string) []Hop {
	hops := []Hop{}
	for line := range strings.Lines(raw) {
		if len(line) > maxLineLength {
			continue
		}
		if hop, ok := ParseLine(strings.TrimRight(line, "\r\n")); ok {
			hops = append(hops, hop)
		}
	}
	return hops
}

// ParseLine parses a single line of traceroute output.
// The second return value is false if the line is not a hop line.
//
// Supported layouts:
//
//	3  93.184.216.34  edge.example.com  12.3 ms  11.8 ms  13.0 ms
//	3  edge.example.com (93.184.216.34)  12.3 ms  11.8 ms  13.0 ms
//	4  *  10.0.0.1  12.3 ms  11.1 ms
//	5  *  *  *
//	2    10 ms    <1 ms    11 ms  edge.example.com [93.184.216.34]
//	3     *        *        *     Request timed out.
func ParseLine(line string) (Hop, bool) {
	toks := tokenize(line)
	if len(toks) < 2 || toks[0].kind != tokenNumber {
		return Hop{}, false
	}
	number, err := strconv.Atoi(toks[0].text)
	if err != nil || number < 1 {
		return Hop{}, false
	}

	p := lineParser{toks: toks[1:]}
	if !p.startsHop() {
		return Hop{}, false
	}

	hop := Hop{Number: number, Samples: make([]*float64, 0, SamplesPerHop)}
	p.parse(&hop)

	if hop.Hostname == hop.Address {
		hop.Hostname = ""
	}
	for len(hop.Samples) < SamplesPerHop {
		hop.Samples = append(hop.Samples, nil)
	}
	return hop, true
}

// tokenize splits the line on whitespace and classifies every field.
// A unit glued to a number, like 12.3ms, results in two tokens.
func tokenize(line string) []token {
	fields := strings.Fields(line)
	toks := make([]token, 0, len(fields))
	for _, f := range fields {
		if num, ok := strings.CutSuffix(f, unitMillis); ok && num != "" {
			if _, isNum := parseNumber(num); isNum {
				toks = append(toks, token{kind: tokenNumber, text: num}, token{kind: tokenUnit, text: unitMillis})
				continue
			}
		}
		toks = append(toks, classify(f))
	}
	return toks
}

func classify(field string) token {
	switch {
	case field == "*":
		return token{kind: tokenStar, text: field}
	case strings.EqualFold(field, unitMillis):
		return token{kind: tokenUnit, text: field}
	}

	if inner, ok := unwrapEnclosed(field); ok {
		if _, err := netip.ParseAddr(inner); err == nil {
			return token{kind: tokenEnclosedAddr, text: inner}
		}
	}
	if _, err := netip.ParseAddr(field); err == nil {
		return token{kind: tokenAddr, text: field}
	}
	if _, ok := parseNumber(field); ok {
		return token{kind: tokenNumber, text: field}
	}
	return token{kind: tokenName, text: field}
}

// unwrapEnclosed strips surrounding parentheses or brackets.
func unwrapEnclosed(field string) (string, bool) {
	if len(field) < 3 {
		return "", false
	}
	first, last := field[0], field[len(field)-1]
	if (first == '(' && last == ')') || (first == '[' && last == ']') {
		return field[1 : len(field)-1], true
	}
	return "", false
}

// parseNumber parses a round trip time. It accepts a comma as decimal
// separator and the "<" prefix Windows prints for sub-millisecond replies,
// in which case the upper bound is returned.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimPrefix(s, "<")
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// lineParser walks the tokens that follow the hop index.
type lineParser struct {
	toks []token
}

// startsHop reports whether the first token can open a hop record:
// a star, an address, a round trip time or a hostname followed by its address.
func (p *lineParser) startsHop() bool {
	switch p.toks[0].kind {
	case tokenStar, tokenAddr, tokenEnclosedAddr:
		return true
	case tokenUnit:
		return false
	}
	if p.isSample(0) {
		return true
	}
	return p.toks[0].kind == tokenName && p.kindAt(1) == tokenEnclosedAddr
}

func (p *lineParser) parse(hop *Hop) {
	afterAddr := false
	for i := 0; i < len(p.toks); i++ {
		tok := p.toks[i]
		prevWasAddr := afterAddr
		afterAddr = false

		switch {
		case tok.kind == tokenStar:
			addSample(hop, nil)
		case tok.kind == tokenUnit:
			// stray unit without value
		case p.isSample(i):
			if v, ok := parseNumber(tok.text); ok {
				addSample(hop, &v)
			} else {
				addSample(hop, nil)
			}
			i++
		case tok.kind == tokenAddr:
			if hop.Address == "" {
				hop.Address = tok.text
				afterAddr = true
			}
		case tok.kind == tokenEnclosedAddr:
			if hop.Address == "" {
				hop.Address = tok.text
			}
		case tok.kind == tokenName:
			if p.kindAt(i+1) == tokenEnclosedAddr {
				if hop.Address == "" {
					hop.Address = p.toks[i+1].text
					hop.Hostname = tok.text
				}
				i++
				continue
			}
			if prevWasAddr && hop.Hostname == "" {
				hop.Hostname = tok.text
			}
		}
	}
}

// isSample reports whether the token at i is a round trip time value,
// which is any token directly followed by the time unit.
func (p *lineParser) isSample(i int) bool {
	if p.kindAt(i+1) != tokenUnit {
		return false
	}
	kind := p.toks[i].kind
	return kind != tokenUnit && kind != tokenStar
}

// kindAt returns the kind of the token at i or tokenName if i is out of range.
func (p *lineParser) kindAt(i int) tokenKind {
	if i < 0 || i >= len(p.toks) {
		return tokenName
	}
	return p.toks[i].kind
}

// addSample records a sample unless the hop already holds all of them.
func addSample(hop *Hop, sample *float64) {
	if len(hop.Samples) < SamplesPerHop {
		hop.Samples = append(hop.Samples, sample)
	}
}
