// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var errUnterminated = errors.New("unterminated BibTeX entry")

// reservedFieldPrefix is prepended to field names the parser would read as
// keywords (comment, preamble, string). ParseEntry strips it again.
const reservedFieldPrefix = "orcidbib.field."

// monthMacros are the predefined BibTeX month strings.
var monthMacros = func() map[string]string {
	m := make(map[string]string, 12)
	for i := time.January; i <= time.December; i++ {
		m[strings.ToLower(i.String()[:3])] = i.String()
	}
	return m
}()

// canonicalize rewrites BibTeX text so that every field value is a single
// braced string. Quoted values keep their inner braces, '#' concatenations
// are joined, and bare macros are expanded from @string definitions, the
// month names, or else to their own name. Field names are lower-cased and
// @string, @preamble and @comment blocks are dropped.
//
// The output stays inside the part of the grammar nickng/bibtex parses
// without loss: no quoted values, no concatenation, no bare identifiers in
// values and no '@' inside a value.
func canonicalize(text string) (string, error) {
	c := &canonicalizer{src: text, macros: map[string]string{}}
	if err := c.run(); err != nil {
		return "", err
	}
	return c.out.String(), nil
}

type canonicalizer struct {
	src    string
	pos    int
	macros map[string]string
	out    strings.Builder
}

func (c *canonicalizer) run() error {
	for {
		i := strings.IndexByte(c.src[c.pos:], '@')
		if i < 0 {
			return nil
		}
		c.pos += i + 1
		c.skipSpace()

		kind := strings.ToLower(c.bare())
		if !isBareWord(kind) {
			return c.errorf("invalid entry type %q", kind)
		}
		c.skipSpace()
		closer, err := c.open()
		if err != nil {
			return err
		}

		switch kind {
		case "comment", "preamble":
			err = c.skipGroup(closer)
		case "string":
			err = c.stringDef(closer)
		default:
			err = c.entry(kind, closer)
		}
		if err != nil {
			return err
		}
	}
}

func (c *canonicalizer) entry(kind string, closer byte) error {
	end := strings.IndexAny(c.src[c.pos:], ","+string(closer))
	if end < 0 {
		return errUnterminated
	}
	key := strings.Join(strings.Fields(c.src[c.pos:c.pos+end]), "_")
	if !isBareWord(key) || isKeyword(key) {
		return c.errorf("invalid citation key %q", key)
	}
	c.pos += end

	fmt.Fprintf(&c.out, "@%s{%s,\n", kind, key)
	for {
		c.skipSpace()
		if c.eof() {
			return errUnterminated
		}
		switch c.src[c.pos] {
		case closer:
			c.pos++
			c.out.WriteString("}\n")
			return nil
		case ',':
			c.pos++
			continue
		}

		name := strings.ToLower(c.bare())
		if !isBareWord(name) {
			return c.errorf("invalid field name %q", name)
		}
		if isKeyword(name) {
			name = reservedFieldPrefix + name
		}
		if err := c.expect('='); err != nil {
			return err
		}
		value, err := c.value()
		if err != nil {
			return err
		}
		if err := checkValue(value); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		fmt.Fprintf(&c.out, "  %s = {%s},\n", name, value)

		c.skipSpace()
		if !c.eof() && c.src[c.pos] != ',' && c.src[c.pos] != closer {
			return c.errorf("unexpected %q after field %s", c.src[c.pos], name)
		}
	}
}

func (c *canonicalizer) stringDef(closer byte) error {
	c.skipSpace()
	name := strings.ToLower(c.bare())
	if name == "" {
		return c.errorf("@string without a name")
	}
	if err := c.expect('='); err != nil {
		return err
	}
	value, err := c.value()
	if err != nil {
		return err
	}
	c.macros[name] = value
	return c.expect(closer)
}

// value reads one field value: braced, quoted or bare parts joined by '#'.
func (c *canonicalizer) value() (string, error) {
	var b strings.Builder
	for {
		c.skipSpace()
		if c.eof() {
			return "", errUnterminated
		}
		switch c.src[c.pos] {
		case '{':
			s, err := c.braced()
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case '"':
			s, err := c.quoted()
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		default:
			w := c.bare()
			if w == "" {
				return "", c.errorf("unexpected %q in value", c.src[c.pos])
			}
			b.WriteString(c.expand(w))
		}

		c.skipSpace()
		if c.eof() || c.src[c.pos] != '#' {
			return b.String(), nil
		}
		c.pos++
	}
}

func (c *canonicalizer) expand(word string) string {
	if strings.Trim(word, "0123456789") == "" {
		return word
	}
	lw := strings.ToLower(word)
	if v, ok := c.macros[lw]; ok {
		return v
	}
	if v, ok := monthMacros[lw]; ok {
		return v
	}
	return word
}

// braced returns the content of a {...} group, inner braces included.
func (c *canonicalizer) braced() (string, error) {
	start := c.pos + 1
	depth := 0
	for ; c.pos < len(c.src); c.pos++ {
		switch c.src[c.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				c.pos++
				return c.src[start : c.pos-1], nil
			}
		}
	}
	return "", errUnterminated
}

// quoted returns the content of a "..." value. A quote inside braces does
// not end the value.
func (c *canonicalizer) quoted() (string, error) {
	c.pos++
	start := c.pos
	depth := 0
	for ; c.pos < len(c.src); c.pos++ {
		switch c.src[c.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return "", c.errorf("unbalanced brace in quoted value")
			}
		case '"':
			if depth == 0 {
				c.pos++
				return c.src[start : c.pos-1], nil
			}
		}
	}
	return "", errUnterminated
}

func (c *canonicalizer) skipGroup(closer byte) error {
	depth := 0
	for ; c.pos < len(c.src); c.pos++ {
		switch ch := c.src[c.pos]; {
		case ch == '{':
			depth++
		case ch == '}' && depth > 0:
			depth--
		case ch == closer && depth == 0:
			c.pos++
			return nil
		}
	}
	return errUnterminated
}

func (c *canonicalizer) open() (byte, error) {
	if c.eof() {
		return 0, errUnterminated
	}
	switch c.src[c.pos] {
	case '{':
		c.pos++
		return '}', nil
	case '(':
		c.pos++
		return ')', nil
	}
	return 0, c.errorf("expected { or ( but found %q", c.src[c.pos])
}

func (c *canonicalizer) expect(ch byte) error {
	c.skipSpace()
	if c.eof() {
		return errUnterminated
	}
	if c.src[c.pos] != ch {
		return c.errorf("expected %q but found %q", ch, c.src[c.pos])
	}
	c.pos++
	return nil
}

// bare reads an unquoted word.
func (c *canonicalizer) bare() string {
	start := c.pos
	for c.pos < len(c.src) && !isSpace(c.src[c.pos]) && !strings.ContainsRune(`{}(),="#@`, rune(c.src[c.pos])) {
		c.pos++
	}
	return c.src[start:c.pos]
}

func (c *canonicalizer) skipSpace() {
	for c.pos < len(c.src) && isSpace(c.src[c.pos]) {
		c.pos++
	}
}

func (c *canonicalizer) eof() bool { return c.pos >= len(c.src) }

func (c *canonicalizer) errorf(format string, args ...any) error {
	return fmt.Errorf("bibtex offset %d: %s", c.pos, fmt.Sprintf(format, args...))
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

// isBareWord reports whether s is an identifier the parser accepts as an
// entry type, key or field name: ASCII alphanumerics, then also -_:./+.
func isBareWord(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case i > 0 && strings.ContainsRune("-_:./+", r):
		default:
			return false
		}
	}
	return true
}

func isKeyword(s string) bool {
	switch strings.ToLower(s) {
	case "comment", "preamble", "string":
		return true
	}
	return false
}

// checkValue rejects values the parser cannot hold inside braces.
func checkValue(v string) error {
	depth := 0
	for _, r := range v {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return errors.New("unbalanced braces")
			}
		case '@':
			return errors.New("'@' inside value")
		}
	}
	if depth != 0 {
		return errors.New("unbalanced braces")
	}
	return nil
}
