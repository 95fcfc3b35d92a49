package skills

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrParse matches every ParseError
var ErrParse = errors.New("skills: malformed list literal")

// ParseError reports why an encoded skills value is not a list of strings
type ParseError struct {
	Text   string
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse skills %q at offset %d: %s", e.Text, e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// ParseList decodes a list literal of string literals such as
// ['python', "aws"] or ["go", "sql"]. A value that is well formed but not a
// list of strings (a bare string, a tuple, a list holding numbers) is
// reported as a ParseError as well.
func ParseList(text string) ([]string, error) {
	p := &literalParser{src: text}
	return p.parse()
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) fail(reason string) error {
	return &ParseError{Text: p.src, Offset: p.pos, Reason: reason}
}

func (p *literalParser) parse() ([]string, error) {
	p.skipSpace()
	if !p.consume('[') {
		return nil, p.fail("expected '['")
	}

	items := []string{}
	for {
		p.skipSpace()
		if p.consume(']') {
			break
		}

		item, err := p.parseString()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			break
		}
		return nil, p.fail("expected ',' or ']'")
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.fail("unexpected trailing input")
	}
	return items, nil
}

// parseString reads one or more adjacent string literals and concatenates them
func (p *literalParser) parseString() (string, error) {
	var b strings.Builder
	n := 0
	for {
		start := p.pos
		raw, ok := p.prefix()
		if !ok || p.pos >= len(p.src) || (p.src[p.pos] != '\'' && p.src[p.pos] != '"') {
			p.pos = start
			break
		}
		if err := p.quoted(&b, raw); err != nil {
			return "", err
		}
		n++
		p.skipSpace()
	}
	if n == 0 {
		return "", p.fail("expected string literal")
	}
	return b.String(), nil
}

// prefix consumes an optional u or r string prefix. Byte and format strings
// are rejected.
func (p *literalParser) prefix() (raw bool, ok bool) {
	if p.pos >= len(p.src) {
		return false, true
	}
	switch p.src[p.pos] {
	case 'u', 'U':
		p.pos++
	case 'r', 'R':
		p.pos++
		raw = true
	case '\'', '"':
	default:
		return false, false
	}
	return raw, true
}

func (p *literalParser) quoted(b *strings.Builder, raw bool) error {
	quote := p.src[p.pos]
	p.pos++

	triple := strings.HasPrefix(p.src[p.pos:], string([]byte{quote, quote}))
	if triple {
		p.pos += 2
	}

	for {
		if p.pos >= len(p.src) {
			return p.fail("unterminated string")
		}
		c := p.src[p.pos]

		switch {
		case c == quote && !triple:
			p.pos++
			return nil
		case c == quote && strings.HasPrefix(p.src[p.pos:], string([]byte{quote, quote, quote})):
			p.pos += 3
			return nil
		case c == '\n' && !triple:
			return p.fail("newline in string")
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return p.fail("unterminated string")
			}
			if raw {
				b.WriteByte(c)
				b.WriteByte(p.src[p.pos+1])
				p.pos += 2
				continue
			}
			if err := p.escape(b); err != nil {
				return err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *literalParser) escape(b *strings.Builder) error {
	c := p.src[p.pos+1]
	p.pos += 2

	switch c {
	case '\n':
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'v':
		b.WriteByte('\v')
	case 'x':
		return p.hexEscape(b, 2)
	case 'u':
		return p.hexEscape(b, 4)
	case 'U':
		return p.hexEscape(b, 8)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		end := p.pos - 1
		for end < len(p.src) && end < p.pos+2 && p.src[end] >= '0' && p.src[end] <= '7' {
			end++
		}
		v, _ := strconv.ParseUint(p.src[p.pos-1:end], 8, 32)
		b.WriteRune(rune(v))
		p.pos = end
	case 'N':
		return p.fail("named unicode escapes are not supported")
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func (p *literalParser) hexEscape(b *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return p.fail("truncated escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return p.fail("invalid hex escape")
	}
	if v > unicode.MaxRune {
		return p.fail("escape out of range")
	}
	b.WriteRune(rune(v))
	p.pos += digits
	return nil
}

func (p *literalParser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		default:
			return
		}
	}
}

// Encode renders items as a list literal that ParseList reads back, using
// the same quoting rules as a Python list repr: ['python', 'aws'].
func Encode(items []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		quoteString(&b, item)
	}
	b.WriteByte(']')
	return b.String()
}

func quoteString(b *strings.Builder, s string) {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == utf8.RuneError || !unicode.IsPrint(r):
			switch {
			case r < 0x100:
				fmt.Fprintf(b, `\x%02x`, r)
			case r < 0x10000:
				fmt.Fprintf(b, `\u%04x`, r)
			default:
				fmt.Fprintf(b, `\U%08x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
}
