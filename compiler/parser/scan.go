package parser

import (
	"bytes"
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"
)

// peek functions

func peekKeyword(p *parser) string {
	name, _ := scanIdentifier(p.buf, p.pos)
	return name
}

func peekTok(p *parser, token string) bool {
	pos := scanTok(p.buf, p.pos, token)
	return pos >= 0
}

func peekString(p *parser) bool {
	offset := skipWsAndComments(p.buf, p.pos)
	return offset < len(p.buf) && (p.buf[offset] == '\'' || p.buf[offset] == '"')
}

func peekNumber(p *parser) bool {
	offset := skipWsAndComments(p.buf, p.pos)
	return offset < len(p.buf) && isDigit(p.buf[offset])
}

// peekText describes the next token for error messages.
func peekText(p *parser) string {
	offset := skipWsAndComments(p.buf, p.pos)
	if offset >= len(p.buf) {
		return "EOF"
	}
	if id, pos := scanIdentifier(p.buf, offset); pos >= 0 {
		return id
	}
	if tok := scanPunct(p.buf, offset); tok != "" {
		return tok
	}
	r, _ := utf8.DecodeRune(p.buf[offset:])
	return string(r)
}

// consume functions

func consumeKeyword(p *parser, keyword string) {
	pos := scanKeyword(p.buf, p.pos, keyword)
	if pos < 0 {
		p.errorf("expected keyword %s, found %q", keyword, peekText(p))
	}
	p.pos = pos
}

func consumeIdentifier(p *parser) string {
	name, pos := scanIdentifier(p.buf, p.pos)
	if pos < 0 {
		p.errorf("expected identifier, found %q", peekText(p))
	}
	p.pos = pos
	return name
}

func consumeTok(p *parser, token string) {
	pos := scanTok(p.buf, p.pos, token)
	if pos < 0 {
		p.errorf("expected %s, found %q", token, peekText(p))
	}
	p.pos = pos
}

// consumeString reads a single- or double-quoted string literal and
// returns its decoded value.
func consumeString(p *parser) string {
	p.here()
	if !peekString(p) {
		p.errorf("expected string literal, found %q", peekText(p))
	}
	quote := p.buf[p.pos]
	start := p.pos
	var sb strings.Builder
	for i := p.pos + 1; i < len(p.buf); i++ {
		c := p.buf[i]
		switch {
		case c == quote:
			p.pos = i + 1
			return sb.String()
		case c == '\n':
			p.pos = start
			p.errorf("unterminated string literal")
		case c == '\\' && i+1 < len(p.buf):
			i++
			switch e := p.buf[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case 'x':
				if i+2 >= len(p.buf) || !isHexDigit(p.buf[i+1]) || !isHexDigit(p.buf[i+2]) {
					p.pos = i
					p.errorf("bad \\x escape")
				}
				sb.WriteByte(unhex(p.buf[i+1])<<4 | unhex(p.buf[i+2]))
				i += 2
			default:
				sb.WriteByte(e)
			}
		default:
			sb.WriteByte(c)
		}
	}
	p.pos = start
	p.errorf("unterminated string literal")
	return ""
}

// consumeNumber reads a decimal or 0x-prefixed hexadecimal integer.
// Underscores may separate digits.
func consumeNumber(p *parser) *big.Int {
	p.here()
	start := p.pos
	base, digit := 10, isDigit
	i := p.pos
	if bytes.HasPrefix(p.buf[i:], []byte("0x")) || bytes.HasPrefix(p.buf[i:], []byte("0X")) {
		base, digit = 16, isHexDigit
		i += 2
	}
	var text []byte
	for ; i < len(p.buf) && (digit(p.buf[i]) || p.buf[i] == '_'); i++ {
		if p.buf[i] != '_' {
			text = append(text, p.buf[i])
		}
	}
	if i < len(p.buf) && p.buf[i] == '.' && i+1 < len(p.buf) && isDigit(p.buf[i+1]) {
		p.pos = start
		p.errorf("fractional numbers are not supported")
	}
	if i < len(p.buf) && isIDChar(p.buf[i], false) {
		p.pos = i
		p.errorf("bad number literal")
	}
	n, ok := new(big.Int).SetString(string(text), base)
	if !ok {
		p.pos = start
		p.errorf("bad number literal")
	}
	p.pos = i
	return n
}

// scan functions

// punctuators is ordered so that longer tokens are tried first.
var punctuators = []string{
	"===", "!==", "...",
	"==", "!=", "<=", ">=", "&&", "||", "+=", "-=", "++", "--", "=>",
	"{", "}", "(", ")", "[", "]", ";", ",", ".", ":", "?", "@",
	"<", ">", "=", "+", "-", "*", "/", "%", "!", "|", "&",
}

// scanPunct returns the longest punctuator at offset, or "".
func scanPunct(buf []byte, offset int) string {
	offset = skipWsAndComments(buf, offset)
	for _, tok := range punctuators {
		if bytes.HasPrefix(buf[offset:], []byte(tok)) {
			return tok
		}
	}
	return ""
}

// scanTok matches the punctuator s. A longer punctuator sharing the
// prefix does not match: "=" does not match the start of "==".
func scanTok(buf []byte, offset int, s string) int {
	if offset < 0 {
		return -1
	}
	offset = skipWsAndComments(buf, offset)
	if scanPunct(buf, offset) != s {
		return -1
	}
	return offset + len(s)
}

func scanBinaryOp(buf []byte, offset int) (*binaryOp, int) {
	offset = skipWsAndComments(buf, offset)
	tok := scanPunct(buf, offset)
	for i, op := range binaryOps {
		if op.op == tok {
			return &binaryOps[i], offset + len(tok)
		}
	}
	return nil, -1
}

func scanIdentifier(buf []byte, offset int) (string, int) {
	offset = skipWsAndComments(buf, offset)
	i := offset
	for ; i < len(buf) && isIDChar(buf[i], i == offset); i++ {
	}
	if i == offset {
		return "", -1
	}
	return string(buf[offset:i]), i
}

func scanKeyword(buf []byte, offset int, keyword string) int {
	id, newOffset := scanIdentifier(buf, offset)
	if newOffset < 0 {
		return -1
	}
	if id != keyword {
		return -1
	}
	return newOffset
}

func skipWsAndComments(buf []byte, offset int) int {
	for offset < len(buf) {
		c := buf[offset]
		switch {
		case c == '/' && offset+1 < len(buf) && buf[offset+1] == '/':
			for offset < len(buf) && buf[offset] != '\n' {
				offset++
			}
		case c == '/' && offset+1 < len(buf) && buf[offset+1] == '*':
			end := bytes.Index(buf[offset+2:], []byte("*/"))
			if end < 0 {
				return len(buf)
			}
			offset += end + 4
		case unicode.IsSpace(rune(c)):
			offset++
		default:
			return offset
		}
	}
	return offset
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func unhex(b byte) byte {
	switch {
	case b >= 'a':
		return b - 'a' + 10
	case b >= 'A':
		return b - 'A' + 10
	}
	return b - '0'
}

func isIDChar(c byte, initial bool) bool {
	if c >= 'a' && c <= 'z' {
		return true
	}
	if c >= 'A' && c <= 'Z' {
		return true
	}
	if c == '_' || c == '$' {
		return true
	}
	if initial {
		return false
	}
	return isDigit(c)
}
