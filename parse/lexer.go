package parse

import (
	"strconv"

	"github.com/txta-lang/txtacheck/source"
)

type tokenKind int

const (
	tEOF tokenKind = iota
	tIdent
	tNumber
	tPunct
	tKeyword
)

type token struct {
	kind     tokenKind
	text     string
	intVal   int64
	pos, end source.Pos
}

var keywords = map[string]bool{
	"clock": true, "int": true, "bool": true, "chan": true, "const": true,
	"urgent": true, "broadcast": true, "struct": true, "typedef": true,
	"process": true, "state": true, "init": true, "system": true,
	"for": true, "while": true, "do": true, "if": true, "else": true,
	"switch": true, "case": true, "default": true, "break": true,
	"continue": true, "return": true, "void": true, "min": true, "max": true,
}

// lexer tokenizes one source.List's concatenated text; positions are
// source.Pos offsets into that text, consistent with source.File.position.
type lexer struct {
	text []byte
	pos  int
	toks []token
}

func lex(text string) []token {
	l := &lexer{text: []byte(text)}
	for {
		t := l.next()
		l.toks = append(l.toks, t)
		if t.kind == tEOF {
			break
		}
	}
	return l.toks
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.text) {
		return 0
	}
	return l.text[l.pos]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }

func (l *lexer) skipTrivia() {
	for l.pos < len(l.text) {
		b := l.text[l.pos]
		switch {
		case isSpace(b):
			l.pos++
		case b == '/' && l.pos+1 < len(l.text) && l.text[l.pos+1] == '/':
			for l.pos < len(l.text) && l.text[l.pos] != '\n' {
				l.pos++
			}
		case b == '/' && l.pos+1 < len(l.text) && l.text[l.pos+1] == '*':
			l.pos += 2
			for l.pos+1 < len(l.text) && !(l.text[l.pos] == '*' && l.text[l.pos+1] == '/') {
				l.pos++
			}
			l.pos += 2
		default:
			return
		}
	}
}

func (l *lexer) next() token {
	l.skipTrivia()
	start := l.pos
	if l.pos >= len(l.text) {
		return token{kind: tEOF, pos: source.Pos(start), end: source.Pos(start)}
	}
	b := l.text[l.pos]
	switch {
	case isDigit(b):
		for l.pos < len(l.text) && isDigit(l.text[l.pos]) {
			l.pos++
		}
		s := string(l.text[start:l.pos])
		v, _ := strconv.ParseInt(s, 10, 64)
		return token{kind: tNumber, text: s, intVal: v, pos: source.Pos(start), end: source.Pos(l.pos)}
	case isAlpha(b):
		for l.pos < len(l.text) && isAlnum(l.text[l.pos]) {
			l.pos++
		}
		s := string(l.text[start:l.pos])
		k := tIdent
		if keywords[s] {
			k = tKeyword
		}
		return token{kind: k, text: s, pos: source.Pos(start), end: source.Pos(l.pos)}
	default:
		return l.punct(start)
	}
}

// multi-char punctuation tokens, longest match first.
var multiPunct = []string{
	"-->", "<<=", ">>=", "++", "--", "&&", "||", "==", "!=", "<=", ">=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "->",
}

func (l *lexer) punct(start int) token {
	rest := l.text[start:]
	for _, m := range multiPunct {
		if len(rest) >= len(m) && string(rest[:len(m)]) == m {
			l.pos += len(m)
			return token{kind: tPunct, text: m, pos: source.Pos(start), end: source.Pos(l.pos)}
		}
	}
	l.pos++
	return token{kind: tPunct, text: string(l.text[start:l.pos]), pos: source.Pos(start), end: source.Pos(l.pos)}
}
