package parser

import (
	"github.com/mna/rustcript/lang/scanner"
	"github.com/mna/rustcript/lang/token"
)

type tokItem struct {
	tok token.Token
	val token.Value
}

// tokStream is a fully-buffered run of tokens for one logical line (or a
// sub-expression sliced out of a string literal for interpolation),
// giving the expression parser simple lookahead without re-scanning.
type tokStream struct {
	items []tokItem
	i     int
	pos   token.Position
}

func tokenize(pos token.Position, src string) (*tokStream, *Error) {
	var sc scanner.Scanner
	var firstErr *Error
	sc.Init(pos, src, func(p token.Position, msg string) {
		if firstErr == nil {
			firstErr = syntaxErrorf(p, "%s", msg)
		}
	})
	var items []tokItem
	for {
		var val token.Value
		tok := sc.Scan(&val)
		if tok == token.ILLEGAL && firstErr != nil {
			return nil, firstErr
		}
		if tok == token.EOF {
			break
		}
		items = append(items, tokItem{tok: tok, val: val})
	}
	return &tokStream{items: items, pos: pos}, nil
}

func (s *tokStream) peek() tokItem {
	if s.i >= len(s.items) {
		return tokItem{tok: token.EOF}
	}
	return s.items[s.i]
}

func (s *tokStream) peekAt(offset int) tokItem {
	j := s.i + offset
	if j >= len(s.items) {
		return tokItem{tok: token.EOF}
	}
	return s.items[j]
}

func (s *tokStream) next() tokItem {
	it := s.peek()
	if s.i < len(s.items) {
		s.i++
	}
	return it
}

func (s *tokStream) atEnd() bool { return s.i >= len(s.items) }

func (s *tokStream) expect(tok token.Token) (tokItem, *Error) {
	it := s.next()
	if it.tok != tok {
		return it, syntaxErrorf(s.pos, "expected %s, got %s", tok, it.tok)
	}
	return it, nil
}
