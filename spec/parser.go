package spec

import (
	"io"
	"strings"

	verr "github.com/kanata9/ligen/error"
)

type RootNode struct {
	Options     []*OptionNode
	Terminals   []*TerminalNode
	Productions []*ProductionNode
	UserCode    string
}

type OptionNode struct {
	Name  string
	Value string
	Pos   Position
}

type TerminalNode struct {
	Name      string
	TokenType string
	Pos       Position
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

type AlternativeNode struct {
	Elements   []*ElementNode
	HeadAction *ActionNode
	TailAction *ActionNode
	Pos        Position
}

type ElementNode struct {
	ID  string
	Pos Position
}

type ActionNode struct {
	Code string
	Pos  Position
}

func raiseSyntaxError(row, col int, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   row,
		Col:   col,
	})
}

// Parse parses grammar source text into an AST. Everything below a line
// consisting solely of %% is a user code section, kept verbatim; the grammar
// language proper is what precedes it.
func Parse(src io.Reader) (*RootNode, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	gramSrc, userCode := splitUserCode(string(b))

	p, err := newParser(strings.NewReader(gramSrc))
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	root.UserCode = userCode
	return root, nil
}

func splitUserCode(src string) (string, string) {
	off := 0
	for off < len(src) {
		end := strings.Index(src[off:], "\n")
		var line string
		next := len(src)
		if end >= 0 {
			line = src[off : off+end]
			next = off + end + 1
		} else {
			line = src[off:]
		}
		if strings.TrimSpace(line) == "%%" {
			return src[:off], src[next:]
		}
		off = next
	}
	return src, ""
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			retErr = err.(error)
			return
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for {
		switch {
		case p.consume(tokenKindEOF):
			if len(root.Productions) == 0 {
				raiseSyntaxError(0, 0, synErrNoProduction)
			}
			return root
		case p.consume(tokenKindOptionMarker):
			root.Options = append(root.Options, p.parseOption())
		case p.consume(tokenKindKWToken):
			root.Terminals = append(root.Terminals, p.parseTerminal())
		default:
			root.Productions = append(root.Productions, p.parseProduction())
		}
	}
}

func (p *parser) parseOption() *OptionNode {
	pos := p.lastTok.pos
	if !p.consume(tokenKindID) {
		p.raiseAtNext(synErrNoOptionName)
	}
	name := p.lastTok.text
	if !p.consume(tokenKindEqual) {
		p.raiseAtNext(synErrNoOptionEqual)
	}
	var value string
	switch {
	case p.consume(tokenKindID):
		value = p.lastTok.text
	case p.consume(tokenKindString):
		value = p.lastTok.text
	default:
		p.raiseAtNext(synErrNoOptionValue)
	}
	if !p.consume(tokenKindSemicolon) {
		p.raiseAtNext(synErrNoSemicolon)
	}
	return &OptionNode{
		Name:  name,
		Value: value,
		Pos:   pos,
	}
}

func (p *parser) parseTerminal() *TerminalNode {
	if !p.consume(tokenKindID) {
		p.raiseAtNext(synErrNoTokenName)
	}
	name := p.lastTok.text
	pos := p.lastTok.pos
	tokenType := name
	if p.consume(tokenKindEqual) {
		if !p.consume(tokenKindID) {
			p.raiseAtNext(synErrNoTokenType)
		}
		tokenType = p.lastTok.text
	}
	if !p.consume(tokenKindSemicolon) {
		p.raiseAtNext(synErrNoSemicolon)
	}
	return &TerminalNode{
		Name:      name,
		TokenType: tokenType,
		Pos:       pos,
	}
}

func (p *parser) parseProduction() *ProductionNode {
	if !p.consume(tokenKindID) {
		p.raiseAtNext(synErrNoProductionName)
	}
	lhs := p.lastTok.text
	pos := p.lastTok.pos
	if !p.consume(tokenKindColon) {
		p.raiseAtNext(synErrNoColon)
	}
	alt := p.parseAlternative()
	rhs := []*AlternativeNode{alt}
	for {
		if !p.consume(tokenKindOr) {
			break
		}
		alt := p.parseAlternative()
		rhs = append(rhs, alt)
	}
	if !p.consume(tokenKindSemicolon) {
		p.raiseAtNext(synErrNoSemicolon)
	}
	return &ProductionNode{
		LHS: lhs,
		RHS: rhs,
		Pos: pos,
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{
		Pos: p.peek().pos,
	}
	if p.consume(tokenKindAction) {
		alt.HeadAction = &ActionNode{
			Code: p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	}
	for {
		if !p.consume(tokenKindID) {
			break
		}
		alt.Elements = append(alt.Elements, &ElementNode{
			ID:  p.lastTok.text,
			Pos: p.lastTok.pos,
		})
	}
	if p.consume(tokenKindAction) {
		alt.TailAction = &ActionNode{
			Code: p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	}
	// A symbol or another action after the tail action would place an action
	// in the middle of an alternative.
	if k := p.peek().kind; k == tokenKindID || k == tokenKindAction {
		p.raiseAtNext(synErrStrayAction)
	}
	return alt
}

func (p *parser) raiseAtNext(synErr *SyntaxError) {
	tok := p.peek()
	raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErr)
}

func (p *parser) peek() *token {
	if p.peekedTok == nil {
		tok, err := p.lex.next()
		if err != nil {
			panic(err)
		}
		p.peekedTok = tok
	}
	return p.peekedTok
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrInvalidToken)
	}
	if tok.kind == expected {
		p.peekedTok = nil
		p.lastTok = tok
		return true
	}
	return false
}
