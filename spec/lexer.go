package spec

import (
	"fmt"
	"io"
	"strings"

	verr "github.com/kanata9/ligen/error"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindKWToken      = tokenKind("token")
	tokenKindID           = tokenKind("id")
	tokenKindOptionMarker = tokenKind("%")
	tokenKindEqual        = tokenKind("=")
	tokenKindColon        = tokenKind(":")
	tokenKindOr           = tokenKind("|")
	tokenKindSemicolon    = tokenKind(";")
	tokenKindString       = tokenKind("string")
	tokenKindAction       = tokenKind("action")
	tokenKindEOF          = tokenKind("eof")
	tokenKindInvalid      = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newStringToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindString,
		text: text,
		pos:  pos,
	}
}

func newActionToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindAction,
		text: text,
		pos:  pos,
	}
}

func newEOFToken() *token {
	return &token{
		kind: tokenKindEOF,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

// metaLexSpec describes the lexical elements of the grammar language itself.
// Action blocks and string literals use lex modes so that nested braces and
// escape sequences are recognized without any lookahead in this package.
var metaLexSpec = &mlspec.LexSpec{
	Name: "ligen",
	Entries: []*mlspec.LexEntry{
		{Kind: "white_space", Pattern: `[\u{0009}\u{000A}\u{000D}\u{0020}]+`},
		{Kind: "line_comment", Pattern: `#[^\u{000A}]*`},
		{Kind: "kw_token", Pattern: `token`},
		{Kind: "identifier", Pattern: `[A-Za-z_][0-9A-Za-z_]*`},
		{Kind: "option_marker", Pattern: `%`},
		{Kind: "equal", Pattern: `=`},
		{Kind: "colon", Pattern: `:`},
		{Kind: "or", Pattern: `\|`},
		{Kind: "semicolon", Pattern: `;`},
		{Kind: "string_open", Pattern: `"`, Push: "string"},
		{Modes: []mlspec.LexModeName{"string"}, Kind: "char_seq", Pattern: `[^\u{0022}\u{005C}]+`},
		{Modes: []mlspec.LexModeName{"string"}, Kind: "escaped_quot", Pattern: `\\"`},
		{Modes: []mlspec.LexModeName{"string"}, Kind: "escaped_back_slash", Pattern: `\\\\`},
		{Modes: []mlspec.LexModeName{"string"}, Kind: "string_close", Pattern: `"`, Pop: true},
		{Kind: "action_open", Pattern: `\u{007B}`, Push: "action"},
		{Modes: []mlspec.LexModeName{"action"}, Kind: "action_nest_open", Pattern: `\u{007B}`, Push: "action"},
		{Modes: []mlspec.LexModeName{"action"}, Kind: "action_close", Pattern: `\u{007D}`, Pop: true},
		{Modes: []mlspec.LexModeName{"action"}, Kind: "action_text", Pattern: `[^\u{007B}\u{007D}]+`},
	},
}

type lexer struct {
	clspec *mlspec.CompiledLexSpec
	d      *mldriver.Lexer
}

func newLexer(src io.Reader) (*lexer, error) {
	clspec, err, cErrs := mlcompiler.Compile(metaLexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			fmt.Fprintf(&b, "%v: %v", cErrs[0].Kind, cErrs[0].Cause)
			for _, cErr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n%v: %v", cErr.Kind, cErr.Cause)
			}
			return nil, fmt.Errorf("invalid meta lexical specification:\n%v", b.String())
		}
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(clspec), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		clspec: clspec,
		d:      d,
	}, nil
}

func (l *lexer) next() (*token, error) {
	for {
		tok, err := l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return newEOFToken(), nil
		}
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), newPosition(tok.Row+1, tok.Col+1)), nil
		}

		pos := newPosition(tok.Row+1, tok.Col+1)
		switch l.kindName(tok) {
		case "white_space", "line_comment":
			continue
		case "kw_token":
			return newSymbolToken(tokenKindKWToken, pos), nil
		case "identifier":
			return newIDToken(string(tok.Lexeme), pos), nil
		case "option_marker":
			return newSymbolToken(tokenKindOptionMarker, pos), nil
		case "equal":
			return newSymbolToken(tokenKindEqual, pos), nil
		case "colon":
			return newSymbolToken(tokenKindColon, pos), nil
		case "or":
			return newSymbolToken(tokenKindOr, pos), nil
		case "semicolon":
			return newSymbolToken(tokenKindSemicolon, pos), nil
		case "string_open":
			return l.lexString(pos)
		case "action_open":
			return l.lexAction(pos)
		default:
			return newInvalidToken(string(tok.Lexeme), pos), nil
		}
	}
}

// lexString assembles a string literal from the tokens the string mode
// produces. The escape sequences \" and \\ are interpreted here.
func (l *lexer) lexString(pos Position) (*token, error) {
	var b strings.Builder
	for {
		tok, err := l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return nil, &verr.SpecError{
				Cause: synErrUnclosedString,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		switch l.kindName(tok) {
		case "char_seq":
			b.Write(tok.Lexeme)
		case "escaped_quot":
			b.WriteString(`"`)
		case "escaped_back_slash":
			b.WriteString(`\`)
		case "string_close":
			return newStringToken(b.String(), pos), nil
		}
	}
}

// lexAction assembles an action block. The action mode pushes itself on every
// nested `{`, so counting the open/close tokens is all the nesting bookkeeping
// needed. The collected text is an opaque payload; it is never interpreted.
func (l *lexer) lexAction(pos Position) (*token, error) {
	depth := 1
	var b strings.Builder
	for {
		tok, err := l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return nil, &verr.SpecError{
				Cause: synErrUnclosedAction,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		switch l.kindName(tok) {
		case "action_nest_open":
			depth++
			b.WriteString("{")
		case "action_close":
			depth--
			if depth == 0 {
				return newActionToken(strings.TrimSpace(b.String()), pos), nil
			}
			b.WriteString("}")
		case "action_text":
			b.Write(tok.Lexeme)
		}
	}
}

func (l *lexer) kindName(tok *mldriver.Token) string {
	return l.clspec.KindNames[tok.KindID].String()
}
