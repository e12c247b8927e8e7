package spec

import (
	"strings"
	"testing"

	verr "github.com/kanata9/ligen/error"
)

func TestParse(t *testing.T) {
	option := func(name, value string) *OptionNode {
		return &OptionNode{
			Name:  name,
			Value: value,
		}
	}
	terminal := func(name, tokenType string) *TerminalNode {
		return &TerminalNode{
			Name:      name,
			TokenType: tokenType,
		}
	}
	production := func(lhs string, alts ...*AlternativeNode) *ProductionNode {
		return &ProductionNode{
			LHS: lhs,
			RHS: alts,
		}
	}
	alternative := func(elems ...*ElementNode) *AlternativeNode {
		return &AlternativeNode{
			Elements: elems,
		}
	}
	withHeadAction := func(alt *AlternativeNode, code string) *AlternativeNode {
		alt.HeadAction = &ActionNode{
			Code: code,
		}
		return alt
	}
	withTailAction := func(alt *AlternativeNode, code string) *AlternativeNode {
		alt.TailAction = &ActionNode{
			Code: code,
		}
		return alt
	}
	id := func(id string) *ElementNode {
		return &ElementNode{
			ID: id,
		}
	}

	tests := []struct {
		caption string
		src     string
		ast     *RootNode
		synErr  *SyntaxError
	}{
		{
			caption: "single production is a valid grammar",
			src:     `s: foo;`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("s", alternative(id("foo"))),
				},
			},
		},
		{
			caption: "multiple productions and alternatives are a valid grammar",
			src: `
expr
    : term expr_rest
    ;
expr_rest
    : add term expr_rest
    |
    ;
`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("expr",
						alternative(id("term"), id("expr_rest")),
					),
					production("expr_rest",
						alternative(id("add"), id("term"), id("expr_rest")),
						alternative(),
					),
				},
			},
		},
		{
			caption: "options and token declarations precede productions",
			src: `
%name = calc;
%lexer_include = "calc_lexer.h";
token add = TOK_ADD;
token num;
s: num add num;
`,
			ast: &RootNode{
				Options: []*OptionNode{
					option("name", "calc"),
					option("lexer_include", "calc_lexer.h"),
				},
				Terminals: []*TerminalNode{
					terminal("add", "TOK_ADD"),
					terminal("num", "num"),
				},
				Productions: []*ProductionNode{
					production("s", alternative(id("num"), id("add"), id("num"))),
				},
			},
		},
		{
			caption: "an alternative can carry a head action and a tail action",
			src:     `s: { open_scope(); } foo bar { close_scope(); } | { mark(); };`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("s",
						withTailAction(
							withHeadAction(alternative(id("foo"), id("bar")), "open_scope();"),
							"close_scope();",
						),
						withHeadAction(alternative(), "mark();"),
					),
				},
			},
		},
		{
			caption: "an action block keeps nested braces verbatim",
			src:     `s: foo { if (x) { y(); } };`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("s",
						withTailAction(alternative(id("foo")), "if (x) { y(); }"),
					),
				},
			},
		},
		{
			caption: "a line comment runs to the end of the line",
			src: `
# leading comment
s: foo; # trailing comment
`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("s", alternative(id("foo"))),
				},
			},
		},
		{
			caption: "a string option value can contain escape sequences",
			src: `
%lexer_include = "dir\\sub\"quoted\".h";
s: foo;
`,
			ast: &RootNode{
				Options: []*OptionNode{
					option("lexer_include", `dir\sub"quoted".h`),
				},
				Productions: []*ProductionNode{
					production("s", alternative(id("foo"))),
				},
			},
		},
		{
			caption: "a grammar must have at least one production",
			src:     `%name = empty;`,
			synErr:  synErrNoProduction,
		},
		{
			caption: "an option needs a name",
			src:     `% = foo; s: foo;`,
			synErr:  synErrNoOptionName,
		},
		{
			caption: "an option name must be followed by =",
			src:     `%name calc; s: foo;`,
			synErr:  synErrNoOptionEqual,
		},
		{
			caption: "an option needs a value",
			src:     `%name = ; s: foo;`,
			synErr:  synErrNoOptionValue,
		},
		{
			caption: "a token declaration needs a name",
			src:     `token = TOK_ADD; s: foo;`,
			synErr:  synErrNoTokenName,
		},
		{
			caption: "= in a token declaration needs a token type",
			src:     `token add = ; s: foo;`,
			synErr:  synErrNoTokenType,
		},
		{
			caption: "a production needs a colon",
			src:     `s foo;`,
			synErr:  synErrNoColon,
		},
		{
			caption: "a definition needs a semicolon",
			src:     `s: foo`,
			synErr:  synErrNoSemicolon,
		},
		{
			caption: "an action block in the middle of an alternative is not allowed",
			src:     `s: foo { act(); } bar;`,
			synErr:  synErrStrayAction,
		},
		{
			caption: "two consecutive action blocks are not allowed",
			src:     `s: foo { a(); } { b(); };`,
			synErr:  synErrStrayAction,
		},
		{
			caption: "an unclosed action block is an error",
			src:     `s: foo { if (x) { y(); };`,
			synErr:  synErrUnclosedAction,
		},
		{
			caption: "an unclosed string literal is an error",
			src:     `%name = "calc; s: foo;`,
			synErr:  synErrUnclosedString,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := Parse(strings.NewReader(tt.src))
			if tt.synErr != nil {
				specErr, ok := err.(*verr.SpecError)
				if !ok {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, err)
				}
				if specErr.Cause != tt.synErr {
					t.Fatalf("unexpected error cause; want: %v, got: %v", tt.synErr, specErr.Cause)
				}
				if ast != nil {
					t.Fatalf("AST must be nil")
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if ast == nil {
					t.Fatalf("AST must be non-nil")
				}
				testRootNode(t, ast, tt.ast)
			}
		})
	}
}

func TestParse_userCode(t *testing.T) {
	src := `
s: foo;
%%
int main(void) {
	return yy_parse();
}
`
	ast, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "int main(void) {\n\treturn yy_parse();\n}\n"
	if ast.UserCode != expected {
		t.Fatalf("unexpected user code; want: %q, got: %q", expected, ast.UserCode)
	}
	if len(ast.Productions) != 1 {
		t.Fatalf("unexpected length of productions; want: %v, got: %v", 1, len(ast.Productions))
	}
}

func TestParse_position(t *testing.T) {
	src := `s
: foo
| bar
;
`
	ast, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prod := ast.Productions[0]
	if prod.Pos.Row != 1 || prod.Pos.Col != 1 {
		t.Fatalf("unexpected position of the production; want: 1:1, got: %v:%v", prod.Pos.Row, prod.Pos.Col)
	}
	if elem := prod.RHS[0].Elements[0]; elem.Pos.Row != 2 || elem.Pos.Col != 3 {
		t.Fatalf("unexpected position of an element; want: 2:3, got: %v:%v", elem.Pos.Row, elem.Pos.Col)
	}
	if elem := prod.RHS[1].Elements[0]; elem.Pos.Row != 3 || elem.Pos.Col != 3 {
		t.Fatalf("unexpected position of an element; want: 3:3, got: %v:%v", elem.Pos.Row, elem.Pos.Col)
	}
}

func testRootNode(t *testing.T, root, expected *RootNode) {
	t.Helper()
	if len(root.Options) != len(expected.Options) {
		t.Fatalf("unexpected length of options; want: %v, got: %v", len(expected.Options), len(root.Options))
	}
	for i, opt := range root.Options {
		testOptionNode(t, opt, expected.Options[i])
	}
	if len(root.Terminals) != len(expected.Terminals) {
		t.Fatalf("unexpected length of terminals; want: %v, got: %v", len(expected.Terminals), len(root.Terminals))
	}
	for i, term := range root.Terminals {
		testTerminalNode(t, term, expected.Terminals[i])
	}
	if len(root.Productions) != len(expected.Productions) {
		t.Fatalf("unexpected length of productions; want: %v, got: %v", len(expected.Productions), len(root.Productions))
	}
	for i, prod := range root.Productions {
		testProductionNode(t, prod, expected.Productions[i])
	}
}

func testOptionNode(t *testing.T, opt, expected *OptionNode) {
	t.Helper()
	if opt.Name != expected.Name {
		t.Fatalf("unexpected option name; want: %v, got: %v", expected.Name, opt.Name)
	}
	if opt.Value != expected.Value {
		t.Fatalf("unexpected option value; want: %v, got: %v", expected.Value, opt.Value)
	}
}

func testTerminalNode(t *testing.T, term, expected *TerminalNode) {
	t.Helper()
	if term.Name != expected.Name {
		t.Fatalf("unexpected terminal name; want: %v, got: %v", expected.Name, term.Name)
	}
	if term.TokenType != expected.TokenType {
		t.Fatalf("unexpected token type; want: %v, got: %v", expected.TokenType, term.TokenType)
	}
}

func testProductionNode(t *testing.T, prod, expected *ProductionNode) {
	t.Helper()
	if prod.LHS != expected.LHS {
		t.Fatalf("unexpected LHS; want: %v, got: %v", expected.LHS, prod.LHS)
	}
	if len(prod.RHS) != len(expected.RHS) {
		t.Fatalf("unexpected length of alternatives; want: %v, got: %v", len(expected.RHS), len(prod.RHS))
	}
	for i, alt := range prod.RHS {
		testAlternativeNode(t, alt, expected.RHS[i])
	}
}

func testAlternativeNode(t *testing.T, alt, expected *AlternativeNode) {
	t.Helper()
	if len(alt.Elements) != len(expected.Elements) {
		t.Fatalf("unexpected length of elements; want: %v, got: %v", len(expected.Elements), len(alt.Elements))
	}
	for i, elem := range alt.Elements {
		if elem.ID != expected.Elements[i].ID {
			t.Fatalf("unexpected element; want: %v, got: %v", expected.Elements[i].ID, elem.ID)
		}
	}
	testActionNode(t, alt.HeadAction, expected.HeadAction)
	testActionNode(t, alt.TailAction, expected.TailAction)
}

func testActionNode(t *testing.T, act, expected *ActionNode) {
	t.Helper()
	if expected == nil {
		if act != nil {
			t.Fatalf("action must be nil; got: %v", act.Code)
		}
		return
	}
	if act == nil {
		t.Fatalf("action must be non-nil; want: %v", expected.Code)
	}
	if act.Code != expected.Code {
		t.Fatalf("unexpected action code; want: %v, got: %v", expected.Code, act.Code)
	}
}
