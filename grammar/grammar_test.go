package grammar

import (
	"strings"
	"testing"

	verr "github.com/kanata9/ligen/error"
	"github.com/kanata9/ligen/spec"
)

func TestGrammarBuilder_Build(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		semErr  *SemanticError
	}{
		{
			caption: "a grammar with terminals, productions, and options is valid",
			src: `
%name = calc;
token add = TOK_ADD;
token num;
expr
    : expr add num
    | num
    ;
`,
		},
		{
			caption: "a symbol used on a RHS must be defined",
			src: `
s: foo;
`,
			semErr: semErrUndefinedSymbol,
		},
		{
			caption: "the start symbol named by an option must have a production",
			src: `
%start = missing;
token foo;
s: foo;
`,
			semErr: semErrUndefinedStart,
		},
		{
			caption: "a non-terminal cannot be defined by two production statements",
			src: `
token foo;
token bar;
s: foo;
s: bar;
`,
			semErr: semErrDuplicateProduction,
		},
		{
			caption: "a production cannot have two identical alternatives",
			src: `
token foo;
s
    : foo
    | foo
    ;
`,
			semErr: semErrDuplicateProduction,
		},
		{
			caption: "a terminal cannot be declared twice",
			src: `
token foo;
token foo;
s: foo;
`,
			semErr: semErrDuplicateTerminal,
		},
		{
			caption: "a terminal cannot share a name with a non-terminal",
			src: `
token s;
s: foo;
`,
			semErr: semErrDuplicateName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := spec.Parse(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("failed to parse a grammar: %v", err)
			}
			b := GrammarBuilder{
				AST: ast,
			}
			gram, err := b.Build()
			if tt.semErr != nil {
				specErrs, ok := err.(verr.SpecErrors)
				if !ok {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.semErr, err)
				}
				found := false
				for _, specErr := range specErrs {
					if specErr.Cause == tt.semErr {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("an error was not detected; want: %v, got: %v", tt.semErr, specErrs)
				}
				if gram != nil {
					t.Fatalf("a grammar must be nil")
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if gram == nil {
					t.Fatalf("a grammar must be non-nil")
				}
			}
		})
	}
}

func TestGrammarBuilder_Build_emptyGrammar(t *testing.T) {
	ast := &spec.RootNode{}
	b := GrammarBuilder{
		AST: ast,
	}
	_, err := b.Build()
	specErrs, ok := err.(verr.SpecErrors)
	if !ok || specErrs[0].Cause != semErrNoProduction {
		t.Fatalf("unexpected error; want: %v, got: %v", semErrNoProduction, err)
	}
}

func TestGrammarBuilder_Build_startSymbol(t *testing.T) {
	t.Run("the LHS of the first production is the default start symbol", func(t *testing.T) {
		gram := genGrammar(t, `
token foo;
a: b;
b: foo;
`)
		text, _ := gram.symbolTable.reader().toText(gram.startSymbol)
		if text != "a" {
			t.Fatalf("unexpected start symbol; want: a, got: %v", text)
		}
		if !gram.startSymbol.isStart() {
			t.Fatalf("the start symbol must have the start kind")
		}
	})

	t.Run("the start option selects the start symbol", func(t *testing.T) {
		gram := genGrammar(t, `
%start = b;
token foo;
a: b;
b: foo;
`)
		text, _ := gram.symbolTable.reader().toText(gram.startSymbol)
		if text != "b" {
			t.Fatalf("unexpected start symbol; want: b, got: %v", text)
		}
	})
}

func TestGrammarBuilder_Build_options(t *testing.T) {
	t.Run("the name option defaults to parser", func(t *testing.T) {
		gram := genGrammar(t, `
token foo;
s: foo;
`)
		if gram.name != "parser" {
			t.Fatalf("unexpected grammar name; want: parser, got: %v", gram.name)
		}
	})

	t.Run("the last in-source assignment wins", func(t *testing.T) {
		gram := genGrammar(t, `
%name = first;
%name = second;
token foo;
s: foo;
`)
		if gram.name != "second" {
			t.Fatalf("unexpected grammar name; want: second, got: %v", gram.name)
		}
	})

	t.Run("an override beats any in-source assignment", func(t *testing.T) {
		ast, err := spec.Parse(strings.NewReader(`
%name = in_source;
token foo;
s: foo;
`))
		if err != nil {
			t.Fatalf("failed to parse a grammar: %v", err)
		}
		b := GrammarBuilder{
			AST: ast,
			Overrides: map[string]string{
				"name": "overridden",
			},
		}
		gram, err := b.Build()
		if err != nil {
			t.Fatalf("failed to build a grammar: %v", err)
		}
		if gram.name != "overridden" {
			t.Fatalf("unexpected grammar name; want: overridden, got: %v", gram.name)
		}
	})
}

func TestGrammar_tokenType(t *testing.T) {
	gram := genGrammar(t, `
token add = TOK_ADD;
token num;
s: num add num;
`)
	genSym := newTestSymbolGenerator(t, gram.symbolTable.reader())
	if tt := gram.tokenType(genSym("add")); tt != "TOK_ADD" {
		t.Fatalf("unexpected token type; want: TOK_ADD, got: %v", tt)
	}
	if tt := gram.tokenType(genSym("num")); tt != "num" {
		t.Fatalf("unexpected token type; want: num, got: %v", tt)
	}
}
