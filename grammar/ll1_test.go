package grammar

import (
	"errors"
	"testing"
)

func TestCompile(t *testing.T) {
	gram := genGrammar(t, `
token add;
token mul;
token l_paren;
token r_paren;
token id;
expr
    : term expr_rest
    ;
expr_rest
    : add term expr_rest
    |
    ;
term
    : factor term_rest
    ;
term_rest
    : mul factor term_rest
    |
    ;
factor
    : l_paren expr r_paren
    | id
    ;
`)
	cgram, report, err := Compile(gram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cgram == nil {
		t.Fatalf("a compiled grammar must be non-nil")
	}
	if report != nil {
		t.Fatalf("a report must be nil unless reporting is enabled")
	}

	// Terminal numbers follow declaration order with 1 reserved for the end
	// of input, and non-terminal numbers follow declaration order with 1
	// reserved for the start symbol.
	const (
		eof     = 1
		add     = 2
		mul     = 3
		lParen  = 4
		rParen  = 5
		id      = 6
		expr    = 1
		exprRst = 2
		term    = 3
		termRst = 4
		factor  = 5
	)

	if cgram.StartNonTerminal != expr {
		t.Fatalf("unexpected start non-terminal; want: %v, got: %v", expr, cgram.StartNonTerminal)
	}
	if cgram.EOFSymbol != eof {
		t.Fatalf("unexpected EOF symbol; want: %v, got: %v", eof, cgram.EOFSymbol)
	}

	cells := []struct {
		nonTerminal int
		terminal    int
		production  int
	}{
		{expr, lParen, 1},
		{expr, id, 1},
		{expr, add, 0},
		{exprRst, add, 2},
		{exprRst, rParen, 3},
		{exprRst, eof, 3},
		{term, lParen, 4},
		{term, id, 4},
		{termRst, mul, 5},
		{termRst, add, 6},
		{termRst, rParen, 6},
		{termRst, eof, 6},
		{factor, lParen, 7},
		{factor, id, 8},
		{factor, add, 0},
	}
	for _, c := range cells {
		if prod := cgram.Lookup(c.nonTerminal, c.terminal); prod != c.production {
			t.Fatalf("unexpected cell value at (%v, %v); want: %v, got: %v", c.nonTerminal, c.terminal, c.production, prod)
		}
	}

	if len(cgram.Productions) != 8 {
		t.Fatalf("unexpected number of productions; want: %v, got: %v", 8, len(cgram.Productions))
	}
	p1 := cgram.Productions[0]
	if p1.Number != 1 || p1.LHS != expr {
		t.Fatalf("unexpected first production; got: %+v", p1)
	}
	if len(p1.RHS) != 2 || p1.RHS[0] != -term || p1.RHS[1] != -exprRst {
		t.Fatalf("unexpected RHS of the first production; got: %v", p1.RHS)
	}
}

func TestCompile_firstFirstConflict(t *testing.T) {
	gram := genGrammar(t, `
token a;
s
    : a s
    | a t
    ;
t
    : a
    ;
`)
	cgram, report, err := Compile(gram, EnableReporting())
	if cgram != nil {
		t.Fatalf("a compiled grammar must be nil when the grammar has conflicts")
	}
	if report == nil {
		t.Fatalf("a report must be non-nil even when the grammar has conflicts")
	}
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("unexpected error; want: *ConflictError, got: %v", err)
	}
	if len(cerr.Conflicts) != 1 {
		t.Fatalf("unexpected number of conflicts; want: %v, got: %v", 1, len(cerr.Conflicts))
	}
	c := cerr.Conflicts[0]
	if c.NonTerminal != "s" || c.Terminal != "a" {
		t.Fatalf("unexpected conflict cell; got: %v, %v", c.NonTerminal, c.Terminal)
	}
	if c.Adopted != 1 || c.Rejected != 2 {
		t.Fatalf("unexpected conflicting productions; want: 1 and 2, got: %v and %v", c.Adopted, c.Rejected)
	}
	if len(report.Conflicts) != 1 {
		t.Fatalf("unexpected number of conflicts in the report; want: %v, got: %v", 1, len(report.Conflicts))
	}
}

func TestCompile_firstFollowConflict(t *testing.T) {
	gram := genGrammar(t, `
token a;
s
    : b a
    ;
b
    : a
    |
    ;
`)
	_, _, err := Compile(gram)
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("unexpected error; want: *ConflictError, got: %v", err)
	}
	if len(cerr.Conflicts) != 1 {
		t.Fatalf("unexpected number of conflicts; want: %v, got: %v", 1, len(cerr.Conflicts))
	}
	c := cerr.Conflicts[0]
	if c.NonTerminal != "b" || c.Terminal != "a" {
		t.Fatalf("unexpected conflict cell; got: %v, %v", c.NonTerminal, c.Terminal)
	}
}

func TestCompile_allConflictsAreCollected(t *testing.T) {
	gram := genGrammar(t, `
token a;
token b;
s
    : c a
    | c b
    ;
c
    : a
    |
    ;
`)
	_, _, err := Compile(gram)
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("unexpected error; want: *ConflictError, got: %v", err)
	}
	if len(cerr.Conflicts) < 2 {
		t.Fatalf("every conflicting cell must be collected; want: >= 2, got: %v", len(cerr.Conflicts))
	}
}

func TestCompile_report(t *testing.T) {
	gram := genGrammar(t, `
token x = TOK_X;
s
    : a
    ;
a
    : x a
    |
    ;
`)
	_, report, err := Compile(gram, EnableReporting())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report == nil {
		t.Fatalf("a report must be non-nil")
	}

	if len(report.Terminals) != 2 {
		t.Fatalf("unexpected number of terminals; want: %v, got: %v", 2, len(report.Terminals))
	}
	if report.Terminals[0].Name != "<eof>" || report.Terminals[0].Number != 1 {
		t.Fatalf("the first terminal must be the end of input; got: %+v", report.Terminals[0])
	}
	if report.Terminals[1].Name != "x" || report.Terminals[1].TokenType != "TOK_X" {
		t.Fatalf("unexpected terminal; got: %+v", report.Terminals[1])
	}

	if len(report.NonTerminals) != 2 {
		t.Fatalf("unexpected number of non-terminals; want: %v, got: %v", 2, len(report.NonTerminals))
	}
	a := report.NonTerminals[1]
	if a.Name != "a" {
		t.Fatalf("unexpected non-terminal; got: %+v", a)
	}
	if !a.Nullable {
		t.Fatalf("the non-terminal a must be nullable")
	}
	if len(a.First) != 1 || a.First[0] != 2 {
		t.Fatalf("unexpected FIRST set; want: [2], got: %v", a.First)
	}
	if len(a.Follow) != 1 || a.Follow[0] != 1 {
		t.Fatalf("unexpected FOLLOW set; want: [1], got: %v", a.Follow)
	}
}
