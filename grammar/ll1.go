package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kanata9/ligen/spec"
)

// Conflict is one parse-table cell two productions competed for. The first
// production to claim a cell keeps it; every later claimant is recorded as
// rejected so a report can show the complete picture.
type Conflict struct {
	NonTerminal string
	Terminal    string
	Adopted     int
	Rejected    int
}

type ConflictError struct {
	Conflicts []*Conflict
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v conflicts:", len(e.Conflicts))
	for _, c := range e.Conflicts {
		fmt.Fprintf(&b, "\n  %v, %v: production %v and production %v are both applicable", c.NonTerminal, c.Terminal, c.Adopted, c.Rejected)
	}
	return b.String()
}

type tableConflict struct {
	nonTerminal symbol
	terminal    symbol
	adopted     productionNum
	rejected    productionNum
}

type parsingTable struct {
	cells        []productionNum
	termCount    int
	nonTermCount int
}

func (t *parsingTable) cell(nonTerm, term symbolNum) productionNum {
	return t.cells[nonTerm.Int()*t.termCount+term.Int()]
}

type tableBuilder struct {
	prods     *productionSet
	first     *firstSet
	follow    *followSet
	symTab    *symbolTableReader
	conflicts []*tableConflict
}

func (b *tableBuilder) build() (*parsingTable, error) {
	termTexts, err := b.symTab.terminalTexts()
	if err != nil {
		return nil, err
	}
	nonTermTexts, err := b.symTab.nonTerminalTexts()
	if err != nil {
		return nil, err
	}

	tab := &parsingTable{
		cells:        make([]productionNum, len(nonTermTexts)*len(termTexts)),
		termCount:    len(termTexts),
		nonTermCount: len(nonTermTexts),
	}
	for _, prod := range b.prods.getAllProductions() {
		fst, err := b.first.find(prod, 0)
		if err != nil {
			return nil, err
		}
		for _, sym := range sortSymbols(fst.symbols) {
			b.writeCell(tab, prod, sym)
		}
		if fst.empty {
			flw, err := b.follow.find(prod.lhs)
			if err != nil {
				return nil, err
			}
			for _, sym := range sortSymbols(flw.symbols) {
				b.writeCell(tab, prod, sym)
			}
			if flw.eof {
				b.writeCell(tab, prod, symbolEOF)
			}
		}
	}
	return tab, nil
}

func (b *tableBuilder) writeCell(tab *parsingTable, prod *production, term symbol) {
	idx := prod.lhs.num().Int()*tab.termCount + term.num().Int()
	occupant := tab.cells[idx]
	if occupant == productionNumNil {
		tab.cells[idx] = prod.num
		return
	}
	if occupant == prod.num {
		return
	}
	b.conflicts = append(b.conflicts, &tableConflict{
		nonTerminal: prod.lhs,
		terminal:    term,
		adopted:     occupant,
		rejected:    prod.num,
	})
}

func sortSymbols(syms map[symbol]struct{}) []symbol {
	sorted := make([]symbol, 0, len(syms))
	for sym := range syms {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].num() < sorted[j].num()
	})
	return sorted
}

type compileConfig struct {
	reportingEnabled bool
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.reportingEnabled = true
	}
}

// Compile analyzes a grammar into a parse table. When the grammar has
// conflicts, the returned error is a *ConflictError describing every
// conflicted cell, and the compiled grammar is nil. A report, when enabled,
// is generated in both cases.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	first, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, nil, err
	}
	follow, err := genFollowSet(gram.productionSet, first)
	if err != nil {
		return nil, nil, err
	}

	b := &tableBuilder{
		prods:  gram.productionSet,
		first:  first,
		follow: follow,
		symTab: gram.symbolTable.reader(),
	}
	tab, err := b.build()
	if err != nil {
		return nil, nil, err
	}

	var report *spec.Report
	if config.reportingEnabled {
		report, err = genReport(gram, first, follow, tab, b.conflicts)
		if err != nil {
			return nil, nil, err
		}
	}

	if len(b.conflicts) > 0 {
		return nil, report, genConflictError(gram, b.conflicts)
	}

	cgram, err := genCompiledGrammar(gram, tab)
	if err != nil {
		return nil, nil, err
	}
	return cgram, report, nil
}

func genConflictError(gram *Grammar, conflicts []*tableConflict) *ConflictError {
	symTab := gram.symbolTable.reader()
	cerr := &ConflictError{}
	for _, c := range conflicts {
		ntText, _ := symTab.toText(c.nonTerminal)
		termText, _ := symTab.toText(c.terminal)
		cerr.Conflicts = append(cerr.Conflicts, &Conflict{
			NonTerminal: ntText,
			Terminal:    termText,
			Adopted:     c.adopted.Int(),
			Rejected:    c.rejected.Int(),
		})
	}
	return cerr
}

func genCompiledGrammar(gram *Grammar, tab *parsingTable) (*spec.CompiledGrammar, error) {
	symTab := gram.symbolTable.reader()
	termTexts, err := symTab.terminalTexts()
	if err != nil {
		return nil, err
	}
	nonTermTexts, err := symTab.nonTerminalTexts()
	if err != nil {
		return nil, err
	}

	tokenTypes := make([]string, len(termTexts))
	for _, sym := range symTab.terminalSymbols() {
		if sym.isEOF() {
			continue
		}
		tokenTypes[sym.num().Int()] = gram.tokenType(sym)
	}

	prods := make([]*spec.CompiledProduction, 0, len(gram.productionSet.getAllProductions()))
	for _, prod := range gram.productionSet.getAllProductions() {
		rhs := make([]int, 0, prod.rhsLen)
		for _, sym := range prod.rhs {
			if sym.isTerminal() {
				rhs = append(rhs, sym.num().Int())
			} else {
				rhs = append(rhs, -sym.num().Int())
			}
		}
		prods = append(prods, &spec.CompiledProduction{
			Number:     prod.num.Int(),
			LHS:        prod.lhs.num().Int(),
			RHS:        rhs,
			HeadAction: prod.headAction,
			TailAction: prod.tailAction,
		})
	}

	table := make([]int, len(tab.cells))
	for i, num := range tab.cells {
		table[i] = num.Int()
	}

	options := make(map[string]string, len(gram.options))
	for name, value := range gram.options {
		options[name] = value
	}

	return &spec.CompiledGrammar{
		Name:             gram.name,
		Options:          options,
		Terminals:        termTexts,
		TokenTypes:       tokenTypes,
		NonTerminals:     nonTermTexts,
		StartNonTerminal: gram.startSymbol.num().Int(),
		Productions:      prods,
		Table:            table,
		TerminalCount:    tab.termCount,
		EOFSymbol:        symbolEOF.num().Int(),
		UserCode:         gram.userCode,
	}, nil
}

func genReport(gram *Grammar, first *firstSet, follow *followSet, tab *parsingTable, conflicts []*tableConflict) (*spec.Report, error) {
	symTab := gram.symbolTable.reader()
	report := &spec.Report{}

	for _, sym := range symTab.terminalSymbols() {
		tokenType := ""
		if !sym.isEOF() {
			tokenType = gram.tokenType(sym)
		}
		text, _ := symTab.toText(sym)
		report.Terminals = append(report.Terminals, &spec.Terminal{
			Number:    sym.num().Int(),
			Name:      text,
			TokenType: tokenType,
		})
	}

	for _, sym := range symTab.nonTerminalSymbols() {
		fst := first.findBySymbol(sym)
		if fst == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %v", sym)
		}
		flw, err := follow.find(sym)
		if err != nil {
			return nil, err
		}
		fstNums := []int{}
		for _, s := range sortSymbols(fst.symbols) {
			fstNums = append(fstNums, s.num().Int())
		}
		flwNums := []int{}
		if flw.eof {
			flwNums = append(flwNums, symbolEOF.num().Int())
		}
		for _, s := range sortSymbols(flw.symbols) {
			flwNums = append(flwNums, s.num().Int())
		}
		text, _ := symTab.toText(sym)
		report.NonTerminals = append(report.NonTerminals, &spec.NonTerminal{
			Number:   sym.num().Int(),
			Name:     text,
			First:    fstNums,
			Nullable: fst.empty,
			Follow:   flwNums,
		})
	}

	for _, prod := range gram.productionSet.getAllProductions() {
		rhs := make([]int, 0, prod.rhsLen)
		for _, sym := range prod.rhs {
			if sym.isTerminal() {
				rhs = append(rhs, sym.num().Int())
			} else {
				rhs = append(rhs, -sym.num().Int())
			}
		}
		report.Productions = append(report.Productions, &spec.Production{
			Number: prod.num.Int(),
			LHS:    prod.lhs.num().Int(),
			RHS:    rhs,
		})
	}

	for nt := 1; nt < tab.nonTermCount; nt++ {
		for term := 1; term < tab.termCount; term++ {
			num := tab.cell(symbolNum(nt), symbolNum(term))
			if num == productionNumNil {
				continue
			}
			report.Table = append(report.Table, &spec.TableEntry{
				NonTerminal: nt,
				Terminal:    term,
				Production:  num.Int(),
			})
		}
	}

	for _, c := range conflicts {
		report.Conflicts = append(report.Conflicts, &spec.Conflict{
			NonTerminal: c.nonTerminal.num().Int(),
			Terminal:    c.terminal.num().Int(),
			Adopted:     c.adopted.Int(),
			Rejected:    c.rejected.Int(),
		})
	}

	return report, nil
}
