package grammar

import (
	verr "github.com/kanata9/ligen/error"
	"github.com/kanata9/ligen/spec"
)

const defaultGrammarName = "parser"

// optionStart names the start symbol; all other options are kept as opaque
// key/value pairs for the code generator.
const optionStart = "start"

type Grammar struct {
	name          string
	options       map[string]string
	symbolTable   *symbolTable
	productionSet *productionSet
	startSymbol   symbol
	tokenTypes    map[symbol]string
	userCode      string
}

type GrammarBuilder struct {
	AST *spec.RootNode

	// Overrides maps option names to values supplied from outside the grammar
	// source. An override always wins over an in-source assignment with the
	// same name.
	Overrides map[string]string

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	options := b.genOptions(b.AST)

	if len(b.AST.Productions) == 0 {
		return nil, verr.SpecErrors{
			&verr.SpecError{
				Cause: semErrNoProduction,
			},
		}
	}

	startName, ok := b.resolveStartSymbol(b.AST, options)
	if !ok {
		return nil, b.errs
	}

	symTab, tokenTypes := b.genSymbolTable(b.AST, startName)
	prods := b.genProductions(b.AST, symTab.reader())
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	name, ok := options["name"]
	if !ok {
		name = defaultGrammarName
	}

	startSym, _ := symTab.reader().toSymbol(startName)
	return &Grammar{
		name:          name,
		options:       options,
		symbolTable:   symTab,
		productionSet: prods,
		startSymbol:   startSym,
		tokenTypes:    tokenTypes,
		userCode:      b.AST.UserCode,
	}, nil
}

// genOptions merges option assignments. Among in-source assignments the last
// one wins; an override beats any in-source value.
func (b *GrammarBuilder) genOptions(root *spec.RootNode) map[string]string {
	options := map[string]string{}
	for _, opt := range root.Options {
		options[opt.Name] = opt.Value
	}
	for name, value := range b.Overrides {
		options[name] = value
	}
	return options
}

func (b *GrammarBuilder) resolveStartSymbol(root *spec.RootNode, options map[string]string) (string, bool) {
	startName, ok := options[optionStart]
	if !ok {
		return root.Productions[0].LHS, true
	}
	for _, prod := range root.Productions {
		if prod.LHS == startName {
			return startName, true
		}
	}
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  semErrUndefinedStart,
		Detail: startName,
	})
	return "", false
}

func (b *GrammarBuilder) genSymbolTable(root *spec.RootNode, startName string) (*symbolTable, map[symbol]string) {
	symTab := newSymbolTable()
	w := symTab.writer()

	_, err := w.registerStartSymbol(startName)
	if err != nil {
		panic(err)
	}

	definedLHS := map[string]struct{}{}
	for _, prod := range root.Productions {
		if _, exist := definedLHS[prod.LHS]; exist {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateProduction,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		definedLHS[prod.LHS] = struct{}{}

		_, err := w.registerNonTerminalSymbol(prod.LHS)
		if err != nil {
			panic(err)
		}
	}

	tokenTypes := map[symbol]string{}
	for _, term := range root.Terminals {
		if sym, exist := symTab.reader().toSymbol(term.Name); exist {
			cause := semErrDuplicateName
			if sym.isTerminal() {
				cause = semErrDuplicateTerminal
			}
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  cause,
				Detail: term.Name,
				Row:    term.Pos.Row,
				Col:    term.Pos.Col,
			})
			continue
		}

		sym, err := w.registerTerminalSymbol(term.Name)
		if err != nil {
			panic(err)
		}
		tokenTypes[sym] = term.TokenType
	}

	return symTab, tokenTypes
}

func (b *GrammarBuilder) genProductions(root *spec.RootNode, symTab *symbolTableReader) *productionSet {
	prods := newProductionSet()
	undefined := map[string]struct{}{}
	for _, prodNode := range root.Productions {
		lhsSym, ok := symTab.toSymbol(prodNode.LHS)
		if !ok || lhsSym.isTerminal() {
			// A duplicate definition already reported.
			continue
		}

		for _, alt := range prodNode.RHS {
			rhsSyms := make([]symbol, 0, len(alt.Elements))
			resolved := true
			for _, elem := range alt.Elements {
				sym, ok := symTab.toSymbol(elem.ID)
				if !ok {
					resolved = false
					if _, reported := undefined[elem.ID]; reported {
						continue
					}
					undefined[elem.ID] = struct{}{}
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  semErrUndefinedSymbol,
						Detail: elem.ID,
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					})
					continue
				}
				rhsSyms = append(rhsSyms, sym)
			}
			if !resolved {
				continue
			}

			prod, err := newProduction(lhsSym, rhsSyms)
			if err != nil {
				panic(err)
			}
			prod.pos = alt.Pos
			if alt.HeadAction != nil {
				prod.headAction = alt.HeadAction.Code
			}
			if alt.TailAction != nil {
				prod.tailAction = alt.TailAction.Code
			}

			if !prods.append(prod) {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDuplicateProduction,
					Detail: prodNode.LHS,
					Row:    alt.Pos.Row,
					Col:    alt.Pos.Col,
				})
			}
		}
	}
	return prods
}

// tokenType returns the lexer token-type identifier a terminal is bound to.
// A terminal declared without a binding maps to its own name.
func (g *Grammar) tokenType(sym symbol) string {
	if tt, ok := g.tokenTypes[sym]; ok {
		return tt
	}
	text, _ := g.symbolTable.reader().toText(sym)
	return text
}
