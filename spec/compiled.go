package spec

// CompiledGrammar is the fully analyzed, conflict-free form of a grammar.
// All symbol references are numeric: terminals and non-terminals are numbered
// from 1 in declaration order, with terminal 1 reserved for end-of-input and
// non-terminal 1 reserved for the start symbol. It is plain data so that it
// can be serialized and consumed by code generators without re-analysis.
type CompiledGrammar struct {
	Name             string                `json:"name"`
	Options          map[string]string     `json:"options"`
	Terminals        []string              `json:"terminals"`
	TokenTypes       []string              `json:"token_types"`
	NonTerminals     []string              `json:"non_terminals"`
	StartNonTerminal int                   `json:"start_non_terminal"`
	Productions      []*CompiledProduction `json:"productions"`
	Table            []int                 `json:"table"`
	TerminalCount    int                   `json:"terminal_count"`
	EOFSymbol        int                   `json:"eof_symbol"`
	UserCode         string                `json:"user_code"`
}

// CompiledProduction is one production rule. RHS uses the sign of each entry
// to distinguish the symbol kinds: a positive value is a terminal number and
// a negative value is a non-terminal number multiplied by -1.
type CompiledProduction struct {
	Number     int    `json:"number"`
	LHS        int    `json:"lhs"`
	RHS        []int  `json:"rhs"`
	HeadAction string `json:"head_action,omitempty"`
	TailAction string `json:"tail_action,omitempty"`
}

// Lookup returns the production number selected for a non-terminal and a
// lookahead terminal, or 0 when the cell is empty.
func (g *CompiledGrammar) Lookup(nonTerminal, terminal int) int {
	return g.Table[nonTerminal*g.TerminalCount+terminal]
}
