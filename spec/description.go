package spec

type Terminal struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	TokenType string `json:"token_type"`
}

type NonTerminal struct {
	Number   int   `json:"number"`
	Name     string `json:"name"`
	First    []int `json:"first"`
	Nullable bool  `json:"nullable"`
	Follow   []int `json:"follow"`
}

type Production struct {
	Number int   `json:"number"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
}

type TableEntry struct {
	NonTerminal int `json:"non_terminal"`
	Terminal    int `json:"terminal"`
	Production  int `json:"production"`
}

type Conflict struct {
	NonTerminal int `json:"non_terminal"`
	Terminal    int `json:"terminal"`
	Adopted     int `json:"adopted"`
	Rejected    int `json:"rejected"`
}

type Report struct {
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	Table        []*TableEntry  `json:"table"`
	Conflicts    []*Conflict    `json:"conflicts"`
}
