package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/kanata9/ligen/grammar"
	"github.com/kanata9/ligen/spec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print the FIRST sets, FOLLOW sets, and parse table of a grammar",
		Example: `  ligen describe grammar.ligen`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
	grmPath := args[0]
	defer func() {
		if retErr != nil {
			attachSourceInfo(retErr, grmPath, true)
		}
	}()

	gram, err := readGrammar(grmPath, nil)
	if err != nil {
		return err
	}

	_, report, err := grammar.Compile(gram, grammar.EnableReporting())
	if err != nil {
		var cerr *grammar.ConflictError
		if !errors.As(err, &cerr) || report == nil {
			return err
		}
	}

	werr := writeDescription(os.Stdout, report)
	if werr != nil {
		return werr
	}

	return err
}

const descriptionTemplate = `# Conflicts

{{ printConflictSummary . }}
{{ range .Conflicts -}}
{{ printConflict . }}
{{ end }}
# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
# Non-terminals

{{ range .NonTerminals -}}
{{ printNonTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# Table

{{ range .Table -}}
{{ printTableEntry . }}
{{ end -}}
`

func writeDescription(w io.Writer, report *spec.Report) error {
	termName := func(sym int) string {
		return report.Terminals[sym-1].Name
	}

	nonTermName := func(sym int) string {
		return report.NonTerminals[sym-1].Name
	}

	symName := func(sym int) string {
		if sym > 0 {
			return termName(sym)
		}
		return nonTermName(-sym)
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			if len(report.Conflicts) == 0 {
				return "No conflict was detected."
			}
			if len(report.Conflicts) == 1 {
				return "1 conflict was detected."
			}
			return fmt.Sprintf("%v conflicts were detected.", len(report.Conflicts))
		},
		"printConflict": func(c *spec.Conflict) string {
			return fmt.Sprintf("%v, %v: production %v adopted, production %v rejected",
				nonTermName(c.NonTerminal), termName(c.Terminal), c.Adopted, c.Rejected)
		},
		"printTerminal": func(term *spec.Terminal) string {
			if term.TokenType == "" {
				return fmt.Sprintf("%4v %v", term.Number, term.Name)
			}
			return fmt.Sprintf("%4v %v = %v", term.Number, term.Name, term.TokenType)
		},
		"printNonTerminal": func(nt *spec.NonTerminal) string {
			first := make([]string, 0, len(nt.First)+1)
			for _, sym := range nt.First {
				first = append(first, termName(sym))
			}
			if nt.Nullable {
				first = append(first, "ε")
			}
			follow := make([]string, 0, len(nt.Follow))
			for _, sym := range nt.Follow {
				follow = append(follow, termName(sym))
			}
			return fmt.Sprintf("%4v %v: FIRST = {%v}, FOLLOW = {%v}",
				nt.Number, nt.Name, strings.Join(first, ", "), strings.Join(follow, ", "))
		},
		"printProduction": func(prod *spec.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%4v %v →", prod.Number, nonTermName(prod.LHS))
			if len(prod.RHS) == 0 {
				b.WriteString(" ε")
			}
			for _, sym := range prod.RHS {
				fmt.Fprintf(&b, " %v", symName(sym))
			}
			return b.String()
		},
		"printTableEntry": func(e *spec.TableEntry) string {
			return fmt.Sprintf("%v, %v → production %v",
				nonTermName(e.NonTerminal), termName(e.Terminal), e.Production)
		},
	}

	tmpl, err := template.New("description").Funcs(fns).Parse(descriptionTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
