package codegen

import (
	"fmt"
	"strings"

	"github.com/kanata9/ligen/spec"
)

type EmitError struct {
	message string
}

func newEmitError(format string, a ...interface{}) *EmitError {
	return &EmitError{
		message: fmt.Sprintf(format, a...),
	}
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("emission error: %s", e.message)
}

const (
	languageC  = "c"
	languageGo = "go"

	onErrorExit   = "exit"
	onErrorReturn = "return"
)

// options holds every emitter knob after defaulting and validation.
type options struct {
	language      string
	prefix        string
	tokenType     string
	lexerInclude  string
	lexerFunction string
	onError       string
	pkgName       string
}

func resolveOptions(cgram *spec.CompiledGrammar) (*options, error) {
	get := func(name, def string) string {
		if v, ok := cgram.Options[name]; ok {
			return v
		}
		return def
	}

	opts := &options{}

	opts.language = get("language", languageC)
	if opts.language != languageC && opts.language != languageGo {
		return nil, newEmitError("unsupported language: %v", opts.language)
	}

	opts.prefix = get("prefix", "yy")
	if !isIdentifier(opts.prefix) {
		return nil, newEmitError("prefix must be an identifier: %v", opts.prefix)
	}

	opts.tokenType = get("token_type", opts.prefix+"_token_t")
	opts.lexerInclude = get("lexer_include", "<lexer.h>")
	opts.lexerFunction = get("lexer_function", opts.prefix+"_get_next_token()")

	opts.onError = get("on_error", onErrorExit)
	if opts.onError != onErrorExit && opts.onError != onErrorReturn {
		return nil, newEmitError("on_error must be %v or %v: %v", onErrorExit, onErrorReturn, opts.onError)
	}

	opts.pkgName = get("package", "main")
	if !isIdentifier(opts.pkgName) {
		return nil, newEmitError("package must be an identifier: %v", opts.pkgName)
	}

	return opts, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// GenParser renders parser source code for a compiled grammar. The output is
// a function of the compiled grammar alone, so one grammar always renders to
// the same bytes.
func GenParser(cgram *spec.CompiledGrammar) ([]byte, error) {
	opts, err := resolveOptions(cgram)
	if err != nil {
		return nil, err
	}

	model, err := genParserModel(cgram, opts)
	if err != nil {
		return nil, err
	}

	switch opts.language {
	case languageC:
		return genCParser(model)
	case languageGo:
		return genGoParser(model)
	default:
		return nil, newEmitError("unsupported language: %v", opts.language)
	}
}

type parserModel struct {
	GrammarName   string
	TokenType     string
	Prefix        string
	LexerInclude  string
	LexerFunction string
	ExitOnError   bool
	PkgName       string
	NeedsFmt      bool
	StartFunc     string
	StartGoFunc   string
	NonTerminals  []*nonTermModel
	UserCode      string
}

type nonTermModel struct {
	Name         string
	FuncName     string
	GoFuncName   string
	Alternatives []*altModel
	HasDefault   bool
	Expected     string
}

type altModel struct {
	CaseLabels []string
	IsDefault  bool
	HeadAction string
	TailAction string
	Steps      []*stepModel
}

type stepModel struct {
	IsTerminal bool
	TokenType  string
	FuncName   string
	GoFuncName string
}

func genParserModel(cgram *spec.CompiledGrammar, opts *options) (*parserModel, error) {
	model := &parserModel{
		GrammarName:   cgram.Name,
		TokenType:     opts.tokenType,
		Prefix:        opts.prefix,
		LexerInclude:  includeArg(opts.lexerInclude),
		LexerFunction: opts.lexerFunction,
		ExitOnError:   opts.onError == onErrorExit,
		PkgName:       opts.pkgName,
		UserCode:      cgram.UserCode,
	}

	prodsByLHS := map[int][]*spec.CompiledProduction{}
	for _, prod := range cgram.Productions {
		prodsByLHS[prod.LHS] = append(prodsByLHS[prod.LHS], prod)
	}

	for nt := 1; nt < len(cgram.NonTerminals); nt++ {
		name := cgram.NonTerminals[nt]
		ntModel := &nonTermModel{
			Name:       name,
			FuncName:   fmt.Sprintf("%v_parse_%v", opts.prefix, name),
			GoFuncName: "Parse" + camelCase(name),
		}

		expected := []string{}
		for _, prod := range prodsByLHS[nt] {
			alt := &altModel{
				HeadAction: prod.HeadAction,
				TailAction: prod.TailAction,
			}
			for term := 1; term < cgram.TerminalCount; term++ {
				if cgram.Lookup(nt, term) != prod.Number {
					continue
				}
				expected = append(expected, cgram.Terminals[term])
				if term == cgram.EOFSymbol {
					alt.IsDefault = true
					ntModel.HasDefault = true
					continue
				}
				alt.CaseLabels = append(alt.CaseLabels, cgram.TokenTypes[term])
			}
			for _, sym := range prod.RHS {
				if sym > 0 {
					alt.Steps = append(alt.Steps, &stepModel{
						IsTerminal: true,
						TokenType:  cgram.TokenTypes[sym],
					})
				} else {
					calleeName := cgram.NonTerminals[-sym]
					alt.Steps = append(alt.Steps, &stepModel{
						FuncName:   fmt.Sprintf("%v_parse_%v", opts.prefix, calleeName),
						GoFuncName: "Parse" + camelCase(calleeName),
					})
				}
			}
			if len(alt.CaseLabels) == 0 && !alt.IsDefault {
				// No lookahead selects this alternative, so there is
				// nothing to dispatch on.
				continue
			}
			ntModel.Alternatives = append(ntModel.Alternatives, alt)
		}
		ntModel.Expected = strings.Join(expected, ", ")

		if nt == cgram.StartNonTerminal {
			model.StartFunc = ntModel.FuncName
			model.StartGoFunc = ntModel.GoFuncName
		}
		model.NonTerminals = append(model.NonTerminals, ntModel)
	}

	for _, nt := range model.NonTerminals {
		if !nt.HasDefault {
			model.NeedsFmt = true
		}
		for _, alt := range nt.Alternatives {
			for _, step := range alt.Steps {
				if step.IsTerminal {
					model.NeedsFmt = true
				}
			}
		}
	}

	return model, nil
}

func includeArg(value string) string {
	if strings.HasPrefix(value, "<") {
		return value
	}
	return fmt.Sprintf("%q", value)
}

func camelCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
