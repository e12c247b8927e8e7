package codegen

import (
	"bytes"
	"strings"
	"text/template"
)

const goParserTemplate = `package {{ .PkgName }}
{{ if .NeedsFmt }}
import "fmt"
{{ end }}
// TokenType identifies a lexical token. The token type constants referenced
// by the parser are expected to be defined alongside the lexer.
type TokenType = int

// Lexer is the token source a parser reads from. Next returns the next token
// type in the input.
type Lexer interface {
	Next() TokenType
}

type Parser struct {
	lex      Lexer
	next     TokenType
	buffered bool
}

func NewParser(lex Lexer) *Parser {
	return &Parser{
		lex: lex,
	}
}

func (p *Parser) peek() TokenType {
	if !p.buffered {
		p.next = p.lex.Next()
		p.buffered = true
	}
	return p.next
}

func (p *Parser) eat(expected TokenType) bool {
	if p.peek() == expected {
		p.buffered = false
		return true
	}
	return false
}

func (p *Parser) Parse() error {
	return p.{{ .StartGoFunc }}()
}
{{ range $nt := .NonTerminals }}
func (p *Parser) {{ $nt.GoFuncName }}() error {
	switch p.peek() {
{{- range $alt := $nt.Alternatives }}
{{- if $alt.IsDefault }}
	default:
{{- else }}
	case {{ join $alt.CaseLabels ", " }}:
{{- end }}
{{- if $alt.HeadAction }}
		{{ $alt.HeadAction }}
{{- end }}
{{- range $step := $alt.Steps }}
{{- if $step.IsTerminal }}
		if !p.eat({{ $step.TokenType }}) {
			return fmt.Errorf("{{ $nt.Name }}: unexpected token %v", p.peek())
		}
{{- else }}
		if err := p.{{ $step.GoFuncName }}(); err != nil {
			return err
		}
{{- end }}
{{- end }}
{{- if $alt.TailAction }}
		{{ $alt.TailAction }}
{{- end }}
		return nil
{{- end }}
{{- if not $nt.HasDefault }}
	default:
		return fmt.Errorf("{{ $nt.Name }}: expected one of {{ $nt.Expected }}, found token %v", p.peek())
{{- end }}
	}
}
{{ end }}
{{- if .UserCode }}
{{ .UserCode }}
{{- end }}
`

func genGoParser(model *parserModel) ([]byte, error) {
	fns := template.FuncMap{
		"join": strings.Join,
	}

	tmpl, err := template.New("parser").Funcs(fns).Parse(goParserTemplate)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	err = tmpl.Execute(&b, model)
	if err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
