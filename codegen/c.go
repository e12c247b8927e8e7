package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const cParserTemplate = `{{ sectionHeader "global includes" }}

#include <stdio.h>
#include <stdlib.h>
#include {{ .LexerInclude }}

{{ sectionHeader "utility methods" }}

static {{ .TokenType }} {{ .Prefix }}_next_token;
static int {{ .Prefix }}_token_buffered = 0;

static {{ .TokenType }} {{ .Prefix }}_peek_next_token(void)
{
	if (!{{ .Prefix }}_token_buffered) {
		{{ .Prefix }}_next_token = {{ .LexerFunction }};
		{{ .Prefix }}_token_buffered = 1;
	}

	return {{ .Prefix }}_next_token;
}

static int {{ .Prefix }}_eat_token({{ .TokenType }} expected_token)
{
	{{ .TokenType }} token = {{ .Prefix }}_peek_next_token();

	if (token == expected_token) {
		{{ .Prefix }}_token_buffered = 0;
		return 1;
	}

	return 0;
}

{{ sectionHeader "forward declarations" }}

{{ range .NonTerminals -}}
static int {{ .FuncName }}(void);
{{ end }}
{{- sectionHeader "main automaton" }}
{{ range $nt := .NonTerminals }}
static int {{ $nt.FuncName }}(void)
{
	switch ({{ $.Prefix }}_peek_next_token()) {
{{- range $alt := $nt.Alternatives }}
{{- range $alt.CaseLabels }}
	case {{ . }}:
{{- end }}
{{- if $alt.IsDefault }}
	default:
{{- end }}
{{- if $alt.HeadAction }}
		{{ $alt.HeadAction }}
{{- end }}
{{- range $step := $alt.Steps }}
{{- if $step.IsTerminal }}
		if (!{{ $.Prefix }}_eat_token({{ $step.TokenType }})) {
{{- if $.ExitOnError }}
			fprintf(stderr, "{{ $nt.Name }}: unexpected token\n");
			exit(1);
{{- else }}
			return 0;
{{- end }}
		}
{{- else }}
{{- if $.ExitOnError }}
		{{ $step.FuncName }}();
{{- else }}
		if (!{{ $step.FuncName }}()) {
			return 0;
		}
{{- end }}
{{- end }}
{{- end }}
{{- if $alt.TailAction }}
		{{ $alt.TailAction }}
{{- end }}
		return 1;
{{- end }}
{{- if not $nt.HasDefault }}
	default:
{{- if $.ExitOnError }}
		fprintf(stderr, "{{ $nt.Name }}: expected one of {{ $nt.Expected }}\n");
		exit(1);
{{- else }}
		return 0;
{{- end }}
{{- end }}
	}
}
{{ end }}
int {{ .Prefix }}_parse(void)
{
	return {{ .StartFunc }}();
}
{{ if .UserCode }}
{{ sectionHeader "user code" }}

{{ .UserCode }}
{{- end }}
`

func genCParser(model *parserModel) ([]byte, error) {
	fns := template.FuncMap{
		"sectionHeader": func(heading string) string {
			var b strings.Builder
			b.WriteString("/" + strings.Repeat("*", 77) + "\n")
			fmt.Fprintf(&b, " * %s *\n", centerText(heading, 73))
			b.WriteString(" " + strings.Repeat("*", 77) + "/")
			return b.String()
		},
	}

	tmpl, err := template.New("parser").Funcs(fns).Parse(cParserTemplate)
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

func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	left := (width - len(text)) / 2
	right := width - len(text) - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}
