package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrInvalidToken   = newSyntaxError("invalid token")
	synErrUnclosedString = newSyntaxError("unclosed string literal")
	synErrUnclosedAction = newSyntaxError("unclosed action block")

	// syntax errors
	synErrNoProduction     = newSyntaxError("a grammar must have at least one production")
	synErrNoProductionName = newSyntaxError("a production name is missing")
	synErrNoColon          = newSyntaxError("the colon must precede alternatives")
	synErrNoSemicolon      = newSyntaxError("the semicolon is missing at the last of a definition")
	synErrNoOptionName     = newSyntaxError("an option needs a name")
	synErrNoOptionEqual    = newSyntaxError("an option name must be followed by =")
	synErrNoOptionValue    = newSyntaxError("an option needs an identifier or a string literal as its value")
	synErrNoTokenName      = newSyntaxError("a token declaration needs a name")
	synErrNoTokenType      = newSyntaxError("= in a token declaration must be followed by a lexer token type")
	synErrStrayAction      = newSyntaxError("an action block is allowed only at the head or the tail of an alternative")
)
